package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabdaily/pkg/models"
)

type fakeService struct {
	mu      sync.Mutex
	sets    map[string]*models.PracticeSet
	fail    map[string]bool
	created []string
	days    []time.Time
}

func newFakeService() *fakeService {
	return &fakeService{sets: make(map[string]*models.PracticeSet), fail: make(map[string]bool)}
}

func (f *fakeService) GetOrCreateTodaysSet(_ context.Context, owner string, today time.Time) (*models.PracticeSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[owner] {
		return nil, errors.New("boom")
	}
	f.days = append(f.days, today)
	if set, ok := f.sets[owner]; ok {
		return set, nil
	}
	set := &models.PracticeSet{ID: "set-" + owner, Owner: owner, ItemIDs: []string{"a", "b"}}
	f.sets[owner] = set
	f.created = append(f.created, owner)
	return set, nil
}

func (f *fakeService) Status(_ context.Context, owner string, _ time.Time) (models.ChallengeState, *models.PracticeSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[owner] {
		return models.StateAbsent, nil, errors.New("boom")
	}
	set := f.sets[owner]
	return set.State(), set, nil
}

type fakeLearners struct {
	learners []models.Learner
	err      error
}

func (f *fakeLearners) ListAll(context.Context) ([]models.Learner, error) {
	return f.learners, f.err
}

func (f *fakeLearners) ListForNotification(_ context.Context, hour int) ([]models.Learner, error) {
	var out []models.Learner
	for _, l := range f.learners {
		if l.NotificationEnabled && l.NotificationHour == hour {
			out = append(out, l)
		}
	}
	return out, f.err
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent map[int64]string
	fail map[int64]bool
}

func (f *fakeNotifier) SendReminder(_ context.Context, learner models.Learner, set *models.PracticeSet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[learner.ID] {
		return errors.New("blocked by user")
	}
	f.sent[learner.ID] = set.ID
	return nil
}

func newTestScheduler(service *fakeService, learners *fakeLearners, notifier *fakeNotifier, now time.Time) *Scheduler {
	s := New(service, learners, notifier, Options{
		PrepareAt:             "05:00",
		NotificationStartHour: 8,
		NotificationEndHour:   22,
		WorkerLimit:           3,
		RemindersPerSecond:    1000,
	})
	s.now = func() time.Time { return now }
	return s
}

func learnersWithIDs(ids ...int64) []models.Learner {
	out := make([]models.Learner, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Learner{ID: id, NotificationEnabled: true, NotificationHour: 9})
	}
	return out
}

func TestPrepareAll(t *testing.T) {
	service := newFakeService()
	service.fail["3"] = true
	learners := &fakeLearners{learners: learnersWithIDs(1, 2, 3, 4, 5, 6, 7)}
	now := time.Date(2024, 3, 14, 5, 0, 0, 0, time.UTC)
	s := newTestScheduler(service, learners, &fakeNotifier{}, now)

	prepared, failed, err := s.PrepareAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, prepared)
	assert.Equal(t, 1, failed)
	assert.ElementsMatch(t, []string{"1", "2", "4", "5", "6", "7"}, service.created)
	for _, d := range service.days {
		assert.True(t, d.Equal(now))
	}

	// a second run reuses the stored sets
	prepared, _, err = s.PrepareAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, prepared)
	assert.Len(t, service.created, 6)
}

func TestPrepareAll_ListFailure(t *testing.T) {
	learners := &fakeLearners{err: errors.New("db down")}
	s := newTestScheduler(newFakeService(), learners, &fakeNotifier{}, time.Now())
	_, _, err := s.PrepareAll(context.Background())
	assert.Error(t, err)
}

func TestPrepareAll_Canceled(t *testing.T) {
	service := newFakeService()
	s := newTestScheduler(service, &fakeLearners{learners: learnersWithIDs(1, 2)}, &fakeNotifier{}, time.Now())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prepared, _, err := s.PrepareAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, prepared)
}

func TestSendReminders(t *testing.T) {
	service := newFakeService()
	learners := &fakeLearners{learners: learnersWithIDs(1, 2, 3, 4)}
	learners.learners = append(learners.learners,
		models.Learner{ID: 5, NotificationEnabled: true, NotificationHour: 18},
		models.Learner{ID: 6, NotificationEnabled: false, NotificationHour: 9},
	)
	service.sets["1"] = &models.PracticeSet{ID: "set-1", ItemIDs: []string{"a"}, IsCompleted: true}
	service.sets["2"] = &models.PracticeSet{ID: "set-2", ItemIDs: []string{"a", "b"}}
	service.fail["4"] = true
	notifier := &fakeNotifier{sent: make(map[int64]string), fail: make(map[int64]bool)}

	s := newTestScheduler(service, learners, notifier, time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC))
	sent, err := s.SendReminders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, sent)
	assert.Equal(t, map[int64]string{2: "set-2", 3: "set-3"}, notifier.sent)
	assert.Equal(t, []string{"3"}, service.created, "a missing set is prepared on demand")
}

func TestSendReminders_NotifierFailure(t *testing.T) {
	service := newFakeService()
	notifier := &fakeNotifier{sent: make(map[int64]string), fail: map[int64]bool{1: true}}
	s := newTestScheduler(service, &fakeLearners{learners: learnersWithIDs(1, 2)}, notifier,
		time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC))

	sent, err := s.SendReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Contains(t, notifier.sent, int64(2))
}

func TestSendReminders_OutsideWindow(t *testing.T) {
	learners := []models.Learner{{ID: 1, NotificationEnabled: true, NotificationHour: 23}}
	notifier := &fakeNotifier{sent: make(map[int64]string)}
	s := newTestScheduler(newFakeService(), &fakeLearners{learners: learners}, notifier,
		time.Date(2024, 3, 14, 23, 0, 0, 0, time.UTC))

	sent, err := s.SendReminders(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, notifier.sent)
}

func TestSendReminders_UsesLocation(t *testing.T) {
	learners := []models.Learner{{ID: 1, NotificationEnabled: true, NotificationHour: 10}}
	notifier := &fakeNotifier{sent: make(map[int64]string)}
	s := newTestScheduler(newFakeService(), &fakeLearners{learners: learners}, notifier,
		time.Date(2024, 3, 14, 8, 0, 0, 0, time.UTC))
	s.opts.Location = time.FixedZone("CEST", 2*60*60)

	sent, err := s.SendReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestStartStop(t *testing.T) {
	s := newTestScheduler(newFakeService(), &fakeLearners{}, &fakeNotifier{}, time.Now())
	require.NoError(t, s.Start(context.Background()))
	s.Stop()

	bad := New(newFakeService(), &fakeLearners{}, &fakeNotifier{}, Options{PrepareAt: "25:99"})
	assert.Error(t, bad.Start(context.Background()))
	bad.Stop()
}

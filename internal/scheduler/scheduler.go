package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/example/vocabdaily/pkg/models"
)

// Defaults for the notification window
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// ChallengeService prepares and inspects daily practice sets
type ChallengeService interface {
	GetOrCreateTodaysSet(ctx context.Context, owner string, today time.Time) (*models.PracticeSet, error)
	Status(ctx context.Context, owner string, day time.Time) (models.ChallengeState, *models.PracticeSet, error)
}

// LearnerSource lists learners for the background jobs
type LearnerSource interface {
	ListAll(ctx context.Context) ([]models.Learner, error)
	ListForNotification(ctx context.Context, hour int) ([]models.Learner, error)
}

// Notifier interface for sending notifications
type Notifier interface {
	SendReminder(ctx context.Context, learner models.Learner, set *models.PracticeSet) error
}

// Options configures the jobs
type Options struct {
	PrepareAt             string // HH:MM
	NotificationStartHour int
	NotificationEndHour   int
	WorkerLimit           int
	RemindersPerSecond    float64
	Location              *time.Location
	Logger                *slog.Logger
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   ChallengeService
	learners  LearnerSource
	notifier  Notifier
	opts      Options
	logger    *slog.Logger
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new scheduler instance
func New(service ChallengeService, learners LearnerSource, notifier Notifier, opts Options) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.WorkerLimit < 1 {
		opts.WorkerLimit = 1
	}
	if opts.RemindersPerSecond <= 0 {
		opts.RemindersPerSecond = 1
	}
	if opts.NotificationStartHour == 0 && opts.NotificationEndHour == 0 {
		opts.NotificationStartHour = DefaultNotificationStartHour
		opts.NotificationEndHour = DefaultNotificationEndHour
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(opts.Location),
		service:   service,
		learners:  learners,
		notifier:  notifier,
		opts:      opts,
		logger:    opts.Logger,
		now:       time.Now,
	}
}

// Start registers the jobs and runs them in the background until Stop or ctx is done
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	if _, err := s.scheduler.Every(1).Day().At(s.opts.PrepareAt).Do(s.prepareJob); err != nil {
		return errors.Wrap(err, "schedule daily preparation")
	}
	// Top of every hour, in the scheduler's location
	if _, err := s.scheduler.Cron("0 * * * *").Do(s.reminderJob); err != nil {
		return errors.Wrap(err, "schedule reminders")
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler started",
		"prepare_at", s.opts.PrepareAt,
		"notification_hours", []int{s.opts.NotificationStartHour, s.opts.NotificationEndHour},
		"timezone", s.opts.Location.String(),
	)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.scheduler.Stop()
}

func (s *Scheduler) prepareJob() {
	start := s.now()
	prepared, failed, err := s.PrepareAll(s.ctx)
	if err != nil {
		s.logger.Error("daily preparation aborted", "error", err)
		return
	}
	s.logger.Info("daily preparation finished", "prepared", prepared, "failed", failed, "took", time.Since(start))
}

func (s *Scheduler) reminderJob() {
	sent, err := s.SendReminders(s.ctx)
	if err != nil {
		s.logger.Error("sending reminders failed", "error", err)
		return
	}
	if sent > 0 {
		s.logger.Info("reminders sent", "count", sent)
	}
}

// PrepareAll creates today's set for every learner, a bounded number at a time.
// A failure for one learner is logged and does not stop the others.
func (s *Scheduler) PrepareAll(ctx context.Context) (prepared, failed int, err error) {
	learners, err := s.learners.ListAll(ctx)
	if err != nil {
		return 0, 0, errors.Wrap(err, "list learners")
	}

	today := s.now().In(s.opts.Location)
	var ok, bad atomic.Int64

	var g errgroup.Group
	g.SetLimit(s.opts.WorkerLimit)
	for _, learner := range learners {
		if ctx.Err() != nil {
			break
		}
		learner := learner
		g.Go(func() error {
			if _, err := s.service.GetOrCreateTodaysSet(ctx, learner.Owner(), today); err != nil {
				s.logger.Warn("failed to prepare daily challenge", "learner", learner.ID, "error", err)
				bad.Add(1)
				return nil
			}
			ok.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return int(ok.Load()), int(bad.Load()), err
	}
	return int(ok.Load()), int(bad.Load()), nil
}

// SendReminders nudges learners whose reminder hour is now and whose set is not
// completed yet. Outside the notification window it does nothing.
func (s *Scheduler) SendReminders(ctx context.Context) (int, error) {
	now := s.now().In(s.opts.Location)
	hour := now.Hour()

	if hour < s.opts.NotificationStartHour || hour > s.opts.NotificationEndHour {
		s.logger.Debug("outside notification hours, skipping reminders",
			"hour", hour, "start", s.opts.NotificationStartHour, "end", s.opts.NotificationEndHour)
		return 0, nil
	}

	learners, err := s.learners.ListForNotification(ctx, hour)
	if err != nil {
		return 0, errors.Wrap(err, "list learners for notification")
	}

	limiter := rate.NewLimiter(rate.Limit(s.opts.RemindersPerSecond), 1)
	sent := 0
	for _, learner := range learners {
		if err := limiter.Wait(ctx); err != nil {
			return sent, err
		}

		set, err := s.pendingSet(ctx, learner, now)
		if err != nil {
			s.logger.Warn("failed to load daily challenge for reminder", "learner", learner.ID, "error", err)
			continue
		}
		if set == nil {
			continue
		}

		if err := s.notifier.SendReminder(ctx, learner, set); err != nil {
			s.logger.Warn("failed to send reminder", "learner", learner.ID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

// pendingSet returns today's set when it still has pending items, creating it
// for learners the morning job missed. It returns nil for a completed set.
func (s *Scheduler) pendingSet(ctx context.Context, learner models.Learner, now time.Time) (*models.PracticeSet, error) {
	state, set, err := s.service.Status(ctx, learner.Owner(), now)
	if err != nil {
		return nil, err
	}
	switch state {
	case models.StateCompleted:
		return nil, nil
	case models.StateAbsent:
		return s.service.GetOrCreateTodaysSet(ctx, learner.Owner(), now)
	}
	return set, nil
}

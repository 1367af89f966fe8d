package database

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabdaily/pkg/models"
)

func TestLearnerRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewLearnerRepository(openTestDB(t))

	require.NoError(t, repo.Register(ctx, &models.Learner{
		ID: 100, Username: "anna", FirstName: "Anna", NotificationEnabled: true, NotificationHour: 9,
	}))
	require.NoError(t, repo.Register(ctx, &models.Learner{
		ID: 200, Username: "bo", NotificationEnabled: true, NotificationHour: 18,
	}))

	require.NoError(t, repo.SetNotification(ctx, 100, true, 18))

	// re-registering refreshes the profile but keeps reminder settings
	require.NoError(t, repo.Register(ctx, &models.Learner{
		ID: 100, Username: "anna_k", FirstName: "Anna", NotificationEnabled: false, NotificationHour: 9,
	}))

	learner, err := repo.GetByID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "anna_k", learner.Username)
	assert.True(t, learner.NotificationEnabled)
	assert.Equal(t, 18, learner.NotificationHour)
	assert.Equal(t, "100", learner.Owner())

	due, err := repo.ListForNotification(ctx, 18)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, int64(100), due[0].ID)

	require.NoError(t, repo.SetNotification(ctx, 200, false, 18))
	due, err = repo.ListForNotification(ctx, 18)
	require.NoError(t, err)
	assert.Len(t, due, 1)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = repo.GetByID(ctx, 300)
	assert.True(t, errors.Is(err, models.ErrNotFound))
	assert.True(t, errors.Is(repo.SetNotification(ctx, 300, true, 9), models.ErrNotFound))
	assert.Error(t, repo.SetNotification(ctx, 100, true, 24))
}

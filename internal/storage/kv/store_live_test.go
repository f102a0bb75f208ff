package kv

import (
	"testing"

	"github.com/2beens/fittracker/internal/profile"
	"github.com/2beens/fittracker/internal/progress"
	pkgtesting "github.com/2beens/fittracker/pkg/testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LiveRedis(t *testing.T) {
	ctx, rdb := pkgtesting.GetRedisClientAndCtx(t)
	store := NewStore(rdb)

	userID := "live-test-" + uuid.NewString()
	t.Cleanup(func() {
		rdb.Del(ctx, userDataKey(userID), workoutDataKey(userID))
	})

	_, err := store.GetProfile(ctx, userID)
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
	assert.ErrorIs(t, store.UpdateProfile(ctx, userID, testProfile), profile.ErrProfileNotFound)

	require.NoError(t, store.CreateProfile(ctx, userID, testProfile))
	assert.ErrorIs(t, store.CreateProfile(ctx, userID, testProfile), profile.ErrProfileExists)

	upgraded := testProfile.WithLevel("intermediate")
	require.NoError(t, store.UpdateProfile(ctx, userID, upgraded))
	got, err := store.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, upgraded, *got)

	_, err = store.GetRecord(ctx, userID)
	assert.ErrorIs(t, err, progress.ErrRecordNotFound)

	record := progress.Record{
		TotalWorkouts:   2,
		DaysActive:      2,
		CurrentStreak:   2,
		LastWorkoutDate: "2024-03-01",
		WorkoutDates:    []string{"2024-02-29", "2024-03-01"},
		LevelStartDate:  "2024-02-29",
	}
	require.NoError(t, store.SaveRecord(ctx, userID, record))
	gotRecord, err := store.GetRecord(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, record, *gotRecord)

	require.NoError(t, rdb.Set(ctx, workoutDataKey(userID), "{broken", 0).Err())
	_, err = store.GetRecord(ctx, userID)
	assert.ErrorIs(t, err, progress.ErrMalformedRecord)
}

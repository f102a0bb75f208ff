package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2beens/fittracker/internal/dashboard"
	"github.com/2beens/fittracker/internal/profile"
	"github.com/2beens/fittracker/internal/progress"
	"github.com/2beens/fittracker/internal/telemetry/metrics"
	"github.com/2beens/fittracker/internal/workout/plan"
	"github.com/2beens/fittracker/internal/workout/session"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testProfile(level string) *profile.Profile {
	return &profile.Profile{
		Name:         "Lena",
		Age:          "35",
		Weight:       "64",
		Height:       "171",
		Gender:       "female",
		FitnessLevel: level,
	}
}

func newTestManager(t *testing.T, profiles *MockprofilesRepo, recorder *MockworkoutRecorder) (*dashboard.Manager, *metrics.Manager) {
	t.Helper()
	metricsManager := metrics.NewTestManager()
	// manual rest timers: rests only end on skip
	m := dashboard.NewManager(profiles, recorder, 0, time.Hour, metricsManager)
	t.Cleanup(m.Close)
	return m, metricsManager
}

// runWorkout completes every set of a started workout, skipping the rests.
func runWorkout(t *testing.T, d *dashboard.Dashboard, totalSets int) dashboard.Snapshot {
	t.Helper()
	var snap dashboard.Snapshot
	var err error
	for i := 0; i < totalSets; i++ {
		snap, err = d.CompleteSet(context.Background())
		require.NoError(t, err)
		if i < totalSets-1 {
			require.Equal(t, session.PhaseResting, snap.Workout.Phase)
			snap, err = d.SkipRest()
			require.NoError(t, err)
			require.Equal(t, session.PhaseActive, snap.Workout.Phase)
		}
	}
	return snap
}

func TestDashboard_FullBasicWorkoutRecordsOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	profiles := NewMockprofilesRepo(ctrl)
	recorder := NewMockworkoutRecorder(ctrl)
	m, metricsManager := newTestManager(t, profiles, recorder)

	profiles.EXPECT().GetProfile(gomock.Any(), "u1").Return(testProfile("basic"), nil)
	outcome := &progress.Outcome{
		Record:         progress.Record{TotalWorkouts: 1, DaysActive: 1, CurrentStreak: 1},
		Profile:        *testProfile("basic"),
		CertificateDue: true,
	}
	recorder.EXPECT().RecordWorkout(gomock.Any(), "u1").Return(outcome, nil).Times(1)

	d := m.Get("u1")
	snap, err := d.Start(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap.Workout)
	assert.Equal(t, plan.LevelBasic, snap.Workout.Level)
	assert.Equal(t, 3, snap.Workout.ExerciseCount)

	snap = runWorkout(t, d, 9)
	assert.Equal(t, session.PhaseComplete, snap.Workout.Phase)
	assert.Equal(t, float64(100), snap.Workout.Progress)
	assert.True(t, snap.Notices.Certificate)
	assert.False(t, snap.Notices.LevelUpgraded)
	assert.Equal(t, outcome, snap.Outcome)
	assert.Equal(t, float64(9), testutil.ToFloat64(metricsManager.CounterSetsCompleted))

	// nothing left to complete, no second recording
	_, err = d.CompleteSet(context.Background())
	assert.ErrorIs(t, err, session.ErrNotActive)
	snap, err = d.Snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Notices.Certificate)
}

func TestDashboard_NoticesUntilAcknowledged(t *testing.T) {
	ctrl := gomock.NewController(t)
	profiles := NewMockprofilesRepo(ctrl)
	recorder := NewMockworkoutRecorder(ctrl)
	m, _ := newTestManager(t, profiles, recorder)

	profiles.EXPECT().GetProfile(gomock.Any(), "u1").Return(testProfile("intermediate"), nil)
	recorder.EXPECT().RecordWorkout(gomock.Any(), "u1").Return(&progress.Outcome{
		Profile:        *testProfile("advanced"),
		CertificateDue: true,
		LevelUpgraded:  true,
		PreviousLevel:  plan.LevelIntermediate,
	}, nil)

	d := m.Get("u1")
	_, err := d.Start(context.Background())
	require.NoError(t, err)
	snap := runWorkout(t, d, 12)

	assert.Equal(t, dashboard.Notices{
		Certificate:   true,
		LevelUpgraded: true,
		PreviousLevel: plan.LevelIntermediate,
		NewLevel:      plan.LevelAdvanced,
	}, snap.Notices)

	notices := d.AcknowledgeCertificate()
	assert.False(t, notices.Certificate)
	assert.True(t, notices.LevelUpgraded)

	notices = d.AcknowledgeLevelUpgrade()
	assert.Equal(t, dashboard.Notices{}, notices)
	assert.Equal(t, dashboard.Notices{}, d.Notices())
}

func TestDashboard_RecordFailureRetriedOnRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	profiles := NewMockprofilesRepo(ctrl)
	recorder := NewMockworkoutRecorder(ctrl)
	m, _ := newTestManager(t, profiles, recorder)

	profiles.EXPECT().GetProfile(gomock.Any(), "u1").Return(testProfile("basic"), nil)
	gomock.InOrder(
		recorder.EXPECT().RecordWorkout(gomock.Any(), "u1").Return(nil, errors.New("store down")),
		recorder.EXPECT().RecordWorkout(gomock.Any(), "u1").Return(&progress.Outcome{CertificateDue: true}, nil),
	)

	d := m.Get("u1")
	_, err := d.Start(context.Background())
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		_, err = d.CompleteSet(context.Background())
		require.NoError(t, err)
		_, err = d.SkipRest()
		require.NoError(t, err)
	}
	snap, err := d.CompleteSet(context.Background())
	require.Error(t, err)
	assert.Equal(t, session.PhaseComplete, snap.Workout.Phase)
	assert.False(t, snap.Notices.Certificate)

	snap, err = d.Snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Notices.Certificate)

	// recorded, no further attempts
	_, err = d.Snapshot(context.Background())
	require.NoError(t, err)
}

func TestDashboard_RestControls(t *testing.T) {
	ctrl := gomock.NewController(t)
	profiles := NewMockprofilesRepo(ctrl)
	m, _ := newTestManager(t, profiles, NewMockworkoutRecorder(ctrl))

	profiles.EXPECT().GetProfile(gomock.Any(), "u1").Return(testProfile("basic"), nil)

	d := m.Get("u1")
	_, err := d.SkipRest()
	assert.ErrorIs(t, err, dashboard.ErrNoWorkout)

	_, err = d.Start(context.Background())
	require.NoError(t, err)

	_, err = d.PauseRest()
	assert.ErrorIs(t, err, session.ErrNotResting)

	snap, err := d.CompleteSet(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap.Workout.Rest)
	assert.Equal(t, 60, snap.Workout.Rest.Remaining)

	snap, err = d.PauseRest()
	require.NoError(t, err)
	assert.True(t, snap.Workout.Rest.Paused)

	snap, err = d.ResumeRest()
	require.NoError(t, err)
	assert.False(t, snap.Workout.Rest.Paused)

	_, err = d.Restart()
	assert.ErrorIs(t, err, session.ErrNotComplete)

	snap, err = d.SkipRest()
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Workout.CurrentSet)
}

func TestDashboard_StartReplacesWorkout(t *testing.T) {
	ctrl := gomock.NewController(t)
	profiles := NewMockprofilesRepo(ctrl)
	m, _ := newTestManager(t, profiles, NewMockworkoutRecorder(ctrl))

	gomock.InOrder(
		profiles.EXPECT().GetProfile(gomock.Any(), "u1").Return(testProfile("basic"), nil),
		profiles.EXPECT().GetProfile(gomock.Any(), "u1").Return(testProfile("advanced"), nil),
	)

	d := m.Get("u1")
	_, err := d.Start(context.Background())
	require.NoError(t, err)
	_, err = d.CompleteSet(context.Background())
	require.NoError(t, err)

	snap, err := d.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, plan.LevelAdvanced, snap.Workout.Level)
	assert.Equal(t, session.PhaseActive, snap.Workout.Phase)
	assert.Equal(t, 1, snap.Workout.CurrentSet)
	assert.Zero(t, snap.Workout.Progress)
}

func TestDashboard_StartUnknownProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	profiles := NewMockprofilesRepo(ctrl)
	m, _ := newTestManager(t, profiles, NewMockworkoutRecorder(ctrl))

	profiles.EXPECT().GetProfile(gomock.Any(), "ghost").Return(nil, profile.ErrProfileNotFound)

	_, err := m.Get("ghost").Start(context.Background())
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
}

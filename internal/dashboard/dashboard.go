package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fittracker/internal/profile"
	"github.com/2beens/fittracker/internal/progress"
	"github.com/2beens/fittracker/internal/telemetry/metrics"
	"github.com/2beens/fittracker/internal/telemetry/tracing"
	"github.com/2beens/fittracker/internal/workout/plan"
	"github.com/2beens/fittracker/internal/workout/session"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var ErrNoWorkout = errors.New("no workout started")

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=dashboard_test

type profilesRepo interface {
	GetProfile(ctx context.Context, userID string) (*profile.Profile, error)
}

type workoutRecorder interface {
	RecordWorkout(ctx context.Context, userID string) (*progress.Outcome, error)
}

// Notices are the one-shot signals of the last recorded workout. They stay
// up until acknowledged.
type Notices struct {
	Certificate   bool              `json:"certificate"`
	LevelUpgraded bool              `json:"levelUpgraded"`
	PreviousLevel plan.FitnessLevel `json:"previousLevel,omitempty"`
	NewLevel      plan.FitnessLevel `json:"newLevel,omitempty"`
}

type Snapshot struct {
	Workout *session.State    `json:"workout,omitempty"`
	Notices Notices           `json:"notices"`
	Outcome *progress.Outcome `json:"outcome,omitempty"`
}

// Dashboard is the workout screen of one user: the running session plus
// what the last finished workout produced.
type Dashboard struct {
	mu sync.Mutex

	userID       string
	profiles     profilesRepo
	recorder     workoutRecorder
	tickInterval time.Duration
	metrics      *metrics.Manager
	nowFunc      func() time.Time

	session *session.Session
	// completed workout not stored yet
	recordPending bool
	notices       Notices
	lastOutcome   *progress.Outcome
	lastUsed      time.Time
}

func newDashboard(
	userID string,
	profiles profilesRepo,
	recorder workoutRecorder,
	tickInterval time.Duration,
	metricsManager *metrics.Manager,
	nowFunc func() time.Time,
) *Dashboard {
	return &Dashboard{
		userID:       userID,
		profiles:     profiles,
		recorder:     recorder,
		tickInterval: tickInterval,
		metrics:      metricsManager,
		nowFunc:      nowFunc,
		lastUsed:     nowFunc(),
	}
}

func (d *Dashboard) UserID() string {
	return d.userID
}

// Start begins a new workout at the user's current level, dropping any
// running one.
func (d *Dashboard) Start(ctx context.Context) (_ Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dashboard.start")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	p, err := d.profiles.GetProfile(ctx, d.userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("get profile: %w", err)
	}
	level := p.Level()
	span.SetAttributes(attribute.String("level", level.String()))

	s, err := session.NewForLevel(level, d.tickInterval)
	if err != nil {
		return Snapshot{}, fmt.Errorf("new session: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.touchLocked()

	if d.session != nil {
		d.session.Close()
	}
	d.session = s
	d.recordPending = false
	d.lastOutcome = nil

	log.Debugf("workout started for %s at level %s", d.userID, level)
	return d.snapshotLocked(), nil
}

// CompleteSet finishes the current set. Finishing the last set records the
// workout once.
func (d *Dashboard) CompleteSet(ctx context.Context) (_ Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dashboard.completeSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.touchLocked()

	if d.session == nil {
		return Snapshot{}, ErrNoWorkout
	}

	state, err := d.session.CompleteSet()
	if err != nil {
		return Snapshot{}, err
	}
	if d.metrics != nil {
		d.metrics.CounterSetsCompleted.Inc()
	}

	if state.Phase == session.PhaseComplete {
		d.recordPending = true
		if err := d.recordLocked(ctx); err != nil {
			return d.snapshotLocked(), err
		}
	}

	return d.snapshotLocked(), nil
}

func (d *Dashboard) SkipRest() (Snapshot, error) {
	return d.act(func(s *session.Session) (session.State, error) { return s.SkipRest() })
}

func (d *Dashboard) PauseRest() (Snapshot, error) {
	return d.act(func(s *session.Session) (session.State, error) { return s.PauseRest() })
}

func (d *Dashboard) ResumeRest() (Snapshot, error) {
	return d.act(func(s *session.Session) (session.State, error) { return s.ResumeRest() })
}

// Restart begins the same plan again after a finished workout.
func (d *Dashboard) Restart() (Snapshot, error) {
	return d.act(func(s *session.Session) (session.State, error) {
		state, err := s.Restart()
		if err == nil {
			d.recordPending = false
			d.lastOutcome = nil
		}
		return state, err
	})
}

// Snapshot reads the dashboard. A workout whose recording failed earlier is
// retried here.
func (d *Dashboard) Snapshot(ctx context.Context) (Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.touchLocked()

	if d.recordPending {
		if err := d.recordLocked(ctx); err != nil {
			return d.snapshotLocked(), err
		}
	}
	return d.snapshotLocked(), nil
}

func (d *Dashboard) flushPendingRecord(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.recordPending {
		return nil
	}
	return d.recordLocked(ctx)
}

func (d *Dashboard) Notices() Notices {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.notices
}

// AcknowledgeCertificate clears the certificate notice.
func (d *Dashboard) AcknowledgeCertificate() Notices {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.touchLocked()
	d.notices.Certificate = false
	return d.notices
}

// AcknowledgeLevelUpgrade clears the level-up notice.
func (d *Dashboard) AcknowledgeLevelUpgrade() Notices {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.touchLocked()
	d.notices.LevelUpgraded = false
	d.notices.PreviousLevel = ""
	d.notices.NewLevel = ""
	return d.notices
}

// Close stops the running session, if any.
func (d *Dashboard) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session != nil {
		d.session.Close()
		d.session = nil
	}
}

func (d *Dashboard) idleState(now time.Time) (time.Duration, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return now.Sub(d.lastUsed), d.recordPending
}

func (d *Dashboard) act(action func(s *session.Session) (session.State, error)) (Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.touchLocked()

	if d.session == nil {
		return Snapshot{}, ErrNoWorkout
	}
	if _, err := action(d.session); err != nil {
		return Snapshot{}, err
	}
	return d.snapshotLocked(), nil
}

func (d *Dashboard) recordLocked(ctx context.Context) error {
	outcome, err := d.recorder.RecordWorkout(ctx, d.userID)
	if err != nil {
		log.Errorf("record workout of %s: %s", d.userID, err)
		return fmt.Errorf("record workout: %w", err)
	}

	d.recordPending = false
	d.lastOutcome = outcome
	if outcome.CertificateDue {
		d.notices.Certificate = true
	}
	if outcome.LevelUpgraded {
		d.notices.LevelUpgraded = true
		d.notices.PreviousLevel = outcome.PreviousLevel
		d.notices.NewLevel = outcome.Profile.Level()
	}
	return nil
}

func (d *Dashboard) touchLocked() {
	d.lastUsed = d.nowFunc()
}

func (d *Dashboard) snapshotLocked() Snapshot {
	snap := Snapshot{
		Notices: d.notices,
		Outcome: d.lastOutcome,
	}
	if d.session != nil {
		state := d.session.State()
		snap.Workout = &state
	}
	return snap
}

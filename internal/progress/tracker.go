package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fittracker/internal/profile"
	"github.com/2beens/fittracker/internal/telemetry/metrics"
	"github.com/2beens/fittracker/internal/telemetry/tracing"
	"github.com/2beens/fittracker/internal/workout/plan"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// LevelDwellDays is how long a user stays at a level before moving up.
const LevelDwellDays = 30

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=progress_test

type profilesRepo interface {
	GetProfile(ctx context.Context, userID string) (*profile.Profile, error)
	UpdateProfile(ctx context.Context, userID string, p profile.Profile) error
}

type recordsRepo interface {
	GetRecord(ctx context.Context, userID string) (*Record, error)
	SaveRecord(ctx context.Context, userID string, record Record) error
}

// Outcome is what a recorded workout produced. CertificateDue and
// LevelUpgraded are one-shot signals for the view.
type Outcome struct {
	Record         Record            `json:"record"`
	Profile        profile.Profile   `json:"profile"`
	Duplicate      bool              `json:"duplicate"`
	CertificateDue bool              `json:"certificateDue"`
	LevelUpgraded  bool              `json:"levelUpgraded"`
	PreviousLevel  plan.FitnessLevel `json:"previousLevel,omitempty"`
}

type Tracker struct {
	profiles profilesRepo
	records  recordsRepo
	calendar Calendar
	metrics  *metrics.Manager
	// injectable for tests
	NowFunc func() time.Time
}

func NewTracker(
	profiles profilesRepo,
	records recordsRepo,
	loc *time.Location,
	metricsManager *metrics.Manager,
) *Tracker {
	return &Tracker{
		profiles: profiles,
		records:  records,
		calendar: NewCalendar(loc),
		metrics:  metricsManager,
		NowFunc:  time.Now,
	}
}

func (t *Tracker) Today() string {
	return t.calendar.Day(t.NowFunc())
}

// Now is the current time in the time zone workout days are counted in.
func (t *Tracker) Now() time.Time {
	return t.NowFunc().In(t.calendar.Location())
}

// Progress loads the record of a user. A missing or unreadable record is a
// first-time user.
func (t *Tracker) Progress(ctx context.Context, userID string) (_ *Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.progress.load")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	record, err := t.records.GetRecord(ctx, userID)
	switch {
	case err == nil:
		loaded := record.Clone()
		if loaded.LevelStartDate == "" {
			loaded.LevelStartDate = t.Today()
		}
		return &loaded, nil
	case errors.Is(err, ErrRecordNotFound):
		fresh := NewRecord(t.Today())
		return &fresh, nil
	case errors.Is(err, ErrMalformedRecord):
		log.Warnf("progress record of %s malformed, starting over: %s", userID, err)
		fresh := NewRecord(t.Today())
		return &fresh, nil
	default:
		return nil, fmt.Errorf("get record: %w", err)
	}
}

// RecordWorkout registers one finished workout for today. A second call on
// the same calendar day changes nothing but still asks for the certificate.
func (t *Tracker) RecordWorkout(ctx context.Context, userID string) (_ *Outcome, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.progress.recordWorkout")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	p, err := t.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	record, err := t.Progress(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := t.NowFunc()
	today := t.calendar.Day(now)
	yesterday := t.calendar.PreviousDay(now)

	if record.LastWorkoutDate == today {
		span.SetAttributes(attribute.Bool("duplicate", true))
		return &Outcome{
			Record:         *record,
			Profile:        *p,
			Duplicate:      true,
			CertificateDue: true,
		}, nil
	}

	updated := record.withWorkoutOn(today, yesterday)
	newProfile, updated, upgraded := t.CheckLevelProgression(ctx, userID, *p, updated)

	if err := t.records.SaveRecord(ctx, userID, updated); err != nil {
		if upgraded {
			// the stored record still has the old level start, so a retry
			// must see the old level too
			t.rollbackLevel(ctx, userID, *p)
		}
		return nil, fmt.Errorf("save record: %w", err)
	}

	if t.metrics != nil {
		t.metrics.CounterWorkoutsRecorded.WithLabelValues(p.Level().String()).Inc()
	}
	log.Debugf("workout recorded for %s: total %d, streak %d", userID, updated.TotalWorkouts, updated.CurrentStreak)

	outcome := &Outcome{
		Record:         updated,
		Profile:        newProfile,
		CertificateDue: true,
		LevelUpgraded:  upgraded,
	}
	if upgraded {
		outcome.PreviousLevel = p.Level()
	}
	return outcome, nil
}

// CheckLevelProgression moves basic and intermediate users up one level once
// they spent LevelDwellDays at it, and restarts the dwell clock. The new
// profile is written right away; if that write fails the upgrade is dropped
// and both values come back unchanged. Persisting the record is left to the
// caller.
func (t *Tracker) CheckLevelProgression(
	ctx context.Context,
	userID string,
	p profile.Profile,
	record Record,
) (profile.Profile, Record, bool) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.progress.checkLevelProgression")
	defer span.End()

	today := t.Today()
	daysSinceStart, err := DaysBetween(record.LevelStartDate, today)
	if err != nil {
		log.Warnf("level start date of %s unreadable, restarting it: %s", userID, err)
		record.LevelStartDate = today
		return p, record, false
	}
	span.SetAttributes(attribute.Int("days-since-start", daysSinceStart))

	level, known := plan.ParseLevel(p.FitnessLevel)
	if !known || daysSinceStart < LevelDwellDays {
		return p, record, false
	}
	nextLevel, ok := level.Next()
	if !ok {
		return p, record, false
	}

	upgradedProfile := p.WithLevel(nextLevel)
	if err := t.profiles.UpdateProfile(ctx, userID, upgradedProfile); err != nil {
		log.Errorf("level upgrade of %s to %s, update profile: %s", userID, nextLevel, err)
		if t.metrics != nil {
			t.metrics.CounterProfileUpdateFailures.Inc()
		}
		return p, record, false
	}

	if t.metrics != nil {
		t.metrics.CounterLevelUpgrades.WithLabelValues(nextLevel.String()).Inc()
	}
	log.Infof("user %s upgraded %s -> %s after %d days", userID, level, nextLevel, daysSinceStart)

	record.LevelStartDate = today
	return upgradedProfile, record, true
}

func (t *Tracker) rollbackLevel(ctx context.Context, userID string, p profile.Profile) {
	if err := t.profiles.UpdateProfile(ctx, userID, p); err != nil {
		log.Errorf("roll back level of %s to %s: %s", userID, p.FitnessLevel, err)
		if t.metrics != nil {
			t.metrics.CounterProfileUpdateFailures.Inc()
		}
		return
	}
	log.Warnf("level upgrade of %s rolled back to %s, record not saved", userID, p.FitnessLevel)
}

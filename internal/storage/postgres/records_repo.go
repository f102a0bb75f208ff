package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fittracker/internal/profile"
	"github.com/2beens/fittracker/internal/progress"
	"github.com/2beens/fittracker/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type RecordsRepo struct {
	db *pgxpool.Pool
}

func NewRecordsRepo(db *pgxpool.Pool) *RecordsRepo {
	return &RecordsRepo{
		db: db,
	}
}

func (r *RecordsRepo) GetRecord(ctx context.Context, userID string) (_ *progress.Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.record.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	var (
		record          progress.Record
		lastWorkoutDate *time.Time
		workoutDates    []time.Time
		levelStartDate  time.Time
	)
	err = r.db.QueryRow(
		ctx,
		`SELECT total_workouts, days_active, current_streak, last_workout_date, workout_dates, level_start_date
			FROM progress_record WHERE user_id = $1;`,
		userID,
	).Scan(
		&record.TotalWorkouts,
		&record.DaysActive,
		&record.CurrentStreak,
		&lastWorkoutDate,
		&workoutDates,
		&levelStartDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, progress.ErrRecordNotFound
		}
		return nil, fmt.Errorf("select record: %w", err)
	}

	if lastWorkoutDate != nil {
		record.LastWorkoutDate = lastWorkoutDate.Format(progress.DateLayout)
	}
	record.WorkoutDates = make([]string, 0, len(workoutDates))
	for _, d := range workoutDates {
		record.WorkoutDates = append(record.WorkoutDates, d.Format(progress.DateLayout))
	}
	record.LevelStartDate = levelStartDate.Format(progress.DateLayout)

	return &record, nil
}

// SaveRecord inserts or replaces the whole record of a user.
func (r *RecordsRepo) SaveRecord(ctx context.Context, userID string, record progress.Record) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.record.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.Int("total-workouts", record.TotalWorkouts),
	)

	var lastWorkoutDate *time.Time
	if record.LastWorkoutDate != "" {
		d, err := time.Parse(progress.DateLayout, record.LastWorkoutDate)
		if err != nil {
			return fmt.Errorf("last workout date: %w", err)
		}
		lastWorkoutDate = &d
	}
	workoutDates := make([]time.Time, 0, len(record.WorkoutDates))
	for _, day := range record.WorkoutDates {
		d, err := time.Parse(progress.DateLayout, day)
		if err != nil {
			return fmt.Errorf("workout date: %w", err)
		}
		workoutDates = append(workoutDates, d)
	}
	levelStartDate, err := time.Parse(progress.DateLayout, record.LevelStartDate)
	if err != nil {
		return fmt.Errorf("level start date: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO progress_record
				(user_id, total_workouts, days_active, current_streak, last_workout_date, workout_dates, level_start_date)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (user_id) DO UPDATE SET
				total_workouts = EXCLUDED.total_workouts,
				days_active = EXCLUDED.days_active,
				current_streak = EXCLUDED.current_streak,
				last_workout_date = EXCLUDED.last_workout_date,
				workout_dates = EXCLUDED.workout_dates,
				level_start_date = EXCLUDED.level_start_date;`,
		userID,
		record.TotalWorkouts,
		record.DaysActive,
		record.CurrentStreak,
		lastWorkoutDate,
		workoutDates,
		levelStartDate,
	)
	if err != nil {
		if isMissingProfile(err) {
			return profile.ErrProfileNotFound
		}
		return fmt.Errorf("upsert record: %w", err)
	}

	return nil
}

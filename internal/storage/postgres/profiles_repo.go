package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fittracker/internal/profile"
	"github.com/2beens/fittracker/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type ProfilesRepo struct {
	db *pgxpool.Pool
}

func NewProfilesRepo(db *pgxpool.Pool) *ProfilesRepo {
	return &ProfilesRepo{
		db: db,
	}
}

func (r *ProfilesRepo) CreateProfile(ctx context.Context, userID string, p profile.Profile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO profile
				(user_id, name, age, weight, height, gender, fitness_level)
				VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		userID, p.Name, p.Age, p.Weight, p.Height, p.Gender, p.FitnessLevel,
	)
	if err != nil {
		if isDuplicateProfile(err) {
			return profile.ErrProfileExists
		}
		return fmt.Errorf("insert profile: %w", err)
	}

	return nil
}

func (r *ProfilesRepo) GetProfile(ctx context.Context, userID string) (_ *profile.Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	var p profile.Profile
	err = r.db.QueryRow(
		ctx,
		`SELECT name, age, weight, height, gender, fitness_level FROM profile WHERE user_id = $1;`,
		userID,
	).Scan(&p.Name, &p.Age, &p.Weight, &p.Height, &p.Gender, &p.FitnessLevel)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, fmt.Errorf("select profile: %w", err)
	}

	return &p, nil
}

func (r *ProfilesRepo) UpdateProfile(ctx context.Context, userID string, p profile.Profile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE profile
			SET name = $1, age = $2, weight = $3, height = $4, gender = $5, fitness_level = $6, updated_at = NOW()
			WHERE user_id = $7;`,
		p.Name, p.Age, p.Weight, p.Height, p.Gender, p.FitnessLevel, userID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return profile.ErrProfileNotFound
	}

	return nil
}

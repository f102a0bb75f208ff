package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/fittracker/internal/profile"
	"github.com/2beens/fittracker/internal/progress"
	"github.com/2beens/fittracker/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
)

// Keys follow the layout of the web client's local storage.
const (
	userDataKeyPrefix    = "fitnessAppUserData||"
	workoutDataKeyPrefix = "fitnessAppWorkoutData||"
)

// Store keeps profiles and progress records as JSON blobs in redis.
type Store struct {
	redisClient *redis.Client
}

func NewStore(redisClient *redis.Client) *Store {
	return &Store{
		redisClient: redisClient,
	}
}

func userDataKey(userID string) string {
	return userDataKeyPrefix + userID
}

func workoutDataKey(userID string) string {
	return workoutDataKeyPrefix + userID
}

func (s *Store) CreateProfile(ctx context.Context, userID string, p profile.Profile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kv.profile.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	created, err := s.redisClient.SetNX(ctx, userDataKey(userID), string(data), 0).Result()
	if err != nil {
		return fmt.Errorf("set profile: %w", err)
	}
	if !created {
		return profile.ErrProfileExists
	}

	return nil
}

// GetProfile returns ErrProfileNotFound for a missing key and for a blob that
// is not a profile.
func (s *Store) GetProfile(ctx context.Context, userID string) (_ *profile.Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kv.profile.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	data, err := s.redisClient.Get(ctx, userDataKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	var p profile.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		// unreadable state counts as no state
		return nil, fmt.Errorf("%w: unmarshal profile: %s", profile.ErrProfileNotFound, err)
	}

	return &p, nil
}

func (s *Store) UpdateProfile(ctx context.Context, userID string, p profile.Profile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kv.profile.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	updated, err := s.redisClient.SetXX(ctx, userDataKey(userID), string(data), 0).Result()
	if err != nil {
		return fmt.Errorf("set profile: %w", err)
	}
	if !updated {
		return profile.ErrProfileNotFound
	}

	return nil
}

// GetRecord returns ErrMalformedRecord for a blob that is not a record.
func (s *Store) GetRecord(ctx context.Context, userID string) (_ *progress.Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kv.record.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	data, err := s.redisClient.Get(ctx, workoutDataKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, progress.ErrRecordNotFound
		}
		return nil, fmt.Errorf("get record: %w", err)
	}

	var record progress.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %s", progress.ErrMalformedRecord, err)
	}
	if record.WorkoutDates == nil {
		record.WorkoutDates = []string{}
	}

	return &record, nil
}

func (s *Store) SaveRecord(ctx context.Context, userID string, record progress.Record) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kv.record.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	if err := s.redisClient.Set(ctx, workoutDataKey(userID), string(data), 0).Err(); err != nil {
		return fmt.Errorf("set record: %w", err)
	}

	return nil
}

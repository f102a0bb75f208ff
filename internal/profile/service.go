package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fittracker/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=profile_test

type profilesRepo interface {
	CreateProfile(ctx context.Context, userID string, p Profile) error
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, userID string, p Profile) error
}

type Service struct {
	repo profilesRepo
	// injectable for tests
	NewUserID func() string
}

func NewService(repo profilesRepo) *Service {
	return &Service{
		repo:      repo,
		NewUserID: uuid.NewString,
	}
}

// Onboard stores a new profile under a freshly generated user id.
func (s *Service) Onboard(ctx context.Context, p Profile) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profile.onboard")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := p.Validate(); err != nil {
		return "", err
	}
	p = p.WithLevel(p.Level())

	userID := s.NewUserID()
	if err := s.repo.CreateProfile(ctx, userID, p); err != nil {
		return "", fmt.Errorf("create profile: %w", err)
	}

	log.Debugf("new profile onboarded: %s [%s]", userID, p.FitnessLevel)
	return userID, nil
}

func (s *Service) Get(ctx context.Context, userID string) (*Profile, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profile.get")
	defer span.End()

	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Update replaces the profile. A failing store write is logged and the
// previous profile is returned with updated=false; the caller keeps working
// with the old values.
func (s *Service) Update(ctx context.Context, userID string, p Profile) (_ *Profile, updated bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profile.update")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := p.Validate(); err != nil {
		return nil, false, err
	}
	p = p.WithLevel(p.Level())

	previous, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("get profile: %w", err)
	}

	if err := s.repo.UpdateProfile(ctx, userID, p); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, false, err
		}
		log.Errorf("update profile %s: %s", userID, err)
		return previous, false, nil
	}

	return &p, true, nil
}

package profile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/2beens/fittracker/internal/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestService_Onboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockprofilesRepo(ctrl)
	service := profile.NewService(repoMock)
	service.NewUserID = func() string { return "user-42" }

	p := fakeProfile(" Intermediate ")
	expected := p
	expected.FitnessLevel = "intermediate"
	repoMock.EXPECT().CreateProfile(gomock.Any(), "user-42", expected).Return(nil).Times(1)

	userID, err := service.Onboard(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestService_Onboard_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockprofilesRepo(ctrl)
	service := profile.NewService(repoMock)

	p := fakeProfile("basic")
	p.Weight = ""

	userID, err := service.Onboard(context.Background(), p)
	assert.ErrorIs(t, err, profile.ErrInvalidProfile)
	assert.Empty(t, userID)
}

func TestService_Onboard_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockprofilesRepo(ctrl)
	service := profile.NewService(repoMock)

	repoMock.EXPECT().CreateProfile(gomock.Any(), gomock.Any(), gomock.Any()).Return(profile.ErrProfileExists)

	_, err := service.Onboard(context.Background(), fakeProfile("basic"))
	assert.ErrorIs(t, err, profile.ErrProfileExists)
}

func TestService_Update(t *testing.T) {
	previous := fakeProfile("basic")
	next := previous
	next.Weight = "81"

	t.Run("stored", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repoMock := NewMockprofilesRepo(ctrl)
		service := profile.NewService(repoMock)

		repoMock.EXPECT().GetProfile(gomock.Any(), "u1").Return(&previous, nil)
		repoMock.EXPECT().UpdateProfile(gomock.Any(), "u1", next).Return(nil)

		p, updated, err := service.Update(context.Background(), "u1", next)
		require.NoError(t, err)
		assert.True(t, updated)
		assert.Equal(t, next, *p)
	})

	t.Run("store failure keeps previous", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repoMock := NewMockprofilesRepo(ctrl)
		service := profile.NewService(repoMock)

		repoMock.EXPECT().GetProfile(gomock.Any(), "u1").Return(&previous, nil)
		repoMock.EXPECT().UpdateProfile(gomock.Any(), "u1", next).Return(errors.New("timeout"))

		p, updated, err := service.Update(context.Background(), "u1", next)
		require.NoError(t, err)
		assert.False(t, updated)
		assert.Equal(t, previous, *p)
	})

	t.Run("unknown user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repoMock := NewMockprofilesRepo(ctrl)
		service := profile.NewService(repoMock)

		repoMock.EXPECT().GetProfile(gomock.Any(), "nobody").Return(nil, profile.ErrProfileNotFound)

		p, updated, err := service.Update(context.Background(), "nobody", next)
		assert.ErrorIs(t, err, profile.ErrProfileNotFound)
		assert.False(t, updated)
		assert.Nil(t, p)
	})

	t.Run("invalid", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := profile.NewService(NewMockprofilesRepo(ctrl))

		invalid := next
		invalid.Name = ""
		_, _, err := service.Update(context.Background(), "u1", invalid)
		assert.ErrorIs(t, err, profile.ErrInvalidProfile)
	})
}

package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/2beens/fittracker/internal/profile"
	"github.com/2beens/fittracker/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	megabyte = 1024 * 1024
	// seconds
	profileCacheExpire = 60 * 60

	DefaultProfileCacheSize = 10 * megabyte
)

type profilesRepo interface {
	CreateProfile(ctx context.Context, userID string, p profile.Profile) error
	GetProfile(ctx context.Context, userID string) (*profile.Profile, error)
	UpdateProfile(ctx context.Context, userID string, p profile.Profile) error
}

// ProfilesCache is a read-through cache in front of a profile store.
// Profiles are read on every workout action, written rarely.
type ProfilesCache struct {
	repo  profilesRepo
	cache *freecache.Cache
}

func NewProfilesCache(repo profilesRepo, cacheSize int) *ProfilesCache {
	if cacheSize <= 0 {
		cacheSize = DefaultProfileCacheSize
	}
	return &ProfilesCache{
		repo:  repo,
		cache: freecache.NewCache(cacheSize),
	}
}

func (c *ProfilesCache) CreateProfile(ctx context.Context, userID string, p profile.Profile) error {
	if err := c.repo.CreateProfile(ctx, userID, p); err != nil {
		return err
	}
	c.set(userID, p)
	return nil
}

func (c *ProfilesCache) GetProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.profile.get")
	defer span.End()

	if cached, err := c.cache.Get([]byte(userID)); err == nil {
		var p profile.Profile
		if err := json.Unmarshal(cached, &p); err == nil {
			span.SetAttributes(attribute.Bool("cache-hit", true))
			return &p, nil
		} else {
			log.Errorf("unmarshal cached profile %s: %s", userID, err)
		}
	} else if !errors.Is(err, freecache.ErrNotFound) {
		log.Errorf("get cached profile %s: %s", userID, err)
	}

	span.SetAttributes(attribute.Bool("cache-hit", false))
	p, err := c.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.set(userID, *p)
	return p, nil
}

// UpdateProfile drops the cached entry when the store write fails, so the
// next read sees whatever the store holds.
func (c *ProfilesCache) UpdateProfile(ctx context.Context, userID string, p profile.Profile) error {
	if err := c.repo.UpdateProfile(ctx, userID, p); err != nil {
		c.cache.Del([]byte(userID))
		return err
	}
	c.set(userID, p)
	return nil
}

func (c *ProfilesCache) EntryCount() int64 {
	return c.cache.EntryCount()
}

func (c *ProfilesCache) set(userID string, p profile.Profile) {
	data, err := json.Marshal(p)
	if err != nil {
		log.Errorf("marshal profile %s for cache: %s", userID, err)
		return
	}
	if err := c.cache.Set([]byte(userID), data, profileCacheExpire); err != nil {
		log.Errorf("set profile cache for %s: %s", userID, err)
	}
}

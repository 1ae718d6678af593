package progress

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"lexscreen/internal/screening/models"
	id "lexscreen/pkg/domain"
	"lexscreen/pkg/platform/sentinel"
)

// DefaultTTL bounds how long an untouched run can be resumed.
const DefaultTTL = 72 * time.Hour

var errNilProgress = errors.New("progress is required")

// Cache autosaves runs in process memory. Each save renews the TTL.
type Cache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		cache: gocache.New(ttl, ttl/4),
		ttl:   ttl,
	}
}

func (c *Cache) Save(_ context.Context, p *models.Progress) error {
	if p == nil {
		return errNilProgress
	}
	c.cache.Set(p.ID.String(), clone(p), c.ttl)
	return nil
}

func (c *Cache) Find(_ context.Context, screeningID id.ScreeningID) (*models.Progress, error) {
	v, ok := c.cache.Get(screeningID.String())
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(v.(*models.Progress)), nil
}

func (c *Cache) Delete(_ context.Context, screeningID id.ScreeningID) error {
	c.cache.Delete(screeningID.String())
	return nil
}

func clone(p *models.Progress) *models.Progress {
	out := *p
	if p.Submission != nil {
		sub := *p.Submission
		out.Submission = &sub
	}
	return &out
}

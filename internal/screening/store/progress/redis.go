package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lexscreen/internal/screening/models"
	id "lexscreen/pkg/domain"
	"lexscreen/pkg/platform/sentinel"
)

const progressKeyPrefix = "lexscreen:progress:"

// Redis autosaves runs as JSON so any server instance can resume them.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

// Save writes the run and renews its TTL.
func (r *Redis) Save(ctx context.Context, p *models.Progress) error {
	if p == nil {
		return errNilProgress
	}
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if err := r.client.Set(ctx, progressKeyPrefix+p.ID.String(), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("save progress: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (r *Redis) Find(ctx context.Context, screeningID id.ScreeningID) (*models.Progress, error) {
	b, err := r.client.Get(ctx, progressKeyPrefix+screeningID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find progress: %w: %w", sentinel.ErrUnavailable, err)
	}
	var p models.Progress
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("decode progress %s: %w", screeningID, err)
	}
	return &p, nil
}

func (r *Redis) Delete(ctx context.Context, screeningID id.ScreeningID) error {
	if err := r.client.Del(ctx, progressKeyPrefix+screeningID.String()).Err(); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

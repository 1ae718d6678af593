package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/twmb/franz-go/pkg/kgo"

	"lexscreen/internal/platform/config"
	"lexscreen/internal/platform/postgres"
	"lexscreen/internal/platform/ratelimit"
	redisclient "lexscreen/internal/platform/redis"
	"lexscreen/internal/screening/notify"
	"lexscreen/internal/screening/service"
	"lexscreen/internal/screening/store/progress"
	"lexscreen/internal/screening/store/record"
	"lexscreen/pkg/platform/circuit"
)

const (
	topicPartitions = 3
	topicReplicas   = -1
)

// backends holds the storage and notification adapters picked from config.
// Each falls back to an in-process implementation when unconfigured.
type backends struct {
	records  service.RecordStore
	progress service.ProgressStore
	sender   notify.Sender
	limits   ratelimit.Store
	// local answers rate limits without Redis, or while Redis is failing.
	local *ratelimit.Memory

	db     *sqlx.DB
	redis  *redisclient.Client
	kafka  *kgo.Client
	closed bool
}

func openBackends(ctx context.Context, cfg config.Config, log *slog.Logger) (*backends, error) {
	b := &backends{}
	ok := false
	defer func() {
		if !ok {
			b.Close()
		}
	}()

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if db != nil {
		if err := record.Migrate(ctx, db); err != nil {
			return nil, err
		}
		b.db = db
		b.records = record.NewPostgres(db)
	} else {
		log.Warn("DATABASE_URL not set, records are kept in memory")
		b.records = record.NewInMemory()
	}

	rc, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		b.redis = rc
		b.progress = progress.NewRedis(rc.Client, cfg.Screening.ProgressTTL)
		b.local = ratelimit.NewMemory()
		b.limits = ratelimit.NewFailover(ratelimit.NewRedis(rc.Client), b.local, circuit.New("ratelimit-redis"), log)
	} else {
		b.progress = progress.NewCache(cfg.Screening.ProgressTTL)
		b.local = ratelimit.NewMemory()
		b.limits = b.local
	}

	if len(cfg.Kafka.Brokers) > 0 {
		client, err := notify.NewKafkaClient(cfg.Kafka.Brokers, cfg.Kafka.ClientID)
		if err != nil {
			return nil, err
		}
		b.kafka = client
		if err := notify.EnsureTopic(ctx, client, cfg.Kafka.Topic, topicPartitions, topicReplicas); err != nil {
			return nil, err
		}
		b.sender = notify.NewKafka(client, cfg.Kafka.Topic)
	} else {
		b.sender = notify.NewLog(log)
	}

	ok = true
	return b, nil
}

func (b *backends) describe() map[string]string {
	out := map[string]string{"records": "memory", "progress": "memory", "notify": "log"}
	if b.db != nil {
		out["records"] = "postgres"
	}
	if b.redis != nil {
		out["progress"] = "redis"
	}
	if b.kafka != nil {
		out["notify"] = "kafka"
	}
	return out
}

// Health pings the remote backends in use.
func (b *backends) Health(ctx context.Context) error {
	var errs []error
	if b.db != nil {
		errs = append(errs, b.db.PingContext(ctx))
	}
	if b.redis != nil {
		errs = append(errs, b.redis.Health(ctx))
	}
	if b.kafka != nil {
		errs = append(errs, b.kafka.Ping(ctx))
	}
	return errors.Join(errs...)
}

func (b *backends) Close() {
	if b.closed {
		return
	}
	b.closed = true
	if b.kafka != nil {
		b.kafka.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.db != nil {
		_ = b.db.Close()
	}
}

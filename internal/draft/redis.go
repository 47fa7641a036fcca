package draft

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sakif/genfolio/internal/model"
)

// RedisKeyPrefix namespaces draft keys in a shared Redis.
const RedisKeyPrefix = "genfolio:draft:"

// RedisStore keeps server-side drafts in Redis with a sliding TTL: every
// save pushes the expiry out again.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ Store = (*RedisStore)(nil)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisStore connects and pings Redis.
func NewRedisStore(ctx context.Context, cfg RedisConfig, logger *slog.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("draft: connecting to redis at %s: %w", cfg.Addr, err)
	}

	logger.Info("redis connected", slog.String("addr", cfg.Addr), slog.Int("db", cfg.DB))
	return &RedisStore{client: client, ttl: cfg.TTL, logger: logger}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Load(ctx context.Context, key string) (*model.ProfileRecord, error) {
	data, err := s.client.Get(ctx, RedisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoDraft
	}
	if err != nil {
		return nil, fmt.Errorf("draft: redis get: %w", err)
	}

	p, err := decode(data)
	if err != nil {
		s.logger.Warn("discarding corrupt draft", slog.String("key", key), slog.String("error", err.Error()))
		if delErr := s.client.Del(ctx, RedisKeyPrefix+key).Err(); delErr != nil {
			return nil, fmt.Errorf("draft: redis del: %w", delErr)
		}
		return nil, ErrNoDraft
	}
	return p, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, p *model.ProfileRecord) error {
	data, err := encode(p)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, RedisKeyPrefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("draft: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, RedisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("draft: redis del: %w", err)
	}
	return nil
}

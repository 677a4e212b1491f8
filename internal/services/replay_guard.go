package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/config"
	"alfredoptarigan/ai-interviewer/internal/logger"
)

const replayTTL = 24 * time.Hour

type setNXer interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// RedisReplayGuard remembers webhook deliveries for a day. Redis failures
// let the delivery through.
type RedisReplayGuard struct {
	client setNXer
	closer func() error
	log    *zap.Logger
}

func NewRedisReplayGuard(cfg config.RedisConfig, log *zap.Logger) (*RedisReplayGuard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisReplayGuard{
		client: client,
		closer: client.Close,
		log:    logger.WithFields(log, zap.String("component", "replay_guard")),
	}, nil
}

func (g *RedisReplayGuard) FirstDelivery(ctx context.Context, key string) bool {
	first, err := g.client.SetNX(ctx, key, time.Now().Unix(), replayTTL).Result()
	if err != nil {
		g.log.Warn("replay guard unavailable, accepting delivery", zap.Error(err))
		return true
	}
	return first
}

func (g *RedisReplayGuard) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer()
}

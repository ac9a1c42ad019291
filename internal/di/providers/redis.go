package providers

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/samber/do/v2"

	"github.com/gallerieapp/gallerie-server/internal/config"
	"github.com/gallerieapp/gallerie-server/internal/logger"
)

// RedisHandle wraps the tip cache client. Client is nil when Redis is
// unreachable; the tip service falls back to its built-in tip.
type RedisHandle struct {
	Client *redis.Client
}

// Shutdown implements do.Shutdownable.
func (h *RedisHandle) Shutdown() error {
	if h.Client == nil {
		return nil
	}
	return h.Client.Close()
}

// ProvideRedisClient provides the Redis client for the tip cache.
// Redis being down is not fatal.
func ProvideRedisClient(i do.Injector) (*RedisHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout/10)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unreachable, tip cache disabled", "addr", cfg.Redis.Addr, "error", err)
		_ = client.Close()
		return &RedisHandle{Client: nil}, nil
	}

	log.Info("Redis connected", "addr", cfg.Redis.Addr)

	return &RedisHandle{Client: client}, nil
}

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultResendCooldown is the minimum gap between two OTP issues for the
// same phone number.
const DefaultResendCooldown = 30 * time.Second

// CooldownStore rate-limits OTP issuance per phone number.
type CooldownStore interface {
	// Allow reports whether the phone number may receive a new code now. A
	// true result claims the cooldown window.
	Allow(ctx context.Context, phoneNumber string) (bool, error)
}

// RedisCooldown implements CooldownStore on a shared Redis, so the window
// holds across replicas. When Redis is unreachable it fails open: a flaky
// cache must not lock users out of signing in.
type RedisCooldown struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCooldown creates a Redis-backed cooldown store.
func NewRedisCooldown(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCooldown {
	return &RedisCooldown{client: client, ttl: ttl, logger: logger}
}

// Allow claims the cooldown window via SET NX EX.
func (c *RedisCooldown) Allow(ctx context.Context, phoneNumber string) (bool, error) {
	ok, err := c.client.SetNX(ctx, "otp:cooldown:"+phoneNumber, "1", c.ttl).Result()
	if err != nil {
		c.logger.WarnContext(ctx, "cooldown check failed, allowing request",
			slog.String("error", err.Error()),
		)
		return true, nil
	}
	return ok, nil
}

// NoopCooldown never throttles. Used when Redis is not configured.
type NoopCooldown struct{}

func (NoopCooldown) Allow(context.Context, string) (bool, error) {
	return true, nil
}

package security

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter caps webhook requests per source IP within a sliding window.
// State lives in a per-IP redis sorted set, so one noisy IP never blocks
// bookkeeping for others and entries expire purely by elapsed time.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow records the request for ip and reports whether it stays within the
// window limit. The sorted set is trimmed lazily on each call.
func (r *RateLimiter) Allow(ctx context.Context, ip string) (bool, error) {
	key := rateLimitKey(ip)
	now := r.now()
	cutoff := strconv.FormatInt(now.Add(-r.window).UnixNano(), 10)

	pipe := r.redis.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", cutoff)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	card := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, r.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limiter: %w", err)
	}

	return card.Val() <= int64(r.limit), nil
}

func rateLimitKey(ip string) string {
	return fmt.Sprintf("ratelimit:webhook:%s", ip)
}

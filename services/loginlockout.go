package services

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	lockoutKeyPrefix  = "lockout:"
	lockoutTTL        = 25 * time.Hour // auto-cleanup
	failThreshold     = 3
	maxLockoutMinutes = 24 * 60 // 24h cap
)

type LoginLockout struct {
	rdb *redis.Client
	log zerolog.Logger
}

func NewLoginLockout(rdb *redis.Client, log zerolog.Logger) *LoginLockout {
	return &LoginLockout{rdb: rdb, log: log}
}

// lockoutDuration returns the lockout duration based on cumulative fail count.
// Tier 1 (3 fails):  15 min
// Tier 2 (6 fails):  30 min
// Tier 3 (9 fails):  60 min
// ... doubles each tier, capped at 24h.
func lockoutDuration(failCount int) time.Duration {
	tier := failCount / failThreshold
	if tier <= 0 {
		return 0
	}
	minutes := 15 * (1 << (tier - 1))
	if minutes > maxLockoutMinutes {
		minutes = maxLockoutMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// IsLocked checks if a key is currently locked out.
// Returns (locked, remaining seconds until unlock).
func (lo *LoginLockout) IsLocked(ctx context.Context, key string) (bool, int) {
	lockedUntil, err := lo.rdb.HGet(ctx, lockoutKeyPrefix+key, "locked_until").Result()
	if err != nil {
		return false, 0
	}

	ts, err := strconv.ParseInt(lockedUntil, 10, 64)
	if err != nil {
		return false, 0
	}

	until := time.Unix(ts, 0)
	if time.Now().After(until) {
		return false, 0
	}

	remaining := int(time.Until(until).Seconds())
	return true, remaining
}

// RecordFailure increments the fail count and applies lockout if threshold reached.
func (lo *LoginLockout) RecordFailure(ctx context.Context, key string) {
	rkey := lockoutKeyPrefix + key

	newCount, err := lo.rdb.HIncrBy(ctx, rkey, "fail_count", 1).Result()
	if err != nil {
		lo.log.Warn().Err(err).Str("key", key).Msg("lockout incr failed")
		return
	}
	if err := lo.rdb.Expire(ctx, rkey, lockoutTTL).Err(); err != nil {
		lo.log.Warn().Err(err).Str("key", key).Msg("lockout expire failed")
	}

	if newCount >= failThreshold && newCount%failThreshold == 0 {
		dur := lockoutDuration(int(newCount))
		lockedUntil := time.Now().Add(dur).Unix()
		if err := lo.rdb.HSet(ctx, rkey, "locked_until", strconv.FormatInt(lockedUntil, 10)).Err(); err != nil {
			lo.log.Warn().Err(err).Str("key", key).Msg("lockout set failed")
		}
	}
}

// RecordSuccess resets the fail count for a key.
func (lo *LoginLockout) RecordSuccess(ctx context.Context, key string) {
	if err := lo.rdb.Del(ctx, lockoutKeyPrefix+key).Err(); err != nil {
		lo.log.Warn().Err(err).Str("key", key).Msg("lockout reset failed")
	}
}

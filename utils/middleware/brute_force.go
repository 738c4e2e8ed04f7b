package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/studyabroad-hub/api/utils/cache"
	"github.com/studyabroad-hub/api/utils/response"
)

// BruteForceProtection throttles repeated failed login attempts per IP
// using Redis. When Redis is unavailable the middleware degrades open so
// legitimate users are never locked out by a cache outage.
type BruteForceProtection struct {
	redisCache *cache.RedisCache
}

// NewBruteForceProtection creates a new brute force protection instance
func NewBruteForceProtection(redisCache *cache.RedisCache) *BruteForceProtection {
	return &BruteForceProtection{
		redisCache: redisCache,
	}
}

// CheckAndRecordAttempt middleware checks if IP is locked out. The lock
// value stores the lockout expiry as unix seconds, so Retry-After can be
// derived from it even when the TTL query races key expiry.
func (b *BruteForceProtection) CheckAndRecordAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		lockKey := fmt.Sprintf("brute_force:lock:%s", ip)

		val, err := b.redisCache.Get(c.UserContext(), lockKey)
		if err != nil {
			// Not locked, or redis is down and the gate degrades open.
			return c.Next()
		}

		retryAfter := 60
		if expiry, perr := strconv.ParseInt(val, 10, 64); perr == nil {
			if remaining := expiry - time.Now().Unix(); remaining > 0 {
				retryAfter = int(remaining)
			}
		} else if ttl, terr := b.redisCache.TTL(c.UserContext(), lockKey); terr == nil && ttl > 0 {
			retryAfter = int(ttl.Seconds())
		}

		c.Set("Retry-After", fmt.Sprintf("%d", retryAfter))
		return response.TooManyRequests(c, fmt.Sprintf("Too many failed attempts. Try again in %d seconds", retryAfter))
	}
}

// RecordFailedAttempt records a failed token verification and applies
// progressive lockouts.
func (b *BruteForceProtection) RecordFailedAttempt(c *fiber.Ctx) {
	ctx := c.UserContext()
	ip := c.IP()
	attemptKey := fmt.Sprintf("brute_force:attempts:%s", ip)
	lockKey := fmt.Sprintf("brute_force:lock:%s", ip)

	attempts, err := b.redisCache.Increment(ctx, attemptKey)
	if err != nil {
		return
	}

	// 15 minute counting window
	if attempts == 1 {
		b.redisCache.Expire(ctx, attemptKey, 15*time.Minute)
	}

	var lockDuration time.Duration
	switch {
	case attempts >= 20:
		lockDuration = time.Hour
	case attempts >= 10:
		lockDuration = 15 * time.Minute
	case attempts >= 5:
		lockDuration = time.Minute
	}

	if lockDuration > 0 {
		expiry := time.Now().Add(lockDuration).Unix()
		b.redisCache.Set(ctx, lockKey, strconv.FormatInt(expiry, 10), lockDuration)
	}
}

// ClearAttempts resets the counter after a successful login
func (b *BruteForceProtection) ClearAttempts(c *fiber.Ctx) {
	ip := c.IP()
	b.redisCache.Delete(c.UserContext(),
		fmt.Sprintf("brute_force:attempts:%s", ip),
		fmt.Sprintf("brute_force:lock:%s", ip),
	)
}

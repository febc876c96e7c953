// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ============================================================================
// Rate Limiter
// ============================================================================

// RateLimiter hands out one token bucket per client address.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	idle     time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perMinute requests per client, with the full minute's
// allowance available as a burst. perMinute <= 0 disables limiting.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &RateLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    perMinute,
		idle:     10 * time.Minute,
	}
}

// Allow reports whether a request from client may proceed. A nil limiter
// allows everything.
func (rl *RateLimiter) Allow(client string) bool {
	if rl == nil {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cl, ok := rl.limiters[client]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[client] = cl
	}
	cl.lastSeen = now
	rl.sweep(now)
	return cl.limiter.AllowN(now, 1)
}

// Burst returns the per-client burst size.
func (rl *RateLimiter) Burst() int {
	if rl == nil {
		return 0
	}
	return rl.burst
}

// sweep drops limiters that have been idle too long. Caller holds mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for client, cl := range rl.limiters {
		if now.Sub(cl.lastSeen) > rl.idle {
			delete(rl.limiters, client)
		}
	}
}

// rateLimitMiddleware answers 429 {"detail":"rate limited"} once a client
// exhausts its bucket.
func rateLimitMiddleware(rl *RateLimiter, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil {
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.Burst()))
		if !rl.Allow(c.ClientIP()) {
			log.Warn("rate limit exceeded", "ip", c.ClientIP(), "path", c.Request.URL.Path)
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorBody("rate limited"))
			return
		}
		c.Next()
	}
}

// ============================================================================
// Request Logging and Recovery
// ============================================================================

// loggingMiddleware logs every request with its status and duration.
func loggingMiddleware(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"ip", c.ClientIP(),
		)
	}
}

// recoveryMiddleware turns a handler panic into a 500 with the backend's
// generic detail.
func recoveryMiddleware(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					"panic", r,
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					errorBody("An unexpected error occurred. Please try again."))
			}
		}()
		c.Next()
	}
}

package http

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/AlibekovAA/job-board/backend/internal/common/constants"
	"github.com/AlibekovAA/job-board/backend/internal/observability/metrics"
)

type RateLimiter struct {
	limiters    map[string]*rate.Limiter
	mu          sync.Mutex
	rate        rate.Limit
	burst       int
	lastCleanup time.Time
	now         func() time.Time
}

func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters:    make(map[string]*rate.Limiter),
		rate:        rate.Limit(requestsPerSecond),
		burst:       burst,
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

// pruneLocked drops limiters that have refilled completely, at most once per
// cleanup interval. It runs inline on the request path so no goroutine is
// left behind.
func (rl *RateLimiter) pruneLocked(now time.Time) {
	if now.Sub(rl.lastCleanup) < constants.RateLimitCleanupInterval {
		return
	}
	for key, limiter := range rl.limiters {
		if limiter.TokensAt(now) >= float64(rl.burst) {
			delete(rl.limiters, key)
		}
	}
	rl.lastCleanup = now
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	now := rl.now()
	rl.pruneLocked(now)

	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}
	rl.mu.Unlock()

	return limiter.AllowN(now, 1)
}

func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

type StrictRateLimiter struct {
	loginLimiter    *RateLimiter
	registerLimiter *RateLimiter
	refreshLimiter  *RateLimiter
	logoutLimiter   *RateLimiter
	generalLimiter  *RateLimiter
}

func NewStrictRateLimiter() *StrictRateLimiter {
	return &StrictRateLimiter{
		loginLimiter:    NewRateLimiter(constants.RateLimitLoginRequestsPerSecond, constants.RateLimitLoginBurst),
		registerLimiter: NewRateLimiter(constants.RateLimitRegisterRequestsPerSecond, constants.RateLimitRegisterBurst),
		refreshLimiter:  NewRateLimiter(constants.RateLimitRefreshRequestsPerSecond, constants.RateLimitRefreshBurst),
		logoutLimiter:   NewRateLimiter(constants.RateLimitLogoutRequestsPerSecond, constants.RateLimitLogoutBurst),
		generalLimiter:  NewRateLimiter(constants.RateLimitGeneralRequestsPerSecond, constants.RateLimitGeneralBurst),
	}
}

func (srl *StrictRateLimiter) limiterFor(path string) (*RateLimiter, string) {
	switch path {
	case "/api/auth/login":
		return srl.loginLimiter, "login"
	case "/api/auth/register":
		return srl.registerLimiter, "register"
	case "/api/auth/refresh":
		return srl.refreshLimiter, "refresh"
	case "/api/auth/logout":
		return srl.logoutLimiter, "logout"
	default:
		return srl.generalLimiter, "general"
	}
}

// Middleware picks the limiter by request path and keys it by client IP.
// Health and metrics endpoints are never limited.
func (srl *StrictRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/health" || path == "/metrics" || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		limiter, limiterType := srl.limiterFor(path)
		if !limiter.Allow(GetClientIP(r)) {
			metrics.RateLimitBlocked.WithLabelValues(limiterType).Inc()
			WriteErrorEnvelope(w, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded", nil, TraceIDFromContext(r.Context()))
			return
		}

		next.ServeHTTP(w, r)
	})
}

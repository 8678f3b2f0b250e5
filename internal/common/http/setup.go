package http

import (
	"net/http"

	"github.com/AlibekovAA/job-board/backend/internal/common/constants"
	"github.com/AlibekovAA/job-board/backend/internal/common/httpmetrics"
	"github.com/AlibekovAA/job-board/backend/internal/common/logger"
)

type BaseOptions struct {
	AllowedOrigins string
	RateLimiter    *StrictRateLimiter
}

// BuildBaseHandler wraps handler with the shared middleware chain. From the
// outside in: security headers, CORS, recovery, trace id, rate limit, body
// limit, request metrics.
func BuildBaseHandler(appName string, log *logger.Logger, opts BaseOptions, handler http.Handler) http.Handler {
	collector := httpmetrics.New(appName)
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	cors := CORSMiddleware(opts.AllowedOrigins)

	inner := maxRequestSize(collector.Wrap(handler))
	if opts.RateLimiter != nil {
		inner = opts.RateLimiter.Middleware(inner)
	}

	return SecurityHeadersMiddleware(cors(recovery(TraceIDMiddleware(inner))))
}

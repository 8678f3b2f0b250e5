package constants

import "time"

const (
	NameMinLength        = 1
	NameMaxLength        = 100
	PasswordMinLength    = 8
	PasswordMaxLength    = 72
	TokenSecretMinLength = 32
	BioMaxLength         = 200

	DefaultRecentJobsLimit = 5
	MaxRecentJobsLimit     = 50
	DefaultAuditLogLimit   = 100
	MaxAuditLogLimit       = 500
	DefaultMaxRequestSize  = 1 << 20

	RefreshTokenCookieName = "refreshToken"
	RefreshTokenCookiePath = "/api/auth"

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second
	DBMigrationTimeout    = 1 * time.Minute

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second
	ServerWriteMargin       = 5 * time.Second
	ServerMaxHeaderBytes    = 16 << 10

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort          = "5000"
	DefaultRequestTimeout    = 5 * time.Second
	DefaultAccessTokenTTL    = 15 * time.Minute
	DefaultRefreshTokenTTL   = 7 * 24 * time.Hour
	DefaultBcryptCost        = 10
	DefaultCORSAllowedOrigin = "http://localhost:5173"

	RateLimitCleanupInterval = 5 * time.Minute

	RateLimitLoginRequestsPerSecond    = 1.0
	RateLimitLoginBurst                = 5
	RateLimitRegisterRequestsPerSecond = 0.5
	RateLimitRegisterBurst             = 3
	RateLimitRefreshRequestsPerSecond  = 2.0
	RateLimitRefreshBurst              = 10
	RateLimitLogoutRequestsPerSecond   = 2.0
	RateLimitLogoutBurst               = 10
	RateLimitGeneralRequestsPerSecond  = 20.0
	RateLimitGeneralBurst              = 40

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"

package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminhttp "github.com/AlibekovAA/job-board/backend/internal/admin/http"
	adminservice "github.com/AlibekovAA/job-board/backend/internal/admin/service"
	apphttp "github.com/AlibekovAA/job-board/backend/internal/application/http"
	apprepo "github.com/AlibekovAA/job-board/backend/internal/application/repository"
	appservice "github.com/AlibekovAA/job-board/backend/internal/application/service"
	auditrepo "github.com/AlibekovAA/job-board/backend/internal/audit/repository"
	auditservice "github.com/AlibekovAA/job-board/backend/internal/audit/service"
	authhttp "github.com/AlibekovAA/job-board/backend/internal/auth/http"
	authservice "github.com/AlibekovAA/job-board/backend/internal/auth/service"
	"github.com/AlibekovAA/job-board/backend/internal/auth/token"
	"github.com/AlibekovAA/job-board/backend/internal/common/authguard"
	"github.com/AlibekovAA/job-board/backend/internal/common/clock"
	"github.com/AlibekovAA/job-board/backend/internal/common/config"
	"github.com/AlibekovAA/job-board/backend/internal/common/constants"
	"github.com/AlibekovAA/job-board/backend/internal/common/crypto"
	"github.com/AlibekovAA/job-board/backend/internal/common/db"
	commonhttp "github.com/AlibekovAA/job-board/backend/internal/common/http"
	"github.com/AlibekovAA/job-board/backend/internal/common/logger"
	jobhttp "github.com/AlibekovAA/job-board/backend/internal/job/http"
	jobrepo "github.com/AlibekovAA/job-board/backend/internal/job/repository"
	jobservice "github.com/AlibekovAA/job-board/backend/internal/job/service"
	userhttp "github.com/AlibekovAA/job-board/backend/internal/user/http"
	userrepo "github.com/AlibekovAA/job-board/backend/internal/user/repository"
	userservice "github.com/AlibekovAA/job-board/backend/internal/user/service"
)

const serviceName = "api"

type App struct {
	Log     *logger.Logger
	Config  config.APIConfig
	Pool    *pgxpool.Pool
	Handler http.Handler

	stopMetrics context.CancelFunc
}

// NewAPIApp loads configuration, prepares the database and wires every
// repository, service and handler into a single http.Handler.
func NewAPIApp(ctx context.Context) (*App, error) {
	cfg, err := config.LoadAPIConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.LogDir, serviceName, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	pool, err := db.NewPool(ctx, log, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx, log, cfg.DatabaseURL); err != nil {
		pool.Close()
		return nil, err
	}

	metricsCtx, stopMetrics := context.WithCancel(context.Background())
	db.StartPoolMetrics(metricsCtx, pool, constants.DBPoolMetricsInterval)

	app := &App{Log: log, Config: cfg, Pool: pool, stopMetrics: stopMetrics}

	handler, err := app.wire(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Handler = handler
	return app, nil
}

func (a *App) wire(ctx context.Context) (http.Handler, error) {
	cfg, log := a.Config, a.Log

	idGen := crypto.NewUUIDGenerator()
	clk := clock.NewRealClock()
	hasher := crypto.NewBcryptHasher(cfg.BcryptCost)

	users := userrepo.NewPgRepository(a.Pool)
	jobs := jobrepo.NewPgRepository(a.Pool)
	applications := apprepo.NewPgRepository(a.Pool)
	auditLog := auditrepo.NewPgRepository(a.Pool)

	seed := AdminSeed{Email: cfg.AdminEmail, Password: cfg.AdminPassword}
	if err := EnsureAdmin(ctx, users, hasher, idGen, seed, log); err != nil {
		return nil, err
	}

	tokens := token.NewService(token.Config{
		AccessSecret:  cfg.AccessTokenSecret,
		RefreshSecret: cfg.RefreshTokenSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	}, idGen, clk)

	recorder := auditservice.NewRecorder(auditLog, idGen, clk, log)
	sessions := authservice.NewAuthService(users, tokens, hasher, idGen, authservice.Options{
		RotateRefreshOnUse: cfg.RotateRefreshOnUse,
	}, log)
	profiles := userservice.NewUserService(users, recorder, log)
	jobService := jobservice.NewJobService(jobs, recorder, idGen, clk, log)
	appService := appservice.NewApplicationService(applications, jobService, recorder, idGen, clk, log)
	stats := adminservice.NewAdminService(jobService, profiles, appService, log)

	guard := authguard.New(tokens, users, log)

	mux := http.NewServeMux()
	mux.Handle("GET /health", commonhttp.HealthHandler(log, a.Pool))
	mux.Handle("GET /metrics", promhttp.Handler())

	authhttp.NewHandler(sessions, authhttp.Config{
		CookieSecure:   cfg.CookieSecure,
		RefreshTTL:     cfg.RefreshTokenTTL,
		RequestTimeout: cfg.RequestTimeout,
	}, log).Register(mux)
	userhttp.NewHandler(profiles, guard, cfg.RequestTimeout, log).Register(mux)
	jobhttp.NewHandler(jobService, guard, cfg.RequestTimeout, log).Register(mux)
	apphttp.NewHandler(appService, guard, cfg.RequestTimeout, log).Register(mux)
	adminhttp.NewHandler(adminhttp.Services{
		Stats:        stats,
		Users:        profiles,
		Jobs:         jobService,
		Applications: appService,
		Audit:        recorder,
	}, guard, cfg.RequestTimeout, log).Register(mux)

	return commonhttp.BuildBaseHandler(serviceName, log, commonhttp.BaseOptions{
		AllowedOrigins: cfg.CORSAllowedOrigin,
		RateLimiter:    commonhttp.NewStrictRateLimiter(),
	}, mux), nil
}

// Close stops the pool metrics loop and closes the pool.
func (a *App) Close() {
	if a.stopMetrics != nil {
		a.stopMetrics()
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}

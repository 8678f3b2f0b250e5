package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/AlibekovAA/job-board/backend/internal/common/constants"
	commonerrors "github.com/AlibekovAA/job-board/backend/internal/common/errors"
)

type APIConfig struct {
	HTTPPort           string
	DatabaseURL        string
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	RotateRefreshOnUse bool
	RequestTimeout     time.Duration
	CookieSecure       bool
	CORSAllowedOrigin  string
	AdminEmail         string
	AdminPassword      string
	BcryptCost         int
	LogDir             string
	LogLevel           string
}

// LoadAPIConfig reads the process environment. A .env file in the working
// directory is loaded first when present; real env vars take precedence.
func LoadAPIConfig() (APIConfig, error) {
	_ = godotenv.Load()

	accessSecret, err := mustEnv("ACCESS_TOKEN_SECRET")
	if err != nil {
		return APIConfig{}, err
	}

	refreshSecret, err := mustEnv("REFRESH_TOKEN_SECRET")
	if err != nil {
		return APIConfig{}, err
	}

	if err := validateTokenSecrets(accessSecret, refreshSecret); err != nil {
		return APIConfig{}, err
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return APIConfig{}, err
	}

	return APIConfig{
		HTTPPort:           getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:        databaseURL,
		AccessTokenSecret:  accessSecret,
		RefreshTokenSecret: refreshSecret,
		AccessTokenTTL:     getDurationEnv("ACCESS_TOKEN_TTL", constants.DefaultAccessTokenTTL),
		RefreshTokenTTL:    getDurationEnv("REFRESH_TOKEN_TTL", constants.DefaultRefreshTokenTTL),
		RotateRefreshOnUse: getBoolEnv("REFRESH_TOKEN_ROTATION", false),
		RequestTimeout:     getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		CookieSecure:       getBoolEnv("COOKIE_SECURE", false),
		CORSAllowedOrigin:  getEnv("CORS_ALLOWED_ORIGIN", constants.DefaultCORSAllowedOrigin),
		AdminEmail:         strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		BcryptCost:         getIntEnv("BCRYPT_COST", constants.DefaultBcryptCost),
		LogDir:             os.Getenv("LOG_DIR"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
	}, nil
}

func validateTokenSecrets(access, refresh string) error {
	if len(access) < constants.TokenSecretMinLength {
		return commonerrors.ErrInvalidTokenSecret.WithCause(fmt.Errorf("ACCESS_TOKEN_SECRET: got %d bytes", len(access)))
	}
	if len(refresh) < constants.TokenSecretMinLength {
		return commonerrors.ErrInvalidTokenSecret.WithCause(fmt.Errorf("REFRESH_TOKEN_SECRET: got %d bytes", len(refresh)))
	}
	if access == refresh {
		return commonerrors.ErrInvalidTokenSecret.WithCause(fmt.Errorf("ACCESS_TOKEN_SECRET equals REFRESH_TOKEN_SECRET"))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", commonerrors.ErrMissingRequiredEnv.WithCause(fmt.Errorf("%s", key))
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getBoolEnv(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

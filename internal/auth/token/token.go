package token

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/job-board/backend/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/job-board/backend/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/job-board/backend/internal/common/errors"
	"github.com/AlibekovAA/job-board/backend/internal/observability/metrics"
)

const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

var ErrInvalidToken = commonerrors.ErrInvalidToken

type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type Issued struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

type AccessClaims struct {
	UserID    string
	Role      string
	JTI       string
	ExpiresAt time.Time
}

type RefreshClaims struct {
	UserID    string
	JTI       string
	ExpiresAt time.Time
}

type accessJWT struct {
	Role string `json:"role"`
	Kind string `json:"typ"`
	jwt.RegisteredClaims
}

type refreshJWT struct {
	Kind string `json:"typ"`
	jwt.RegisteredClaims
}

// Service mints and verifies the two token kinds. Each kind has its own
// secret and its own typ claim, and a token of one kind never verifies as
// the other.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	idGenerator   commoncrypto.IDGenerator
	clock         clock.Clock
}

func NewService(cfg Config, idGenerator commoncrypto.IDGenerator, clk clock.Clock) *Service {
	return &Service{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		idGenerator:   idGenerator,
		clock:         clk,
	}
}

func (s *Service) RefreshTTL() time.Duration {
	return s.refreshTTL
}

func (s *Service) MintAccess(userID, role string) (Issued, error) {
	registered, jti, err := s.registeredClaims(userID, s.accessTTL)
	if err != nil {
		return Issued{}, err
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessJWT{
		Role:             role,
		Kind:             kindAccess,
		RegisteredClaims: registered,
	}).SignedString(s.accessSecret)
	if err != nil {
		return Issued{}, fmt.Errorf("sign access token: %w", err)
	}

	metrics.AccessTokensIssued.Inc()
	return Issued{Token: signed, JTI: jti, ExpiresAt: registered.ExpiresAt.Time}, nil
}

func (s *Service) MintRefresh(userID string) (Issued, error) {
	registered, jti, err := s.registeredClaims(userID, s.refreshTTL)
	if err != nil {
		return Issued{}, err
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshJWT{
		Kind:             kindRefresh,
		RegisteredClaims: registered,
	}).SignedString(s.refreshSecret)
	if err != nil {
		return Issued{}, fmt.Errorf("sign refresh token: %w", err)
	}

	metrics.RefreshTokensIssued.Inc()
	return Issued{Token: signed, JTI: jti, ExpiresAt: registered.ExpiresAt.Time}, nil
}

func (s *Service) VerifyAccess(tokenString string) (AccessClaims, error) {
	metrics.TokenValidationsTotal.WithLabelValues(kindAccess).Inc()

	var claims accessJWT
	if err := s.parse(tokenString, &claims, s.accessSecret); err != nil {
		return AccessClaims{}, s.fail(kindAccess, err)
	}
	if claims.Kind != kindAccess {
		return AccessClaims{}, s.fail(kindAccess, errors.New("wrong token kind"))
	}
	if claims.Role == "" {
		return AccessClaims{}, s.fail(kindAccess, errors.New("missing role claim"))
	}

	return AccessClaims{
		UserID:    claims.Subject,
		Role:      claims.Role,
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *Service) VerifyRefresh(tokenString string) (RefreshClaims, error) {
	metrics.TokenValidationsTotal.WithLabelValues(kindRefresh).Inc()

	var claims refreshJWT
	if err := s.parse(tokenString, &claims, s.refreshSecret); err != nil {
		return RefreshClaims{}, s.fail(kindRefresh, err)
	}
	if claims.Kind != kindRefresh {
		return RefreshClaims{}, s.fail(kindRefresh, errors.New("wrong token kind"))
	}

	return RefreshClaims{
		UserID:    claims.Subject,
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// SubjectUnverified reads the sub claim of a refresh token without checking
// signature or expiry. The result must only be used to address a record
// whose stored token is then compared against the presented one.
func SubjectUnverified(tokenString string) (string, error) {
	var claims refreshJWT
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims); err != nil {
		return "", ErrInvalidToken.WithCause(err)
	}
	if claims.Kind != kindRefresh || claims.Subject == "" {
		return "", ErrInvalidToken.WithCause(errors.New("not a refresh token"))
	}
	return claims.Subject, nil
}

// Hash is the form in which a refresh token is stored.
func Hash(tokenString string) string {
	sum := sha256.Sum256([]byte(tokenString))
	return hex.EncodeToString(sum[:])
}

func (s *Service) registeredClaims(userID string, ttl time.Duration) (jwt.RegisteredClaims, string, error) {
	if userID == "" {
		return jwt.RegisteredClaims{}, "", errors.New("token subject is empty")
	}

	jti, err := s.idGenerator.NewID()
	if err != nil {
		return jwt.RegisteredClaims{}, "", fmt.Errorf("generate token id: %w", err)
	}

	now := s.clock.Now()
	return jwt.RegisteredClaims{
		Subject:   userID,
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}, jti, nil
}

func (s *Service) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	if tokenString == "" {
		return errors.New("empty token")
	}

	parsed, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return errors.New("token is not valid")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return errors.New("missing sub claim")
	}
	return nil
}

func (s *Service) fail(kind string, cause error) error {
	metrics.TokenValidationsFailed.WithLabelValues(kind).Inc()
	return ErrInvalidToken.WithCause(cause)
}

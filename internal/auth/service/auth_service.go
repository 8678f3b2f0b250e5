package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/AlibekovAA/job-board/backend/internal/auth/token"
	commoncrypto "github.com/AlibekovAA/job-board/backend/internal/common/crypto"
	"github.com/AlibekovAA/job-board/backend/internal/common/logger"
	userdomain "github.com/AlibekovAA/job-board/backend/internal/user/domain"
	userrepo "github.com/AlibekovAA/job-board/backend/internal/user/repository"
)

// CredentialStore is the slice of the user repository the session manager
// needs.
type CredentialStore interface {
	Create(ctx context.Context, user userdomain.User) error
	FindByEmail(ctx context.Context, email string) (userdomain.User, error)
	FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error)
	UpdateRefreshToken(ctx context.Context, id userdomain.ID, tokenHash string) error
	SwapRefreshToken(ctx context.Context, id userdomain.ID, expectedHash, newHash string) (bool, error)
}

type UserView struct {
	ID    userdomain.ID   `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  userdomain.Role `json:"role"`
}

type Session struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
	User             UserView
}

// RefreshResult carries a new refresh token only when rotation is enabled.
type RefreshResult struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type Options struct {
	RotateRefreshOnUse bool
}

// AuthService runs the session lifecycle. Each user has at most one live
// refresh token, stored as a hash on the user row.
type AuthService struct {
	store       CredentialStore
	tokens      *token.Service
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	rotate      bool
	log         *logger.Logger
}

func NewAuthService(
	store CredentialStore,
	tokens *token.Service,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	opts Options,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		store:       store,
		tokens:      tokens,
		hasher:      hasher,
		idGenerator: idGenerator,
		rotate:      opts.RotateRefreshOnUse,
		log:         log,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (Session, error) {
	input.normalize()

	if err := input.validate(); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		recordSession("register", "invalid")
		return Session{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return Session{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "register_id_generation_failed",
		}).Errorf("register failed: id generation error: %v", err)
		return Session{}, err
	}

	user := userdomain.User{
		ID:           userdomain.ID(id),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
	}

	access, refresh, err := s.mintPair(user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": id,
			"action":  "register_token_issue_failed",
		}).Errorf("register failed: token issue error: %v", err)
		return Session{}, err
	}
	user.RefreshTokenHash = token.Hash(refresh.Token)

	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrEmailAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"action": "register_email_exists",
			}).Warn("register failed: email already registered")
			recordSession("register", "duplicate")
			return Session{}, ErrDuplicateEmail
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": id,
			"action":  "register_create_failed",
		}).Errorf("register failed: %v", err)
		recordSession("register", "error")
		return Session{}, storageFailure(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": id,
		"role":    string(user.Role),
		"action":  "register_success",
	}).Info("register success")
	recordSession("register", "success")

	return newSession(user, access, refresh), nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (Session, error) {
	email := NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		recordSession("login", "invalid")
		return Session{}, ErrInvalidCredentials
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"action": "login_user_not_found",
			}).Warn("login failed: not found")
			recordSession("login", "invalid")
			return Session{}, ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"action": "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		recordSession("login", "error")
		return Session{}, storageFailure(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_invalid_password",
		}).Warn("login failed: invalid password")
		recordSession("login", "invalid")
		return Session{}, ErrInvalidCredentials
	}

	access, refresh, err := s.mintPair(user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return Session{}, err
	}

	// Overwrites any earlier session's token.
	if err := s.store.UpdateRefreshToken(ctx, user.ID, token.Hash(refresh.Token)); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_store_token_failed",
		}).Errorf("login failed: %v", err)
		recordSession("login", "error")
		return Session{}, storageFailure(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "login_success",
	}).Info("login success")
	recordSession("login", "success")

	return newSession(user, access, refresh), nil
}

func (s *AuthService) Refresh(ctx context.Context, presented string) (RefreshResult, error) {
	if presented == "" {
		recordSession("refresh", "missing")
		return RefreshResult{}, ErrMissingRefreshToken
	}

	claims, err := s.tokens.VerifyRefresh(presented)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "refresh_token_invalid",
		}).Warnf("refresh failed: %v", err)
		recordSession("refresh", "forbidden")
		return RefreshResult{}, ErrRefreshForbidden
	}

	user, err := s.store.FindByID(ctx, userdomain.ID(claims.UserID))
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": claims.UserID,
				"action":  "refresh_user_not_found",
			}).Warn("refresh failed: user not found")
			recordSession("refresh", "forbidden")
			return RefreshResult{}, ErrRefreshForbidden
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": claims.UserID,
			"action":  "refresh_user_lookup_failed",
		}).Errorf("refresh failed: %v", err)
		recordSession("refresh", "error")
		return RefreshResult{}, storageFailure(err)
	}

	presentedHash := token.Hash(presented)
	if !hashesEqual(user.RefreshTokenHash, presentedHash) {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "refresh_token_mismatch",
		}).Warn("refresh failed: token is not the active one")
		recordSession("refresh", "forbidden")
		return RefreshResult{}, ErrRefreshForbidden
	}

	access, err := s.tokens.MintAccess(string(user.ID), string(user.Role))
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "refresh_token_issue_failed",
		}).Errorf("refresh failed: token issue error: %v", err)
		recordSession("refresh", "error")
		return RefreshResult{}, err
	}

	result := RefreshResult{AccessToken: access.Token}

	if s.rotate {
		rotated, err := s.tokens.MintRefresh(string(user.ID))
		if err != nil {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": string(user.ID),
				"action":  "refresh_token_issue_failed",
			}).Errorf("refresh failed: token issue error: %v", err)
			recordSession("refresh", "error")
			return RefreshResult{}, err
		}

		swapped, err := s.store.SwapRefreshToken(ctx, user.ID, presentedHash, token.Hash(rotated.Token))
		if err != nil {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": string(user.ID),
				"action":  "refresh_rotate_failed",
			}).Errorf("refresh failed: %v", err)
			recordSession("refresh", "error")
			return RefreshResult{}, storageFailure(err)
		}
		if !swapped {
			// A concurrent login, logout or refresh replaced the token first.
			recordSession("refresh", "forbidden")
			return RefreshResult{}, ErrRefreshForbidden
		}

		result.RefreshToken = rotated.Token
		result.RefreshExpiresAt = rotated.ExpiresAt
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"rotated": s.rotate,
		"action":  "refresh_success",
	}).Info("refresh success")
	recordSession("refresh", "success")

	return result, nil
}

// Logout ends the session of the token's subject. A verified token clears
// the stored token unconditionally. A token that fails verification only
// clears it when it is the stored one, so an expired but active token still
// ends its session while a forged token matches nothing.
func (s *AuthService) Logout(ctx context.Context, presented string) {
	if presented == "" {
		recordSession("logout", "noop")
		return
	}

	if claims, err := s.tokens.VerifyRefresh(presented); err == nil {
		s.clearVerified(ctx, claims.UserID)
		return
	}

	subject, err := token.SubjectUnverified(presented)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "logout_token_unreadable",
		}).Warnf("logout: %v", err)
		recordSession("logout", "noop")
		return
	}
	if _, err := uuid.Parse(subject); err != nil {
		recordSession("logout", "noop")
		return
	}

	cleared, err := s.store.SwapRefreshToken(ctx, userdomain.ID(subject), token.Hash(presented), "")
	if err != nil {
		s.logoutFailed(ctx, subject, err)
		return
	}
	s.loggedOut(ctx, subject, cleared)
}

func (s *AuthService) clearVerified(ctx context.Context, userID string) {
	err := s.store.UpdateRefreshToken(ctx, userdomain.ID(userID), "")
	switch {
	case errors.Is(err, userrepo.ErrUserNotFound):
		s.loggedOut(ctx, userID, false)
	case err != nil:
		s.logoutFailed(ctx, userID, err)
	default:
		s.loggedOut(ctx, userID, true)
	}
}

func (s *AuthService) logoutFailed(ctx context.Context, userID string, err error) {
	s.log.WithFields(ctx, logger.Fields{
		"user_id": userID,
		"action":  "logout_clear_failed",
	}).Errorf("logout: failed to clear refresh token: %v", err)
	recordSession("logout", "error")
}

func (s *AuthService) loggedOut(ctx context.Context, userID string, cleared bool) {
	outcome := "noop"
	if cleared {
		outcome = "success"
	}
	s.log.WithFields(ctx, logger.Fields{
		"user_id": userID,
		"cleared": cleared,
		"action":  "logout_" + outcome,
	}).Info("logout")
	recordSession("logout", outcome)
}

func (s *AuthService) RefreshTTL() time.Duration {
	return s.tokens.RefreshTTL()
}

func (s *AuthService) mintPair(user userdomain.User) (token.Issued, token.Issued, error) {
	access, err := s.tokens.MintAccess(string(user.ID), string(user.Role))
	if err != nil {
		return token.Issued{}, token.Issued{}, err
	}
	refresh, err := s.tokens.MintRefresh(string(user.ID))
	if err != nil {
		return token.Issued{}, token.Issued{}, err
	}
	return access, refresh, nil
}

func newSession(user userdomain.User, access, refresh token.Issued) Session {
	return Session{
		AccessToken:      access.Token,
		RefreshToken:     refresh.Token,
		RefreshExpiresAt: refresh.ExpiresAt,
		User: UserView{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	}
}

func hashesEqual(stored, presented string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AlibekovAA/job-board/backend/internal/common/crypto"
	"github.com/AlibekovAA/job-board/backend/internal/common/logger"
	userdomain "github.com/AlibekovAA/job-board/backend/internal/user/domain"
	userrepo "github.com/AlibekovAA/job-board/backend/internal/user/repository"
)

const adminName = "Administrator"

type AdminStore interface {
	FindByEmail(ctx context.Context, email string) (userdomain.User, error)
	Create(ctx context.Context, user userdomain.User) error
}

type AdminSeed struct {
	Email    string
	Password string
}

// EnsureAdmin creates the seeded admin account when it does not exist yet.
// An empty seed is a no-op; an existing account is left untouched.
func EnsureAdmin(
	ctx context.Context,
	store AdminStore,
	hasher crypto.PasswordHasher,
	idGen crypto.IDGenerator,
	seed AdminSeed,
	log *logger.Logger,
) error {
	email := strings.ToLower(strings.TrimSpace(seed.Email))
	if email == "" || seed.Password == "" {
		log.Info("admin seed not configured, skipping")
		return nil
	}

	existing, err := store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != userdomain.RoleAdmin {
			log.WithFields(ctx, logger.Fields{
				"action":  "admin_seed_role_mismatch",
				"user_id": existing.ID,
				"role":    existing.Role,
			}).Warn("seeded admin email belongs to a non-admin account")
		}
		return nil
	case !errors.Is(err, userrepo.ErrUserNotFound):
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := hasher.Hash(seed.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	id, err := idGen.NewID()
	if err != nil {
		return fmt.Errorf("failed to generate admin id: %w", err)
	}

	admin := userdomain.User{
		ID:           userdomain.ID(id),
		Name:         adminName,
		Email:        email,
		PasswordHash: hash,
		Role:         userdomain.RoleAdmin,
	}

	if err := store.Create(ctx, admin); err != nil {
		if errors.Is(err, userrepo.ErrEmailAlreadyExists) {
			return nil
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}

	log.WithFields(ctx, logger.Fields{
		"action":  "admin_seeded",
		"user_id": admin.ID,
	}).Info("admin account created")
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	auditdomain "github.com/AlibekovAA/job-board/backend/internal/audit/domain"
	commonerrors "github.com/AlibekovAA/job-board/backend/internal/common/errors"
	"github.com/AlibekovAA/job-board/backend/internal/common/logger"
	"github.com/AlibekovAA/job-board/backend/internal/common/validation"
	"github.com/AlibekovAA/job-board/backend/internal/user/domain"
	"github.com/AlibekovAA/job-board/backend/internal/user/repository"
)

type Store interface {
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	UpdateProfile(ctx context.Context, user domain.User) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id domain.ID) error
	Count(ctx context.Context) (int, error)
}

type Auditor interface {
	Record(ctx context.Context, action auditdomain.Action, userID, details string)
}

type UserService struct {
	store Store
	audit Auditor
	log   *logger.Logger
}

func NewUserService(store Store, audit Auditor, log *logger.Logger) *UserService {
	return &UserService{store: store, audit: audit, log: log}
}

func (s *UserService) GetMyProfile(ctx context.Context, id domain.ID) (domain.View, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return domain.View{}, err
	}
	if user.Role == domain.RoleAdmin {
		return domain.View{}, ErrAdminHasNoProfile
	}
	return user.View(), nil
}

// UpdateMyProfile applies the set fields of update. Recruiter-only fields
// sent by anyone other than a recruiter fail validation.
func (s *UserService) UpdateMyProfile(ctx context.Context, id domain.ID, update domain.ProfileUpdate) (domain.View, error) {
	if err := validation.Struct(update); err != nil {
		return domain.View{}, err
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return domain.View{}, err
	}
	if user.Role == domain.RoleAdmin {
		return domain.View{}, ErrAdminHasNoProfile
	}
	if user.Role != domain.RoleRecruiter {
		if fields := update.RecruiterFields(); len(fields) > 0 {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": string(id),
				"fields":  fields,
				"action":  "profile_update_rejected",
			}).Warn("recruiter-only fields supplied")
			return domain.View{}, validation.Failed(fields[0], "recruiter_only")
		}
	}

	update.Apply(&user)

	updated, err := s.store.UpdateProfile(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.View{}, commonerrors.ErrUserNotFound
		}
		return domain.View{}, commonerrors.ErrStorageFailure.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(id),
		"action":  "profile_update_success",
	}).Info("profile updated")
	return updated.View(), nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.View, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, commonerrors.ErrStorageFailure.WithCause(err)
	}
	views := make([]domain.View, 0, len(users))
	for _, u := range users {
		views = append(views, u.View())
	}
	return views, nil
}

func (s *UserService) GetUser(ctx context.Context, id domain.ID) (domain.View, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return domain.View{}, err
	}
	return user.View(), nil
}

// DeleteUser removes id. Jobs and applications owned by the user go with it.
func (s *UserService) DeleteUser(ctx context.Context, actor, id domain.ID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return commonerrors.ErrUserNotFound
		}
		return commonerrors.ErrStorageFailure.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id":  string(id),
		"actor_id": string(actor),
		"action":   "user_delete_success",
	}).Info("user deleted")
	s.audit.Record(ctx, auditdomain.ActionUserDeleted, string(actor), fmt.Sprintf("user %s deleted", id))
	return nil
}

func (s *UserService) Count(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, commonerrors.ErrStorageFailure.WithCause(err)
	}
	return n, nil
}

func (s *UserService) find(ctx context.Context, id domain.ID) (domain.User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, commonerrors.ErrUserNotFound
		}
		return domain.User{}, commonerrors.ErrStorageFailure.WithCause(err)
	}
	return user, nil
}

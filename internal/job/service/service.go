package service

import (
	"context"
	"errors"
	"fmt"

	auditdomain "github.com/AlibekovAA/job-board/backend/internal/audit/domain"
	"github.com/AlibekovAA/job-board/backend/internal/common/authguard"
	"github.com/AlibekovAA/job-board/backend/internal/common/clock"
	"github.com/AlibekovAA/job-board/backend/internal/common/constants"
	"github.com/AlibekovAA/job-board/backend/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/job-board/backend/internal/common/errors"
	"github.com/AlibekovAA/job-board/backend/internal/common/logger"
	"github.com/AlibekovAA/job-board/backend/internal/common/validation"
	"github.com/AlibekovAA/job-board/backend/internal/job/domain"
	"github.com/AlibekovAA/job-board/backend/internal/job/repository"
	userdomain "github.com/AlibekovAA/job-board/backend/internal/user/domain"
)

type Auditor interface {
	Record(ctx context.Context, action auditdomain.Action, userID, details string)
}

type JobService struct {
	repo  repository.Repository
	audit Auditor
	idGen crypto.IDGenerator
	clock clock.Clock
	log   *logger.Logger
}

func NewJobService(repo repository.Repository, audit Auditor, idGen crypto.IDGenerator, clk clock.Clock, log *logger.Logger) *JobService {
	return &JobService{repo: repo, audit: audit, idGen: idGen, clock: clk, log: log}
}

func (s *JobService) Create(ctx context.Context, actor authguard.Identity, draft domain.Draft) (domain.Job, error) {
	if err := validation.Struct(draft); err != nil {
		return domain.Job{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return domain.Job{}, commonerrors.ErrInternalError.WithCause(err)
	}

	job := draft.Job(domain.ID(id), actor.UserID, s.clock.Now())
	if err := s.repo.Create(ctx, job); err != nil {
		if errors.Is(err, repository.ErrCreatorNotFound) {
			return domain.Job{}, commonerrors.ErrUnauthenticated.WithCause(err)
		}
		return domain.Job{}, commonerrors.ErrStorageFailure.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"job_id":  id,
		"user_id": string(actor.UserID),
		"action":  "job_create_success",
	}).Info("job created")
	s.audit.Record(ctx, auditdomain.ActionJobCreated, string(actor.UserID), fmt.Sprintf("job %s created: %s", id, job.Title))
	return job, nil
}

// Update changes an owned job. Only the creator may update; there is no
// role bypass.
func (s *JobService) Update(ctx context.Context, actor authguard.Identity, id domain.ID, update domain.Update) (domain.Job, error) {
	if err := validation.Struct(update); err != nil {
		return domain.Job{}, err
	}

	job, err := s.owned(ctx, actor, id, "update")
	if err != nil {
		return domain.Job{}, err
	}

	update.Apply(&job)
	updated, err := s.save(ctx, job)
	if err != nil {
		return domain.Job{}, err
	}

	s.audit.Record(ctx, auditdomain.ActionJobUpdated, string(actor.UserID), fmt.Sprintf("job %s updated", id))
	return updated, nil
}

func (s *JobService) ChangeStatus(ctx context.Context, actor authguard.Identity, id domain.ID, status domain.Status) (domain.Job, error) {
	if status != domain.StatusOpen && status != domain.StatusClosed {
		return domain.Job{}, validation.Failed("status", "oneof")
	}

	job, err := s.owned(ctx, actor, id, "change_status")
	if err != nil {
		return domain.Job{}, err
	}

	job.Status = status
	updated, err := s.save(ctx, job)
	if err != nil {
		return domain.Job{}, err
	}

	s.audit.Record(ctx, auditdomain.ActionJobStatusChanged, string(actor.UserID), fmt.Sprintf("job %s set to %s", id, status))
	return updated, nil
}

// Delete removes a job. The creator may delete it; admins bypass ownership.
func (s *JobService) Delete(ctx context.Context, actor authguard.Identity, id domain.ID) error {
	job, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := authguard.OwnerOrRoles(actor, job.CreatedBy, userdomain.RoleAdmin); err != nil {
		s.denied(ctx, actor, id, "delete")
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return commonerrors.ErrJobNotFound
		}
		return commonerrors.ErrStorageFailure.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"job_id":  string(id),
		"user_id": string(actor.UserID),
		"action":  "job_delete_success",
	}).Info("job deleted")
	s.audit.Record(ctx, auditdomain.ActionJobDeleted, string(actor.UserID), fmt.Sprintf("job %s deleted", id))
	return nil
}

func (s *JobService) ListMine(ctx context.Context, actor authguard.Identity) ([]domain.Job, error) {
	jobs, err := s.repo.ListByCreator(ctx, actor.UserID)
	if err != nil {
		return nil, commonerrors.ErrStorageFailure.WithCause(err)
	}
	return jobs, nil
}

func (s *JobService) Search(ctx context.Context, filter domain.Filter) ([]domain.Listing, error) {
	if err := validation.Struct(filter); err != nil {
		return nil, err
	}
	listings, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, commonerrors.ErrStorageFailure.WithCause(err)
	}
	return listings, nil
}

// Recent returns the newest jobs. limit <= 0 selects the default and values
// above the maximum are clamped.
func (s *JobService) Recent(ctx context.Context, limit int) ([]domain.Job, error) {
	if limit <= 0 {
		limit = constants.DefaultRecentJobsLimit
	}
	if limit > constants.MaxRecentJobsLimit {
		limit = constants.MaxRecentJobsLimit
	}
	jobs, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, commonerrors.ErrStorageFailure.WithCause(err)
	}
	return jobs, nil
}

func (s *JobService) Get(ctx context.Context, id domain.ID) (domain.Listing, error) {
	listing, err := s.repo.GetListing(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return domain.Listing{}, commonerrors.ErrJobNotFound
		}
		return domain.Listing{}, commonerrors.ErrStorageFailure.WithCause(err)
	}
	return listing, nil
}

// Find loads a job without its creator. Other modules use it for ownership
// checks.
func (s *JobService) Find(ctx context.Context, id domain.ID) (domain.Job, error) {
	return s.find(ctx, id)
}

func (s *JobService) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, commonerrors.ErrStorageFailure.WithCause(err)
	}
	return n, nil
}

func (s *JobService) find(ctx context.Context, id domain.ID) (domain.Job, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return domain.Job{}, commonerrors.ErrJobNotFound
		}
		return domain.Job{}, commonerrors.ErrStorageFailure.WithCause(err)
	}
	return job, nil
}

func (s *JobService) owned(ctx context.Context, actor authguard.Identity, id domain.ID, op string) (domain.Job, error) {
	job, err := s.find(ctx, id)
	if err != nil {
		return domain.Job{}, err
	}
	if err := authguard.OwnerOrRoles(actor, job.CreatedBy); err != nil {
		s.denied(ctx, actor, id, op)
		return domain.Job{}, err
	}
	return job, nil
}

func (s *JobService) save(ctx context.Context, job domain.Job) (domain.Job, error) {
	updated, err := s.repo.Update(ctx, job)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return domain.Job{}, commonerrors.ErrJobNotFound
		}
		return domain.Job{}, commonerrors.ErrStorageFailure.WithCause(err)
	}
	return updated, nil
}

func (s *JobService) denied(ctx context.Context, actor authguard.Identity, id domain.ID, op string) {
	s.log.WithFields(ctx, logger.Fields{
		"job_id":  string(id),
		"user_id": string(actor.UserID),
		"action":  "job_" + op + "_forbidden",
	}).Warn("not the job owner")
}

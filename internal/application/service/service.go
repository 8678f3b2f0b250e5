package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AlibekovAA/job-board/backend/internal/application/domain"
	"github.com/AlibekovAA/job-board/backend/internal/application/repository"
	auditdomain "github.com/AlibekovAA/job-board/backend/internal/audit/domain"
	"github.com/AlibekovAA/job-board/backend/internal/common/authguard"
	"github.com/AlibekovAA/job-board/backend/internal/common/clock"
	"github.com/AlibekovAA/job-board/backend/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/job-board/backend/internal/common/errors"
	"github.com/AlibekovAA/job-board/backend/internal/common/logger"
	"github.com/AlibekovAA/job-board/backend/internal/common/validation"
	jobdomain "github.com/AlibekovAA/job-board/backend/internal/job/domain"
	userdomain "github.com/AlibekovAA/job-board/backend/internal/user/domain"
)

// JobFinder loads a job or returns commonerrors.ErrJobNotFound.
type JobFinder interface {
	Find(ctx context.Context, id jobdomain.ID) (jobdomain.Job, error)
}

type Auditor interface {
	Record(ctx context.Context, action auditdomain.Action, userID, details string)
}

type ApplicationService struct {
	repo  repository.Repository
	jobs  JobFinder
	audit Auditor
	idGen crypto.IDGenerator
	clock clock.Clock
	log   *logger.Logger
}

func NewApplicationService(
	repo repository.Repository,
	jobs JobFinder,
	audit Auditor,
	idGen crypto.IDGenerator,
	clk clock.Clock,
	log *logger.Logger,
) *ApplicationService {
	return &ApplicationService{repo: repo, jobs: jobs, audit: audit, idGen: idGen, clock: clk, log: log}
}

func (s *ApplicationService) Apply(ctx context.Context, actor authguard.Identity, jobID jobdomain.ID, req domain.ApplyRequest) (domain.Application, error) {
	req.ResumeURL = strings.TrimSpace(req.ResumeURL)
	if err := validation.Struct(req); err != nil {
		return domain.Application{}, err
	}

	if _, err := s.jobs.Find(ctx, jobID); err != nil {
		return domain.Application{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return domain.Application{}, commonerrors.ErrInternalError.WithCause(err)
	}

	now := s.clock.Now()
	app := domain.Application{
		ID:          domain.ID(id),
		JobID:       jobID,
		ApplicantID: actor.UserID,
		ResumeURL:   req.ResumeURL,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, app); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyApplied):
			s.log.WithFields(ctx, logger.Fields{
				"job_id":  string(jobID),
				"user_id": string(actor.UserID),
				"action":  "apply_duplicate",
			}).Info("already applied")
			return domain.Application{}, ErrAlreadyApplied
		case errors.Is(err, repository.ErrJobNotFound):
			return domain.Application{}, commonerrors.ErrJobNotFound
		}
		return domain.Application{}, commonerrors.ErrStorageFailure.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"job_id":         string(jobID),
		"user_id":        string(actor.UserID),
		"application_id": id,
		"action":         "apply_success",
	}).Info("application submitted")
	return app, nil
}

func (s *ApplicationService) ListMine(ctx context.Context, actor authguard.Identity) ([]domain.Detail, error) {
	details, err := s.repo.ListByApplicant(ctx, actor.UserID)
	if err != nil {
		return nil, commonerrors.ErrStorageFailure.WithCause(err)
	}
	return details, nil
}

// Withdraw deletes an application. The applicant may withdraw it; admins
// bypass ownership.
func (s *ApplicationService) Withdraw(ctx context.Context, actor authguard.Identity, id domain.ID) error {
	app, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := authguard.OwnerOrRoles(actor, app.ApplicantID, userdomain.RoleAdmin); err != nil {
		s.denied(ctx, actor, string(id), "withdraw")
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return commonerrors.ErrApplicationNotFound
		}
		return commonerrors.ErrStorageFailure.WithCause(err)
	}

	s.audit.Record(ctx, auditdomain.ActionApplicationRemoved, string(actor.UserID),
		fmt.Sprintf("application %s for job %s withdrawn", id, app.JobID))
	return nil
}

func (s *ApplicationService) Status(ctx context.Context, actor authguard.Identity, jobID jobdomain.ID) (domain.AppliedStatus, error) {
	app, err := s.repo.FindByJobAndApplicant(ctx, jobID, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return domain.AppliedStatus{Applied: false}, nil
		}
		return domain.AppliedStatus{}, commonerrors.ErrStorageFailure.WithCause(err)
	}
	return domain.AppliedStatus{Applied: true, Status: &app.Status, ApplicationID: &app.ID}, nil
}

// ListForJob returns the applications to a job. Only the job's creator may
// see them.
func (s *ApplicationService) ListForJob(ctx context.Context, actor authguard.Identity, jobID jobdomain.ID) ([]domain.Detail, error) {
	job, err := s.jobs.Find(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := authguard.OwnerOrRoles(actor, job.CreatedBy); err != nil {
		s.denied(ctx, actor, string(jobID), "list_for_job")
		return nil, err
	}

	details, err := s.repo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, commonerrors.ErrStorageFailure.WithCause(err)
	}
	return details, nil
}

// UpdateStatus accepts or rejects an application. Only the creator of the
// application's job may do so.
func (s *ApplicationService) UpdateStatus(ctx context.Context, actor authguard.Identity, id domain.ID, req domain.StatusRequest) (domain.Application, error) {
	if err := validation.Struct(req); err != nil {
		return domain.Application{}, err
	}

	app, err := s.find(ctx, id)
	if err != nil {
		return domain.Application{}, err
	}
	job, err := s.jobs.Find(ctx, app.JobID)
	if err != nil {
		return domain.Application{}, err
	}
	if err := authguard.OwnerOrRoles(actor, job.CreatedBy); err != nil {
		s.denied(ctx, actor, string(id), "update_status")
		return domain.Application{}, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return domain.Application{}, commonerrors.ErrApplicationNotFound
		}
		return domain.Application{}, commonerrors.ErrStorageFailure.WithCause(err)
	}

	s.audit.Record(ctx, auditdomain.ActionApplicationStatus, string(actor.UserID),
		fmt.Sprintf("application %s set to %s", id, req.Status))
	return updated, nil
}

func (s *ApplicationService) ListAll(ctx context.Context) ([]domain.Detail, error) {
	details, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, commonerrors.ErrStorageFailure.WithCause(err)
	}
	return details, nil
}

// ListByUser returns a user's applications. Admins see all of them;
// recruiters see only those made to their own jobs.
func (s *ApplicationService) ListByUser(ctx context.Context, actor authguard.Identity, userID userdomain.ID) ([]domain.Detail, error) {
	details, err := s.repo.ListByApplicant(ctx, userID)
	if err != nil {
		return nil, commonerrors.ErrStorageFailure.WithCause(err)
	}
	if actor.Role == userdomain.RoleAdmin {
		return details, nil
	}

	visible := make([]domain.Detail, 0, len(details))
	for _, d := range details {
		if d.Job.CreatedBy == actor.UserID {
			visible = append(visible, d)
		}
	}
	return visible, nil
}

func (s *ApplicationService) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, commonerrors.ErrStorageFailure.WithCause(err)
	}
	return n, nil
}

func (s *ApplicationService) find(ctx context.Context, id domain.ID) (domain.Application, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return domain.Application{}, commonerrors.ErrApplicationNotFound
		}
		return domain.Application{}, commonerrors.ErrStorageFailure.WithCause(err)
	}
	return app, nil
}

func (s *ApplicationService) denied(ctx context.Context, actor authguard.Identity, target, op string) {
	s.log.WithFields(ctx, logger.Fields{
		"target":  target,
		"user_id": string(actor.UserID),
		"action":  "application_" + op + "_forbidden",
	}).Warn("access denied")
}

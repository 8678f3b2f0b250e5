package service

import (
	"context"

	"github.com/AlibekovAA/job-board/backend/internal/audit/domain"
	"github.com/AlibekovAA/job-board/backend/internal/audit/repository"
	"github.com/AlibekovAA/job-board/backend/internal/common/clock"
	"github.com/AlibekovAA/job-board/backend/internal/common/constants"
	"github.com/AlibekovAA/job-board/backend/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/job-board/backend/internal/common/errors"
	"github.com/AlibekovAA/job-board/backend/internal/common/logger"
	"github.com/AlibekovAA/job-board/backend/internal/observability/metrics"
)

type Recorder struct {
	repo  repository.Repository
	idGen crypto.IDGenerator
	clock clock.Clock
	log   *logger.Logger
}

func NewRecorder(repo repository.Repository, idGen crypto.IDGenerator, clk clock.Clock, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, idGen: idGen, clock: clk, log: log}
}

// Record stores an audit entry. A failure is logged and counted; the caller's
// operation has already succeeded and is not affected.
func (r *Recorder) Record(ctx context.Context, action domain.Action, userID, details string) {
	id, err := r.idGen.NewID()
	if err != nil {
		r.fail(ctx, action, err)
		return
	}

	entry := domain.Entry{
		ID:        id,
		Action:    action,
		UserID:    userID,
		Details:   details,
		CreatedAt: r.clock.Now(),
	}
	if err := r.repo.Insert(ctx, entry); err != nil {
		r.fail(ctx, action, err)
	}
}

func (r *Recorder) fail(ctx context.Context, action domain.Action, err error) {
	metrics.AuditRecordFailures.Inc()
	r.log.WithFields(ctx, logger.Fields{
		"action":       "audit_record_failed",
		"audit_action": string(action),
	}).Errorf("failed to record audit entry: %v", err)
}

// List returns the newest entries first. limit is clamped to
// [1, MaxAuditLogLimit]; zero or less selects the default.
func (r *Recorder) List(ctx context.Context, limit int) ([]domain.Entry, error) {
	if limit <= 0 {
		limit = constants.DefaultAuditLogLimit
	}
	if limit > constants.MaxAuditLogLimit {
		limit = constants.MaxAuditLogLimit
	}

	entries, err := r.repo.List(ctx, limit)
	if err != nil {
		return nil, commonerrors.ErrStorageFailure.WithCause(err)
	}
	return entries, nil
}

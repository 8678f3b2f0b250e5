package service

import (
	"context"

	"github.com/AlibekovAA/job-board/backend/internal/common/logger"
)

type Counter interface {
	Count(ctx context.Context) (int, error)
}

type Stats struct {
	TotalJobs         int `json:"totalJobs"`
	TotalUsers        int `json:"totalUsers"`
	TotalApplications int `json:"totalApplications"`
}

type AdminService struct {
	jobs         Counter
	users        Counter
	applications Counter
	log          *logger.Logger
}

func NewAdminService(jobs, users, applications Counter, log *logger.Logger) *AdminService {
	return &AdminService{jobs: jobs, users: users, applications: applications, log: log}
}

// Stats counts each table independently; the totals are not a consistent
// snapshot.
func (s *AdminService) Stats(ctx context.Context) (Stats, error) {
	var (
		stats Stats
		err   error
	)
	if stats.TotalJobs, err = s.jobs.Count(ctx); err != nil {
		return Stats{}, s.fail(ctx, "jobs", err)
	}
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return Stats{}, s.fail(ctx, "users", err)
	}
	if stats.TotalApplications, err = s.applications.Count(ctx); err != nil {
		return Stats{}, s.fail(ctx, "applications", err)
	}
	return stats, nil
}

func (s *AdminService) fail(ctx context.Context, table string, err error) error {
	s.log.WithFields(ctx, logger.Fields{
		"table":  table,
		"action": "admin_stats_failed",
	}).Errorf("failed to count %s: %v", table, err)
	return err
}

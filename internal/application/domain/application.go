package domain

import (
	"time"

	jobdomain "github.com/AlibekovAA/job-board/backend/internal/job/domain"
	userdomain "github.com/AlibekovAA/job-board/backend/internal/user/domain"
)

type ID string

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

type Application struct {
	ID          ID            `json:"id"`
	JobID       jobdomain.ID  `json:"jobId"`
	ApplicantID userdomain.ID `json:"applicantId"`
	ResumeURL   string        `json:"resumeUrl"`
	Status      Status        `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// JobSummary is the part of a job shown next to an application.
type JobSummary struct {
	ID        jobdomain.ID  `json:"id"`
	Title     string        `json:"title"`
	Company   string        `json:"company"`
	Location  string        `json:"location"`
	CreatedBy userdomain.ID `json:"createdBy"`
}

// Detail is an application with its job and applicant.
type Detail struct {
	Application
	Job       JobSummary         `json:"job"`
	Applicant userdomain.Summary `json:"applicant"`
}

type ApplyRequest struct {
	ResumeURL string `json:"resumeUrl" validate:"required,max=2048"`
}

type StatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=pending accepted rejected"`
}

// AppliedStatus answers whether the caller applied to a job.
type AppliedStatus struct {
	Applied       bool    `json:"applied"`
	Status        *Status `json:"status"`
	ApplicationID *ID     `json:"applicationId,omitempty"`
}

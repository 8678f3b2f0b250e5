package domain

import "time"

type Action string

const (
	ActionJobCreated         Action = "job_created"
	ActionJobUpdated         Action = "job_updated"
	ActionJobDeleted         Action = "job_deleted"
	ActionJobStatusChanged   Action = "job_status_changed"
	ActionApplicationStatus  Action = "application_status_changed"
	ActionApplicationRemoved Action = "application_withdrawn"
	ActionUserDeleted        Action = "user_deleted"
)

// Entry is one audit log row. UserID is the acting user; it is kept after
// that user is deleted.
type Entry struct {
	ID        string    `json:"id"`
	Action    Action    `json:"action"`
	UserID    string    `json:"userId"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
}

package domain

import (
	"strings"
	"time"

	userdomain "github.com/AlibekovAA/job-board/backend/internal/user/domain"
)

type ID string

type ExperienceLevel string

const (
	LevelEntry  ExperienceLevel = "entry"
	LevelMid    ExperienceLevel = "mid"
	LevelSenior ExperienceLevel = "senior"
)

type Type string

const (
	TypeFullTime   Type = "full-time"
	TypePartTime   Type = "part-time"
	TypeInternship Type = "internship"
	TypeContract   Type = "contract"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

type Job struct {
	ID              ID              `json:"id"`
	Title           string          `json:"title"`
	Company         string          `json:"company"`
	Description     string          `json:"description"`
	Location        string          `json:"location"`
	Salary          *float64        `json:"salary,omitempty"`
	Tags            []string        `json:"tags"`
	Skills          []string        `json:"skills"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel"`
	JobType         Type            `json:"jobType"`
	Status          Status          `json:"status"`
	CreatedBy       userdomain.ID   `json:"createdBy"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Listing is a job with its creator's public details.
type Listing struct {
	Job
	Creator userdomain.Summary `json:"creator"`
}

// Draft is the body of a create request. Empty enums take their defaults.
type Draft struct {
	Title           string          `json:"title" validate:"required,max=200"`
	Company         string          `json:"company" validate:"required,max=200"`
	Description     string          `json:"description" validate:"max=10000"`
	Location        string          `json:"location" validate:"max=200"`
	Salary          *float64        `json:"salary" validate:"omitempty,gte=0"`
	Tags            []string        `json:"tags" validate:"max=50,dive,max=100"`
	Skills          []string        `json:"skills" validate:"max=50,dive,max=100"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel" validate:"omitempty,oneof=entry mid senior"`
	JobType         Type            `json:"jobType" validate:"omitempty,oneof=full-time part-time internship contract"`
	Status          Status          `json:"status" validate:"omitempty,oneof=open closed"`
}

func (d Draft) Job(id ID, owner userdomain.ID, now time.Time) Job {
	j := Job{
		ID:              id,
		Title:           strings.TrimSpace(d.Title),
		Company:         strings.TrimSpace(d.Company),
		Description:     d.Description,
		Location:        strings.TrimSpace(d.Location),
		Salary:          d.Salary,
		Tags:            nonNil(d.Tags),
		Skills:          nonNil(d.Skills),
		ExperienceLevel: d.ExperienceLevel,
		JobType:         d.JobType,
		Status:          d.Status,
		CreatedBy:       owner,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if j.ExperienceLevel == "" {
		j.ExperienceLevel = LevelEntry
	}
	if j.JobType == "" {
		j.JobType = TypeFullTime
	}
	if j.Status == "" {
		j.Status = StatusOpen
	}
	return j
}

// Update lists the fields an owner may change. Nil means unchanged; id,
// owner and timestamps are not editable.
type Update struct {
	Title           *string          `json:"title" validate:"omitempty,min=1,max=200"`
	Company         *string          `json:"company" validate:"omitempty,min=1,max=200"`
	Description     *string          `json:"description" validate:"omitempty,max=10000"`
	Location        *string          `json:"location" validate:"omitempty,max=200"`
	Salary          *float64         `json:"salary" validate:"omitempty,gte=0"`
	Tags            *[]string        `json:"tags" validate:"omitempty,max=50,dive,max=100"`
	Skills          *[]string        `json:"skills" validate:"omitempty,max=50,dive,max=100"`
	ExperienceLevel *ExperienceLevel `json:"experienceLevel" validate:"omitempty,oneof=entry mid senior"`
	JobType         *Type            `json:"jobType" validate:"omitempty,oneof=full-time part-time internship contract"`
	Status          *Status          `json:"status" validate:"omitempty,oneof=open closed"`
}

func (u Update) Apply(j *Job) {
	if u.Title != nil {
		j.Title = strings.TrimSpace(*u.Title)
	}
	if u.Company != nil {
		j.Company = strings.TrimSpace(*u.Company)
	}
	if u.Description != nil {
		j.Description = *u.Description
	}
	if u.Location != nil {
		j.Location = strings.TrimSpace(*u.Location)
	}
	if u.Salary != nil {
		salary := *u.Salary
		j.Salary = &salary
	}
	if u.Tags != nil {
		j.Tags = nonNil(*u.Tags)
	}
	if u.Skills != nil {
		j.Skills = nonNil(*u.Skills)
	}
	if u.ExperienceLevel != nil {
		j.ExperienceLevel = *u.ExperienceLevel
	}
	if u.JobType != nil {
		j.JobType = *u.JobType
	}
	if u.Status != nil {
		j.Status = *u.Status
	}
}

// Filter narrows a search. Zero values match everything.
type Filter struct {
	Query           string
	Location        string
	Company         string
	Tags            []string
	Skills          []string
	ExperienceLevel ExperienceLevel `validate:"omitempty,oneof=entry mid senior"`
}

// SplitList parses a comma separated query value. Blank items are dropped.
func SplitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

package service

import (
	"strings"

	"github.com/AlibekovAA/job-board/backend/internal/common/constants"
	"github.com/AlibekovAA/job-board/backend/internal/common/validation"
	userdomain "github.com/AlibekovAA/job-board/backend/internal/user/domain"
)

type RegisterInput struct {
	Name     string          `json:"name" validate:"required,min=1,max=100"`
	Email    string          `json:"email" validate:"required,email,max=254"`
	Password string          `json:"password" validate:"required,min=8,max=72"`
	Role     userdomain.Role `json:"role" validate:"omitempty,oneof=job-seeker recruiter"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (in *RegisterInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if in.Role == "" {
		in.Role = userdomain.RoleJobSeeker
	}
}

func (in RegisterInput) validate() error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	// bcrypt reads at most 72 bytes; the rune count above is not enough.
	if len(in.Password) > constants.PasswordMaxLength {
		return validation.Failed("password", "max")
	}
	return nil
}

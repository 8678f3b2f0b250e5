package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/job-board/backend/internal/common/errors"
)

var ErrAlreadyApplied = commonerrors.NewDomainError(
	"ALREADY_APPLIED",
	commonerrors.CategoryConflict,
	http.StatusConflict,
	"you have already applied to this job",
)

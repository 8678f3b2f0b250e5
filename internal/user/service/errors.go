package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/job-board/backend/internal/common/errors"
)

var ErrAdminHasNoProfile = commonerrors.NewDomainError(
	"ADMIN_HAS_NO_PROFILE",
	commonerrors.CategoryForbidden,
	http.StatusForbidden,
	"admins do not have a profile",
)

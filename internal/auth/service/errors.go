package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/job-board/backend/internal/common/errors"
)

var (
	ErrDuplicateEmail = commonerrors.NewDomainError(
		"DUPLICATE_EMAIL",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"email already registered",
	)

	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid email or password",
	)

	ErrMissingRefreshToken = commonerrors.NewDomainError(
		"MISSING_REFRESH_TOKEN",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"refresh token required",
	)

	ErrRefreshForbidden = commonerrors.NewDomainError(
		"INVALID_REFRESH_TOKEN",
		commonerrors.CategoryForbidden,
		http.StatusForbidden,
		"refresh token is invalid or no longer active",
	)
)

func storageFailure(err error) error {
	return commonerrors.ErrStorageFailure.WithCause(err)
}

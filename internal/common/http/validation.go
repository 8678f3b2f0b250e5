package http

import (
	"fmt"

	"github.com/google/uuid"

	commonerrors "github.com/AlibekovAA/job-board/backend/internal/common/errors"
)

// PathUUID validates a path segment taken from r.PathValue.
func PathUUID(name, value string) (string, error) {
	if value == "" {
		return "", commonerrors.ErrInvalidID.WithCause(fmt.Errorf("%s is empty", name))
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return "", commonerrors.ErrInvalidID.WithCause(err).WithDetails(map[string]any{"param": name})
	}
	return id.String(), nil
}

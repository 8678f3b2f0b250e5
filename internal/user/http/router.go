package http

import (
	"context"
	"net/http"
	"time"

	"github.com/AlibekovAA/job-board/backend/internal/common/authguard"
	"github.com/AlibekovAA/job-board/backend/internal/common/constants"
	commonerrors "github.com/AlibekovAA/job-board/backend/internal/common/errors"
	commonhttp "github.com/AlibekovAA/job-board/backend/internal/common/http"
	"github.com/AlibekovAA/job-board/backend/internal/common/logger"
	"github.com/AlibekovAA/job-board/backend/internal/user/domain"
)

type ProfileService interface {
	GetMyProfile(ctx context.Context, id domain.ID) (domain.View, error)
	UpdateMyProfile(ctx context.Context, id domain.ID, update domain.ProfileUpdate) (domain.View, error)
}

type Handler struct {
	profiles ProfileService
	guard    authguard.Protector
	timeout  time.Duration
	log      *logger.Logger
}

func NewHandler(profiles ProfileService, guard authguard.Protector, timeout time.Duration, log *logger.Logger) *Handler {
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}
	return &Handler{profiles: profiles, guard: guard, timeout: timeout, log: log}
}

func (h *Handler) Register(mux *http.ServeMux) {
	withTimeout := commonhttp.WithTimeout(h.timeout)
	mux.Handle("GET /api/users/me", h.guard.Protect(withTimeout(h.getMe)))
	mux.Handle("PUT /api/users/me", h.guard.Protect(withTimeout(h.updateMe)))
}

func (h *Handler) getMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := authguard.FromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, commonerrors.ErrUnauthenticated, h.log)
		return
	}

	view, err := h.profiles.GetMyProfile(r.Context(), identity.UserID)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := authguard.FromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, commonerrors.ErrUnauthenticated, h.log)
		return
	}

	var update domain.ProfileUpdate
	if err := commonhttp.DecodeJSON(r, &update); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	view, err := h.profiles.UpdateMyProfile(r.Context(), identity.UserID, update)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, view)
}

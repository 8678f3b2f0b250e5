package http

import (
	"context"
	"net/http"
	"time"

	"github.com/AlibekovAA/job-board/backend/internal/application/domain"
	"github.com/AlibekovAA/job-board/backend/internal/common/authguard"
	"github.com/AlibekovAA/job-board/backend/internal/common/constants"
	commonerrors "github.com/AlibekovAA/job-board/backend/internal/common/errors"
	commonhttp "github.com/AlibekovAA/job-board/backend/internal/common/http"
	"github.com/AlibekovAA/job-board/backend/internal/common/logger"
	jobdomain "github.com/AlibekovAA/job-board/backend/internal/job/domain"
	userdomain "github.com/AlibekovAA/job-board/backend/internal/user/domain"
)

type ApplicationService interface {
	Apply(ctx context.Context, actor authguard.Identity, jobID jobdomain.ID, req domain.ApplyRequest) (domain.Application, error)
	ListMine(ctx context.Context, actor authguard.Identity) ([]domain.Detail, error)
	Withdraw(ctx context.Context, actor authguard.Identity, id domain.ID) error
	Status(ctx context.Context, actor authguard.Identity, jobID jobdomain.ID) (domain.AppliedStatus, error)
	ListForJob(ctx context.Context, actor authguard.Identity, jobID jobdomain.ID) ([]domain.Detail, error)
	UpdateStatus(ctx context.Context, actor authguard.Identity, id domain.ID, req domain.StatusRequest) (domain.Application, error)
	ListByUser(ctx context.Context, actor authguard.Identity, userID userdomain.ID) ([]domain.Detail, error)
}

type applyResponse struct {
	Application domain.Application `json:"application"`
}

type statusResponse struct {
	Message     string             `json:"message"`
	Application domain.Application `json:"application"`
}

type Handler struct {
	apps    ApplicationService
	guard   authguard.Protector
	timeout time.Duration
	log     *logger.Logger
}

func NewHandler(apps ApplicationService, guard authguard.Protector, timeout time.Duration, log *logger.Logger) *Handler {
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}
	return &Handler{apps: apps, guard: guard, timeout: timeout, log: log}
}

func (h *Handler) Register(mux *http.ServeMux) {
	t := commonhttp.WithTimeout(h.timeout)
	seeker := userdomain.RoleJobSeeker
	recruiter := userdomain.RoleRecruiter
	admin := userdomain.RoleAdmin

	mux.Handle("POST /api/apply/{jobId}", h.guard.Protect(t(h.apply), seeker))
	mux.Handle("GET /api/apply/my", h.guard.Protect(t(h.listMine), seeker))
	mux.Handle("GET /api/apply/{jobId}/status", h.guard.Protect(t(h.status), seeker))
	mux.Handle("GET /api/apply/{jobId}/applications", h.guard.Protect(t(h.listForJob), recruiter))
	mux.Handle("GET /api/apply/users/{userId}/applications", h.guard.Protect(t(h.listByUser), recruiter, admin))
	mux.Handle("DELETE /api/apply/{id}", h.guard.Protect(t(h.withdraw), seeker, admin))
	mux.Handle("PUT /api/apply/{id}/status", h.guard.Protect(t(h.updateStatus), recruiter))
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request) {
	identity, jobID, ok := h.identityAndID(w, r, "jobId")
	if !ok {
		return
	}

	var req domain.ApplyRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	app, err := h.apps.Apply(r.Context(), identity, jobdomain.ID(jobID), req)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusCreated, applyResponse{Application: app})
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := authguard.FromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, commonerrors.ErrUnauthenticated, h.log)
		return
	}

	details, err := h.apps.ListMine(r.Context(), identity)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, details)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	identity, jobID, ok := h.identityAndID(w, r, "jobId")
	if !ok {
		return
	}

	status, err := h.apps.Status(r.Context(), identity, jobdomain.ID(jobID))
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) listForJob(w http.ResponseWriter, r *http.Request) {
	identity, jobID, ok := h.identityAndID(w, r, "jobId")
	if !ok {
		return
	}

	details, err := h.apps.ListForJob(r.Context(), identity, jobdomain.ID(jobID))
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, details)
}

func (h *Handler) listByUser(w http.ResponseWriter, r *http.Request) {
	identity, userID, ok := h.identityAndID(w, r, "userId")
	if !ok {
		return
	}

	details, err := h.apps.ListByUser(r.Context(), identity, userdomain.ID(userID))
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, details)
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndID(w, r, "id")
	if !ok {
		return
	}

	if err := h.apps.Withdraw(r.Context(), identity, domain.ID(id)); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteMessage(w, http.StatusOK, "Application withdrawn successfully")
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndID(w, r, "id")
	if !ok {
		return
	}

	var req domain.StatusRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	app, err := h.apps.UpdateStatus(r.Context(), identity, domain.ID(id), req)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, statusResponse{Message: "Application status updated", Application: app})
}

func (h *Handler) identityAndID(w http.ResponseWriter, r *http.Request, param string) (authguard.Identity, string, bool) {
	identity, ok := authguard.FromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, commonerrors.ErrUnauthenticated, h.log)
		return authguard.Identity{}, "", false
	}
	id, err := commonhttp.PathUUID(param, r.PathValue(param))
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return authguard.Identity{}, "", false
	}
	return identity, id, true
}

package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	admin "github.com/AlibekovAA/job-board/backend/internal/admin/service"
	appdomain "github.com/AlibekovAA/job-board/backend/internal/application/domain"
	auditdomain "github.com/AlibekovAA/job-board/backend/internal/audit/domain"
	"github.com/AlibekovAA/job-board/backend/internal/common/authguard"
	"github.com/AlibekovAA/job-board/backend/internal/common/constants"
	commonerrors "github.com/AlibekovAA/job-board/backend/internal/common/errors"
	commonhttp "github.com/AlibekovAA/job-board/backend/internal/common/http"
	"github.com/AlibekovAA/job-board/backend/internal/common/logger"
	jobdomain "github.com/AlibekovAA/job-board/backend/internal/job/domain"
	jobhttp "github.com/AlibekovAA/job-board/backend/internal/job/http"
	userdomain "github.com/AlibekovAA/job-board/backend/internal/user/domain"
)

type StatsService interface {
	Stats(ctx context.Context) (admin.Stats, error)
}

type UserAdmin interface {
	ListUsers(ctx context.Context) ([]userdomain.View, error)
	GetUser(ctx context.Context, id userdomain.ID) (userdomain.View, error)
	DeleteUser(ctx context.Context, actor, id userdomain.ID) error
}

type JobAdmin interface {
	Search(ctx context.Context, filter jobdomain.Filter) ([]jobdomain.Listing, error)
	Get(ctx context.Context, id jobdomain.ID) (jobdomain.Listing, error)
	Delete(ctx context.Context, actor authguard.Identity, id jobdomain.ID) error
}

type ApplicationAdmin interface {
	ListAll(ctx context.Context) ([]appdomain.Detail, error)
}

type AuditLog interface {
	List(ctx context.Context, limit int) ([]auditdomain.Entry, error)
}

type Services struct {
	Stats        StatsService
	Users        UserAdmin
	Jobs         JobAdmin
	Applications ApplicationAdmin
	Audit        AuditLog
}

type statsResponse struct {
	Message string      `json:"message"`
	Stats   admin.Stats `json:"stats"`
}

type Handler struct {
	svc     Services
	guard   authguard.Protector
	timeout time.Duration
	log     *logger.Logger
}

func NewHandler(svc Services, guard authguard.Protector, timeout time.Duration, log *logger.Logger) *Handler {
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}
	return &Handler{svc: svc, guard: guard, timeout: timeout, log: log}
}

func (h *Handler) Register(mux *http.ServeMux) {
	t := commonhttp.WithTimeout(h.timeout)
	route := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, h.guard.Protect(t(fn), userdomain.RoleAdmin))
	}

	route("GET /api/admin/users", h.listUsers)
	route("GET /api/admin/users/{id}", h.getUser)
	route("DELETE /api/admin/users/{id}", h.deleteUser)
	route("GET /api/admin/jobs", h.listJobs)
	route("GET /api/admin/jobs/{id}", h.getJob)
	route("DELETE /api/admin/jobs/{id}", h.deleteJob)
	route("GET /api/admin/applications", h.listApplications)
	route("GET /api/admin/stats", h.stats)
	route("GET /api/admin/audit-logs", h.auditLogs)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Users.ListUsers(r.Context())
	h.respond(w, r, users, err)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	user, err := h.svc.Users.GetUser(r.Context(), userdomain.ID(id))
	h.respond(w, r, user, err)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := authguard.FromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, commonerrors.ErrUnauthenticated, h.log)
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Users.DeleteUser(r.Context(), identity.UserID, userdomain.ID(id)); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteMessage(w, http.StatusOK, "User deleted successfully")
}

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.svc.Jobs.Search(r.Context(), jobhttp.FilterFromQuery(r))
	h.respond(w, r, jobs, err)
}

func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	job, err := h.svc.Jobs.Get(r.Context(), jobdomain.ID(id))
	h.respond(w, r, job, err)
}

func (h *Handler) deleteJob(w http.ResponseWriter, r *http.Request) {
	identity, ok := authguard.FromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, commonerrors.ErrUnauthenticated, h.log)
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Jobs.Delete(r.Context(), identity, jobdomain.ID(id)); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteMessage(w, http.StatusOK, "Job deleted successfully")
}

func (h *Handler) listApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.Applications.ListAll(r.Context())
	h.respond(w, r, apps, err)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats.Stats(r.Context())
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, statsResponse{
		Message: "Dashboard stats retrieved successfully",
		Stats:   stats,
	})
}

func (h *Handler) auditLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.svc.Audit.List(r.Context(), limit)
	h.respond(w, r, entries, err)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := commonhttp.PathUUID("id", r.PathValue("id"))
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return "", false
	}
	return id, true
}

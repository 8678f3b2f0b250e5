package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/AlibekovAA/job-board/backend/internal/common/authguard"
	"github.com/AlibekovAA/job-board/backend/internal/common/constants"
	commonerrors "github.com/AlibekovAA/job-board/backend/internal/common/errors"
	commonhttp "github.com/AlibekovAA/job-board/backend/internal/common/http"
	"github.com/AlibekovAA/job-board/backend/internal/common/logger"
	"github.com/AlibekovAA/job-board/backend/internal/job/domain"
	userdomain "github.com/AlibekovAA/job-board/backend/internal/user/domain"
)

type JobService interface {
	Create(ctx context.Context, actor authguard.Identity, draft domain.Draft) (domain.Job, error)
	Update(ctx context.Context, actor authguard.Identity, id domain.ID, update domain.Update) (domain.Job, error)
	ChangeStatus(ctx context.Context, actor authguard.Identity, id domain.ID, status domain.Status) (domain.Job, error)
	Delete(ctx context.Context, actor authguard.Identity, id domain.ID) error
	ListMine(ctx context.Context, actor authguard.Identity) ([]domain.Job, error)
	Search(ctx context.Context, filter domain.Filter) ([]domain.Listing, error)
	Recent(ctx context.Context, limit int) ([]domain.Job, error)
	Get(ctx context.Context, id domain.ID) (domain.Listing, error)
}

type recentResponse struct {
	Jobs []domain.Job `json:"jobs"`
}

type statusRequest struct {
	Status domain.Status `json:"status"`
}

type statusResponse struct {
	Message string     `json:"message"`
	Job     domain.Job `json:"job"`
}

type Handler struct {
	jobs    JobService
	guard   authguard.Protector
	timeout time.Duration
	log     *logger.Logger
}

func NewHandler(jobs JobService, guard authguard.Protector, timeout time.Duration, log *logger.Logger) *Handler {
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}
	return &Handler{jobs: jobs, guard: guard, timeout: timeout, log: log}
}

func (h *Handler) Register(mux *http.ServeMux) {
	t := commonhttp.WithTimeout(h.timeout)
	recruiter := userdomain.RoleRecruiter

	mux.HandleFunc("GET /api/jobs/all", t(h.search))
	mux.HandleFunc("GET /api/jobs/recent", t(h.recent))
	mux.HandleFunc("GET /api/jobs/{id}", t(h.get))

	mux.Handle("POST /api/jobs", h.guard.Protect(t(h.create), recruiter))
	mux.Handle("GET /api/jobs/myjobs", h.guard.Protect(t(h.listMine), recruiter))
	mux.Handle("PUT /api/jobs/{id}", h.guard.Protect(t(h.update), recruiter))
	mux.Handle("DELETE /api/jobs/{id}", h.guard.Protect(t(h.delete), recruiter))
	mux.Handle("PUT /api/jobs/{id}/status", h.guard.Protect(t(h.changeStatus), recruiter))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.log)
	if !ok {
		return
	}

	var draft domain.Draft
	if err := commonhttp.DecodeJSON(r, &draft); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	job, err := h.jobs.Create(r.Context(), identity, draft)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusCreated, job)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.log)
	if !ok {
		return
	}
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}

	var update domain.Update
	if err := commonhttp.DecodeJSON(r, &update); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	job, err := h.jobs.Update(r.Context(), identity, id, update)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, job)
}

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.log)
	if !ok {
		return
	}
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	job, err := h.jobs.ChangeStatus(r.Context(), identity, id, req.Status)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, statusResponse{Message: "Status updated", Job: job})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.log)
	if !ok {
		return
	}
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}

	if err := h.jobs.Delete(r.Context(), identity, id); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteMessage(w, http.StatusOK, "Job deleted successfully")
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.log)
	if !ok {
		return
	}

	jobs, err := h.jobs.ListMine(r.Context(), identity)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, jobs)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	listings, err := h.jobs.Search(r.Context(), FilterFromQuery(r))
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, listings)
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	jobs, err := h.jobs.Recent(r.Context(), limit)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, recentResponse{Jobs: jobs})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}

	listing, err := h.jobs.Get(r.Context(), id)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, listing)
}

func (h *Handler) jobID(w http.ResponseWriter, r *http.Request) (domain.ID, bool) {
	id, err := commonhttp.PathUUID("id", r.PathValue("id"))
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return "", false
	}
	return domain.ID(id), true
}

// FilterFromQuery reads the search parameters shared by the public and
// admin job listings.
func FilterFromQuery(r *http.Request) domain.Filter {
	q := r.URL.Query()
	return domain.Filter{
		Query:           q.Get("q"),
		Location:        q.Get("location"),
		Company:         q.Get("company"),
		Tags:            domain.SplitList(q.Get("tags")),
		Skills:          domain.SplitList(q.Get("skills")),
		ExperienceLevel: domain.ExperienceLevel(q.Get("experienceLevel")),
	}
}

func requireIdentity(w http.ResponseWriter, r *http.Request, log *logger.Logger) (authguard.Identity, bool) {
	identity, ok := authguard.FromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, commonerrors.ErrUnauthenticated, log)
	}
	return identity, ok
}

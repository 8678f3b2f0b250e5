package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	admin "github.com/AlibekovAA/job-board/backend/internal/admin/service"
	appdomain "github.com/AlibekovAA/job-board/backend/internal/application/domain"
	auditdomain "github.com/AlibekovAA/job-board/backend/internal/audit/domain"
	"github.com/AlibekovAA/job-board/backend/internal/common/authguard"
	commonerrors "github.com/AlibekovAA/job-board/backend/internal/common/errors"
	commonhttp "github.com/AlibekovAA/job-board/backend/internal/common/http"
	"github.com/AlibekovAA/job-board/backend/internal/common/logger"
	jobdomain "github.com/AlibekovAA/job-board/backend/internal/job/domain"
	userdomain "github.com/AlibekovAA/job-board/backend/internal/user/domain"
)

const targetID = "9b8a7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"

var testLog = logger.NewWithWriter(io.Discard, "test", "ERROR")

// headerGuard trusts X-User-ID and X-User-Role.
type headerGuard struct{}

func (headerGuard) Protect(h http.HandlerFunc, roles ...userdomain.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-User-ID")
		if id == "" {
			commonhttp.HandleError(w, r, commonerrors.ErrUnauthenticated, testLog)
			return
		}
		identity := authguard.Identity{UserID: userdomain.ID(id), Role: userdomain.Role(r.Header.Get("X-User-Role"))}
		if len(roles) > 0 && !authguard.HasRole(identity, roles...) {
			commonhttp.HandleError(w, r, commonerrors.ErrForbidden, testLog)
			return
		}
		h(w, r.WithContext(authguard.WithIdentity(r.Context(), identity)))
	})
}

type fakeAdmin struct {
	deletedUser  userdomain.ID
	deletedBy    userdomain.ID
	deletedJob   jobdomain.ID
	jobActor     authguard.Identity
	auditLimit   int
	missingUsers bool
}

func (f *fakeAdmin) Stats(context.Context) (admin.Stats, error) {
	return admin.Stats{TotalJobs: 2, TotalUsers: 5, TotalApplications: 9}, nil
}

func (f *fakeAdmin) ListUsers(context.Context) ([]userdomain.View, error) {
	return []userdomain.View{{ID: "u1"}}, nil
}

func (f *fakeAdmin) GetUser(_ context.Context, id userdomain.ID) (userdomain.View, error) {
	if f.missingUsers {
		return userdomain.View{}, commonerrors.ErrUserNotFound
	}
	return userdomain.View{ID: id}, nil
}

func (f *fakeAdmin) DeleteUser(_ context.Context, actor, id userdomain.ID) error {
	if f.missingUsers {
		return commonerrors.ErrUserNotFound
	}
	f.deletedBy, f.deletedUser = actor, id
	return nil
}

func (f *fakeAdmin) Search(context.Context, jobdomain.Filter) ([]jobdomain.Listing, error) {
	return []jobdomain.Listing{}, nil
}

func (f *fakeAdmin) Get(_ context.Context, id jobdomain.ID) (jobdomain.Listing, error) {
	return jobdomain.Listing{Job: jobdomain.Job{ID: id}}, nil
}

func (f *fakeAdmin) Delete(_ context.Context, actor authguard.Identity, id jobdomain.ID) error {
	f.jobActor, f.deletedJob = actor, id
	return nil
}

func (f *fakeAdmin) ListAll(context.Context) ([]appdomain.Detail, error) {
	return []appdomain.Detail{}, nil
}

func (f *fakeAdmin) List(_ context.Context, limit int) ([]auditdomain.Entry, error) {
	f.auditLimit = limit
	return []auditdomain.Entry{}, nil
}

func serve(f *fakeAdmin, method, target, role string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	svc := Services{Stats: f, Users: f, Jobs: f, Applications: f, Audit: f}
	NewHandler(svc, headerGuard{}, 0, testLog).Register(mux)

	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("X-User-ID", "admin-1")
	req.Header.Set("X-User-Role", role)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	f := &fakeAdmin{}
	routes := []struct{ method, target string }{
		{http.MethodGet, "/api/admin/users"},
		{http.MethodGet, "/api/admin/users/" + targetID},
		{http.MethodDelete, "/api/admin/users/" + targetID},
		{http.MethodGet, "/api/admin/jobs"},
		{http.MethodGet, "/api/admin/jobs/" + targetID},
		{http.MethodDelete, "/api/admin/jobs/" + targetID},
		{http.MethodGet, "/api/admin/applications"},
		{http.MethodGet, "/api/admin/stats"},
		{http.MethodGet, "/api/admin/audit-logs"},
	}

	for _, rt := range routes {
		for _, role := range []string{"recruiter", "job-seeker"} {
			if rec := serve(f, rt.method, rt.target, role); rec.Code != http.StatusForbidden {
				t.Errorf("%s %s as %s: expected 403, got %d", rt.method, rt.target, role, rec.Code)
			}
		}
		if rec := serve(f, rt.method, rt.target, "admin"); rec.Code != http.StatusOK {
			t.Errorf("%s %s as admin: expected 200, got %d", rt.method, rt.target, rec.Code)
		}
	}
}

func TestStats(t *testing.T) {
	rec := serve(&fakeAdmin{}, http.MethodGet, "/api/admin/stats", "admin")

	var body statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Stats.TotalUsers != 5 || body.Stats.TotalJobs != 2 || body.Stats.TotalApplications != 9 || body.Message == "" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestDeleteUser(t *testing.T) {
	f := &fakeAdmin{}
	serve(f, http.MethodDelete, "/api/admin/users/"+targetID, "admin")
	if f.deletedUser != targetID || f.deletedBy != "admin-1" {
		t.Errorf("unexpected delete %q by %q", f.deletedUser, f.deletedBy)
	}

	f.missingUsers = true
	if rec := serve(f, http.MethodDelete, "/api/admin/users/"+targetID, "admin"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if rec := serve(f, http.MethodGet, "/api/admin/users/"+targetID, "admin"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteJob_PassesAdminIdentity(t *testing.T) {
	f := &fakeAdmin{}
	serve(f, http.MethodDelete, "/api/admin/jobs/"+targetID, "admin")
	if f.deletedJob != targetID || f.jobActor.Role != userdomain.RoleAdmin {
		t.Errorf("unexpected delete %q by %+v", f.deletedJob, f.jobActor)
	}
}

func TestAuditLogs_Limit(t *testing.T) {
	f := &fakeAdmin{}
	serve(f, http.MethodGet, "/api/admin/audit-logs?limit=25", "admin")
	if f.auditLimit != 25 {
		t.Errorf("expected limit 25, got %d", f.auditLimit)
	}
}

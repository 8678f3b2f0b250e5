package authguard

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/AlibekovAA/job-board/backend/internal/auth/token"
	commonerrors "github.com/AlibekovAA/job-board/backend/internal/common/errors"
	commonhttp "github.com/AlibekovAA/job-board/backend/internal/common/http"
	"github.com/AlibekovAA/job-board/backend/internal/common/logger"
	"github.com/AlibekovAA/job-board/backend/internal/observability/metrics"
	userdomain "github.com/AlibekovAA/job-board/backend/internal/user/domain"
	userrepo "github.com/AlibekovAA/job-board/backend/internal/user/repository"
)

type Identity struct {
	UserID userdomain.ID
	Role   userdomain.Role
	Name   string
	Email  string
}

type identityKey struct{}

type AccessVerifier interface {
	VerifyAccess(tokenString string) (token.AccessClaims, error)
}

type IdentityLoader interface {
	FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error)
}

// Protector wraps a handler with authentication and a role check. Guard
// implements it; HTTP packages depend on this instead of *Guard.
type Protector interface {
	Protect(h http.HandlerFunc, roles ...userdomain.Role) http.Handler
}

type Guard struct {
	verifier AccessVerifier
	users    IdentityLoader
	log      *logger.Logger
}

func New(verifier AccessVerifier, users IdentityLoader, log *logger.Logger) *Guard {
	return &Guard{verifier: verifier, users: users, log: log}
}

// Authenticate resolves the bearer access token to a stored user and
// attaches the identity to the request context. Role comes from the stored
// row, so a role change takes effect before the token expires.
func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		raw, ok := bearerToken(r)
		if !ok {
			metrics.AuthorizationDenied.WithLabelValues("missing_token").Inc()
			commonhttp.HandleError(w, r, commonerrors.ErrUnauthenticated, g.log)
			return
		}

		claims, err := g.verifier.VerifyAccess(raw)
		if err != nil {
			g.log.WithFields(ctx, logger.Fields{
				"path":   r.URL.Path,
				"action": "authenticate_invalid_token",
			}).Warnf("authentication failed: %v", err)
			metrics.AuthorizationDenied.WithLabelValues("invalid_token").Inc()
			commonhttp.HandleError(w, r, commonerrors.ErrUnauthenticated.WithCause(err), g.log)
			return
		}

		user, err := g.users.FindByID(ctx, userdomain.ID(claims.UserID))
		if err != nil {
			if errors.Is(err, userrepo.ErrUserNotFound) {
				metrics.AuthorizationDenied.WithLabelValues("unknown_user").Inc()
				commonhttp.HandleError(w, r, commonerrors.ErrUnauthenticated, g.log)
				return
			}
			commonhttp.HandleError(w, r, commonerrors.ErrStorageFailure.WithCause(err), g.log)
			return
		}

		identity := Identity{
			UserID: user.ID,
			Role:   user.Role,
			Name:   user.Name,
			Email:  user.Email,
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, identity)))
	})
}

// Require rejects identities whose role is outside roles. It must run
// after Authenticate.
func (g *Guard) Require(roles ...userdomain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := FromContext(r.Context())
			if !ok {
				commonhttp.HandleError(w, r, commonerrors.ErrUnauthenticated, g.log)
				return
			}
			if !HasRole(identity, roles...) {
				g.log.WithFields(r.Context(), logger.Fields{
					"user_id": string(identity.UserID),
					"role":    string(identity.Role),
					"path":    r.URL.Path,
					"action":  "authorize_role_denied",
				}).Warn("insufficient role")
				metrics.AuthorizationDenied.WithLabelValues("role").Inc()
				commonhttp.HandleError(w, r, commonerrors.ErrForbidden, g.log)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Protect is Authenticate followed by Require(roles...). With no roles any
// authenticated user passes.
func (g *Guard) Protect(h http.HandlerFunc, roles ...userdomain.Role) http.Handler {
	inner := http.Handler(h)
	if len(roles) > 0 {
		inner = g.Require(roles...)(inner)
	}
	return g.Authenticate(inner)
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

func FromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(Identity)
	return identity, ok
}

func HasRole(identity Identity, roles ...userdomain.Role) bool {
	for _, role := range roles {
		if identity.Role == role {
			return true
		}
	}
	return false
}

// OwnerOrRoles passes when identity owns the resource or holds one of
// bypassRoles. Bypass is decided per call site.
func OwnerOrRoles(identity Identity, ownerID userdomain.ID, bypassRoles ...userdomain.Role) error {
	if identity.UserID != "" && identity.UserID == ownerID {
		return nil
	}
	if HasRole(identity, bypassRoles...) {
		return nil
	}
	metrics.AuthorizationDenied.WithLabelValues("ownership").Inc()
	return commonerrors.ErrForbidden
}

func bearerToken(r *http.Request) (string, bool) {
	raw := r.Header.Get("Authorization")
	scheme, value, found := strings.Cut(raw, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

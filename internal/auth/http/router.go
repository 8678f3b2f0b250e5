package http

import (
	"context"
	"net/http"
	"time"

	"github.com/AlibekovAA/job-board/backend/internal/auth/service"
	"github.com/AlibekovAA/job-board/backend/internal/common/constants"
	commonhttp "github.com/AlibekovAA/job-board/backend/internal/common/http"
	"github.com/AlibekovAA/job-board/backend/internal/common/logger"
)

type SessionManager interface {
	Register(ctx context.Context, input service.RegisterInput) (service.Session, error)
	Login(ctx context.Context, input service.LoginInput) (service.Session, error)
	Refresh(ctx context.Context, presented string) (service.RefreshResult, error)
	Logout(ctx context.Context, presented string)
}

type Config struct {
	CookieSecure   bool
	RefreshTTL     time.Duration
	RequestTimeout time.Duration
}

type sessionResponse struct {
	AccessToken string           `json:"accessToken"`
	User        service.UserView `json:"user"`
}

type accessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type Handler struct {
	sessions SessionManager
	cfg      Config
	log      *logger.Logger
}

func NewHandler(sessions SessionManager, cfg Config, log *logger.Logger) *Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = constants.DefaultRequestTimeout
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = constants.DefaultRefreshTokenTTL
	}
	return &Handler{sessions: sessions, cfg: cfg, log: log}
}

func (h *Handler) Register(mux *http.ServeMux) {
	timeout := commonhttp.WithTimeout(h.cfg.RequestTimeout)
	mux.HandleFunc("POST /api/auth/register", timeout(h.register))
	mux.HandleFunc("POST /api/auth/login", timeout(h.login))
	mux.HandleFunc("POST /api/auth/refresh", timeout(h.refresh))
	mux.HandleFunc("POST /api/auth/logout", timeout(h.logout))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	session, err := h.sessions.Register(r.Context(), req)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	h.setRefreshCookie(w, session.RefreshToken)
	commonhttp.WriteJSON(w, http.StatusCreated, sessionResponse{
		AccessToken: session.AccessToken,
		User:        session.User,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginInput
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	session, err := h.sessions.Login(r.Context(), req)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	h.setRefreshCookie(w, session.RefreshToken)
	commonhttp.WriteJSON(w, http.StatusOK, sessionResponse{
		AccessToken: session.AccessToken,
		User:        session.User,
	})
}

// refresh reads the refresh token from the cookie only; a token in the body
// or a header is ignored.
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.sessions.Refresh(r.Context(), refreshCookie(r))
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	if result.RefreshToken != "" {
		h.setRefreshCookie(w, result.RefreshToken)
	}
	commonhttp.WriteJSON(w, http.StatusOK, accessTokenResponse{AccessToken: result.AccessToken})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context(), refreshCookie(r))
	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func refreshCookie(r *http.Request) string {
	cookie, err := r.Cookie(constants.RefreshTokenCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, value string) {
	if value == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    value,
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   int(h.cfg.RefreshTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.cfg.CookieSecure,
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.cfg.CookieSecure,
	})
}

package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"agencydesk-backend/internal/domain"
	"agencydesk-backend/internal/service"
)

// SessionCookieName is the browser transport for session tokens.
const SessionCookieName = "agencydesk_session"

type contextKey string

const identityKey contextKey = "identity"

// AuthMiddleware authenticates every request before any capability or role
// check runs. The token travels either as a bearer header (programmatic
// calls) or in the session cookie (browser flows); the header wins when
// both are present.
type AuthMiddleware struct {
	authSvc service.AuthService
}

func NewAuthMiddleware(authSvc service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			respondError(w, domain.ErrAuthenticationRequired)
			return
		}
		ident, err := m.authSvc.Authenticate(r.Context(), token)
		if err != nil {
			respondError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), identityKey, ident)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if strings.HasPrefix(header, "Bearer ") {
			return strings.TrimPrefix(header, "Bearer ")
		}
		return ""
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// IdentityFromRequest returns the identity resolved by AuthMiddleware, or
// nil on unauthenticated routes.
func IdentityFromRequest(r *http.Request) *service.Identity {
	ident, _ := r.Context().Value(identityKey).(*service.Identity)
	return ident
}

// setSessionCookie installs the session token for browser flows. Secure is
// driven by the deployment environment; SameSite=Lax matches the activation
// redirect flow.
func setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

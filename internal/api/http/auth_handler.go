package http

import (
	"net/http"

	"agencydesk-backend/internal/domain"
	"agencydesk-backend/internal/service"
)

type AuthHandler struct {
	authSvc      service.AuthService
	secureCookie bool
}

func NewAuthHandler(authSvc service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, secureCookie: secureCookie}
}

type activateRequest struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	Identity  any    `json:"identity"`
}

// HandleActivate consumes an invitation token, sets credentials and signs
// the caller in.
func (h *AuthHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	var req activateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Token == "" {
		respondError(w, domain.Validationf("token is required"))
		return
	}

	session, err := h.authSvc.Activate(r.Context(), req.Token, req.Name, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	setSessionCookie(w, session.Token, session.ExpiresAt, h.secureCookie)
	respondJSON(w, http.StatusOK, h.sessionPayload(session))
}

// HandleLogin authenticates an internal member by password.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := h.authSvc.LoginMember(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	setSessionCookie(w, session.Token, session.ExpiresAt, h.secureCookie)
	respondJSON(w, http.StatusOK, h.sessionPayload(session))
}

// HandlePortalLogin authenticates an external portal user by password.
func (h *AuthHandler) HandlePortalLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := h.authSvc.LoginPortalUser(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	setSessionCookie(w, session.Token, session.ExpiresAt, h.secureCookie)
	respondJSON(w, http.StatusOK, h.sessionPayload(session))
}

// HandleMe returns the resolved identity of the caller.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ident := IdentityFromRequest(r)
	if ident == nil {
		respondError(w, domain.ErrAuthenticationRequired)
		return
	}
	respondJSON(w, http.StatusOK, identityPayload(ident))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// HandleChangePassword updates the caller's credential in both systems of
// record.
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.authSvc.ChangePassword(r.Context(), IdentityFromRequest(r), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// HandleLogout clears the session cookie. Tokens are stateless, so logout
// is purely a client-side affair.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, h.secureCookie)
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *AuthHandler) sessionPayload(session *service.Session) sessionResponse {
	return sessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.Unix(),
		Identity:  identityPayload(&session.Identity),
	}
}

func identityPayload(ident *service.Identity) any {
	if ident.Member != nil {
		return map[string]any{
			"domain": ident.Domain,
			"org_id": ident.OrgID,
			"member": ident.Member,
		}
	}
	return map[string]any{
		"domain":      ident.Domain,
		"org_id":      ident.OrgID,
		"client_id":   ident.ClientID,
		"portal_user": ident.PortalUser,
	}
}

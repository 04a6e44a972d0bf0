package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter assembles the HTTP surface. Authentication runs before every
// protected handler; role and capability checks run inside the services.
func NewRouter(authMW *AuthMiddleware, authHandler *AuthHandler, memberHandler *MemberHandler, portalHandler *PortalHandler) *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()

	// Public endpoints
	api.HandleFunc("/auth/activate", authHandler.HandleActivate).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.HandleLogin).Methods(http.MethodPost)
	api.HandleFunc("/portal/auth/login", authHandler.HandlePortalLogin).Methods(http.MethodPost)

	// Authenticated endpoints
	protected := api.NewRoute().Subrouter()
	protected.Use(authMW.Require)
	protected.HandleFunc("/auth/me", authHandler.HandleMe).Methods(http.MethodGet)
	protected.HandleFunc("/auth/password", authHandler.HandleChangePassword).Methods(http.MethodPost)
	protected.HandleFunc("/auth/logout", authHandler.HandleLogout).Methods(http.MethodPost)

	protected.HandleFunc("/members", memberHandler.HandleList).Methods(http.MethodGet)
	protected.HandleFunc("/members/invite", memberHandler.HandleInvite).Methods(http.MethodPost)
	protected.HandleFunc("/members/{id}/resend-invite", memberHandler.HandleResendInvite).Methods(http.MethodPost)
	protected.HandleFunc("/members/{id}", memberHandler.HandleDelete).Methods(http.MethodDelete)

	protected.HandleFunc("/portal/users/invite", portalHandler.HandleInvite).Methods(http.MethodPost)
	protected.HandleFunc("/portal/deliverables/{id}/approve", portalHandler.HandleApprove).Methods(http.MethodPost)
	protected.HandleFunc("/portal/files/{id}/download", portalHandler.HandleDownload).Methods(http.MethodGet)
	protected.HandleFunc("/portal/comments", portalHandler.HandleComment).Methods(http.MethodPost)

	return router
}

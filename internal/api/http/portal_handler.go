package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"agencydesk-backend/internal/domain"
	"agencydesk-backend/internal/logger"
	"agencydesk-backend/internal/service"
)

type PortalHandler struct {
	inviteSvc service.InviteService
}

func NewPortalHandler(inviteSvc service.InviteService) *PortalHandler {
	return &PortalHandler{inviteSvc: inviteSvc}
}

type invitePortalUserRequest struct {
	ClientID    string `json:"client_id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	CanApprove  bool   `json:"can_approve"`
	CanDownload bool   `json:"can_download"`
	CanComment  bool   `json:"can_comment"`
}

// HandleInvite creates a pending portal user with the capability set the
// inviter granted.
func (h *PortalHandler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	var req invitePortalUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, setupURL, err := h.inviteSvc.InvitePortalUser(r.Context(), IdentityFromRequest(r),
		req.ClientID, req.Email, req.Name, domain.PortalRole(req.Role), domain.Capabilities{
			CanApprove:  req.CanApprove,
			CanDownload: req.CanDownload,
			CanComment:  req.CanComment,
		})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, inviteResponse{
		ID:       user.ID,
		Email:    user.Email,
		SetupURL: setupURL,
	})
}

// The deliverable, file and comment resources live in the surrounding
// application; this core only guards the operations with the caller's
// capability flags and forwards on success.

// HandleApprove gates deliverable approval on the can_approve flag.
func (h *PortalHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ident := IdentityFromRequest(r)
	if err := service.RequireCapability(ident, service.CapabilityApprove); err != nil {
		respondError(w, err)
		return
	}
	deliverableID := mux.Vars(r)["id"]
	logger.Info("Deliverable approval authorized", "deliverable", deliverableID, "user", ident.SubjectID())
	respondJSON(w, http.StatusAccepted, map[string]string{"deliverable_id": deliverableID, "status": "approved"})
}

// HandleDownload gates file download on the can_download flag.
func (h *PortalHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	ident := IdentityFromRequest(r)
	if err := service.RequireCapability(ident, service.CapabilityDownload); err != nil {
		respondError(w, err)
		return
	}
	fileID := mux.Vars(r)["id"]
	logger.Info("File download authorized", "file", fileID, "user", ident.SubjectID())
	respondJSON(w, http.StatusOK, map[string]string{"file_id": fileID, "status": "authorized"})
}

// HandleComment gates commenting on the can_comment flag.
func (h *PortalHandler) HandleComment(w http.ResponseWriter, r *http.Request) {
	ident := IdentityFromRequest(r)
	if err := service.RequireCapability(ident, service.CapabilityComment); err != nil {
		respondError(w, err)
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Text == "" {
		respondError(w, domain.Validationf("comment text is required"))
		return
	}
	logger.Info("Comment authorized", "user", ident.SubjectID())
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

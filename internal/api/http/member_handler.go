package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"agencydesk-backend/internal/domain"
	"agencydesk-backend/internal/service"
)

type MemberHandler struct {
	inviteSvc   service.InviteService
	memberSvc   service.MemberService
	deletionSvc service.DeletionService
}

func NewMemberHandler(inviteSvc service.InviteService, memberSvc service.MemberService, deletionSvc service.DeletionService) *MemberHandler {
	return &MemberHandler{
		inviteSvc:   inviteSvc,
		memberSvc:   memberSvc,
		deletionSvc: deletionSvc,
	}
}

type inviteMemberRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type inviteResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	SetupURL string `json:"setup_url"`
}

// HandleInvite creates a pending member and issues the setup link.
func (h *MemberHandler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	var req inviteMemberRequest
	if !decodeBody(w, r, &req) {
		return
	}

	member, setupURL, err := h.inviteSvc.InviteMember(r.Context(), IdentityFromRequest(r), req.Email, req.Name, domain.MemberRole(req.Role))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, inviteResponse{
		ID:       member.ID,
		Email:    member.Email,
		SetupURL: setupURL,
	})
}

// HandleResendInvite re-mints the setup link for a still-pending member.
func (h *MemberHandler) HandleResendInvite(w http.ResponseWriter, r *http.Request) {
	memberID := mux.Vars(r)["id"]

	setupURL, err := h.inviteSvc.ResendMemberInvite(r.Context(), IdentityFromRequest(r), memberID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"setup_url": setupURL})
}

// HandleList returns the organization roster.
func (h *MemberHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberSvc.ListMembers(r.Context(), IdentityFromRequest(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"members": members})
}

// HandleDelete runs the safe-deletion sequence and reports its impact.
func (h *MemberHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	targetID := mux.Vars(r)["id"]

	impact, err := h.deletionSvc.DeleteMember(r.Context(), IdentityFromRequest(r), targetID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, impact)
}

package admin

import (
	"net/http"

	"github.com/matchday/platform/internal/handler"
	"github.com/matchday/platform/internal/service"
)

// MemberAdminHandler handles admin member management.
type MemberAdminHandler struct {
	memberSvc *service.MemberService
}

// NewMemberAdminHandler creates a new MemberAdminHandler.
func NewMemberAdminHandler(memberSvc *service.MemberService) *MemberAdminHandler {
	return &MemberAdminHandler{memberSvc: memberSvc}
}

// Create handles POST /v1/members.
func (h *MemberAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateMemberInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondBadBody(w)
		return
	}

	v, err := h.memberSvc.Create(r.Context(), input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, v)
}

// Update handles PUT /v1/members/{id}.
func (h *MemberAdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handler.URLUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var input service.UpdateMemberInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondBadBody(w)
		return
	}

	v, err := h.memberSvc.Update(r.Context(), id, input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, v)
}

// Delete handles DELETE /v1/members/{id}.
func (h *MemberAdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handler.URLUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	if err := h.memberSvc.Delete(r.Context(), id); err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusNoContent, nil)
}

type flagInput struct {
	Value bool `json:"value"`
}

// SetInjured handles PATCH /v1/members/{id}/injured {"value": true}.
func (h *MemberAdminHandler) SetInjured(w http.ResponseWriter, r *http.Request) {
	id, err := handler.URLUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	var input flagInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondBadBody(w)
		return
	}

	v, err := h.memberSvc.SetInjured(r.Context(), id, input.Value)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, v)
}

// SetBlocked handles PATCH /v1/members/{id}/blocked {"value": true}.
func (h *MemberAdminHandler) SetBlocked(w http.ResponseWriter, r *http.Request) {
	id, err := handler.URLUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	var input flagInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondBadBody(w)
		return
	}

	v, err := h.memberSvc.SetBlocked(r.Context(), id, input.Value)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, v)
}

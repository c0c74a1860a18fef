package handler

import (
	"net/http"

	"github.com/matchday/platform/internal/auth"
	"github.com/matchday/platform/internal/service"
)

// MemberHandler handles member directory endpoints open to every member.
type MemberHandler struct {
	memberSvc *service.MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberSvc *service.MemberService) *MemberHandler {
	return &MemberHandler{memberSvc: memberSvc}
}

// GetMe handles GET /v1/members/me.
func (h *MemberHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	v, err := h.memberSvc.GetByIdentity(r.Context(), auth.SubjectFromContext(r.Context()))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, v)
}

// ChangePassword handles PATCH /v1/members/me/password.
func (h *MemberHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Password string `json:"password"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	if err := h.memberSvc.ChangePassword(r.Context(), auth.SubjectFromContext(r.Context()), input.Password); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusNoContent, nil)
}

// ChangeAlias handles PATCH /v1/members/me/alias.
func (h *MemberHandler) ChangeAlias(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Alias string `json:"alias"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	v, err := h.memberSvc.ChangeAlias(r.Context(), auth.SubjectFromContext(r.Context()), input.Alias)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, v)
}

// List handles GET /v1/members.
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.memberSvc.List(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, list)
}

// Get handles GET /v1/members/{id}.
func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := URLUUID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	v, err := h.memberSvc.Get(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, v)
}

// Movements handles GET /v1/members/{id}/movements?page=&size=.
func (h *MemberHandler) Movements(w http.ResponseWriter, r *http.Request) {
	id, err := URLUUID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}
	page, err := QueryInt(r, "page", 0)
	if err != nil {
		RespondError(w, err)
		return
	}
	size, err := QueryInt(r, "size", 20)
	if err != nil {
		RespondError(w, err)
		return
	}

	result, err := h.memberSvc.Movements(r.Context(), id, page, size)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

package admin

import (
	"net/http"

	"github.com/matchday/platform/internal/handler"
	"github.com/matchday/platform/internal/service"
)

// MovementAdminHandler handles admin ledger writes.
type MovementAdminHandler struct {
	movementSvc *service.MovementService
}

// NewMovementAdminHandler creates a new MovementAdminHandler.
func NewMovementAdminHandler(movementSvc *service.MovementService) *MovementAdminHandler {
	return &MovementAdminHandler{movementSvc: movementSvc}
}

// Create handles POST /v1/movements.
func (h *MovementAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.MovementInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondBadBody(w)
		return
	}

	mv, err := h.movementSvc.Create(r.Context(), input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, mv)
}

// Update handles PUT /v1/movements/{id}.
func (h *MovementAdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handler.URLUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	var input service.AmendInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondBadBody(w)
		return
	}

	mv, err := h.movementSvc.Update(r.Context(), id, input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, mv)
}

// Delete handles DELETE /v1/movements/{id}.
func (h *MovementAdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handler.URLUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	if err := h.movementSvc.Delete(r.Context(), id); err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusNoContent, nil)
}

// AnnualFee handles POST /v1/movements/annual-fee.
func (h *MovementAdminHandler) AnnualFee(w http.ResponseWriter, r *http.Request) {
	charged, err := h.movementSvc.ChargeAnnualFee(r.Context())
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"charged":   len(charged),
		"movements": charged,
	})
}

// CreateTeam handles POST /v1/team/movements.
func (h *MovementAdminHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var input service.MovementInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondBadBody(w)
		return
	}

	mv, err := h.movementSvc.CreateTeam(r.Context(), input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, mv)
}

// UpdateTeam handles PUT /v1/team/movements/{id}.
func (h *MovementAdminHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	id, err := handler.URLUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	var input service.AmendInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondBadBody(w)
		return
	}

	mv, err := h.movementSvc.UpdateTeam(r.Context(), id, input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, mv)
}

// DeleteTeam handles DELETE /v1/team/movements/{id}.
func (h *MovementAdminHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, err := handler.URLUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	if err := h.movementSvc.DeleteTeam(r.Context(), id); err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusNoContent, nil)
}

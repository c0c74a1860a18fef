package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/service"
)

// MovementHandler handles ledger read endpoints.
type MovementHandler struct {
	movementSvc *service.MovementService
}

// NewMovementHandler creates a new MovementHandler.
func NewMovementHandler(movementSvc *service.MovementService) *MovementHandler {
	return &MovementHandler{movementSvc: movementSvc}
}

// List handles GET /v1/movements?member_id=&description=&page=&size=.
func (h *MovementHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.MovementFilter{Description: r.URL.Query().Get("description")}

	if s := r.URL.Query().Get("member_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			RespondError(w, domain.ErrValidation("invalid member_id"))
			return
		}
		filter.MemberID = &id
	}

	var err error
	if filter.Page, err = QueryInt(r, "page", 0); err != nil {
		RespondError(w, err)
		return
	}
	if filter.Size, err = QueryInt(r, "size", 20); err != nil {
		RespondError(w, err)
		return
	}

	page, err := h.movementSvc.List(r.Context(), filter)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, page)
}

// Get handles GET /v1/movements/{id}.
func (h *MovementHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := URLUUID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	mv, err := h.movementSvc.Get(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, mv)
}

// Balance handles GET /v1/movements/balance.
func (h *MovementHandler) Balance(w http.ResponseWriter, r *http.Request) {
	totals, err := h.movementSvc.Totals(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, totals)
}

// ListTeam handles GET /v1/team/movements.
func (h *MovementHandler) ListTeam(w http.ResponseWriter, r *http.Request) {
	list, err := h.movementSvc.ListTeam(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, list)
}

// GetTeam handles GET /v1/team/movements/{id}.
func (h *MovementHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	id, err := URLUUID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	mv, err := h.movementSvc.GetTeam(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, mv)
}

// TeamBalance handles GET /v1/team/movements/balance.
func (h *MovementHandler) TeamBalance(w http.ResponseWriter, r *http.Request) {
	totals, err := h.movementSvc.ClubBalance(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, totals)
}

package admin

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/handler"
	"github.com/matchday/platform/internal/service"
)

// MatchAdminHandler handles admin match management.
type MatchAdminHandler struct {
	matchSvc *service.MatchService
}

// NewMatchAdminHandler creates a new MatchAdminHandler.
func NewMatchAdminHandler(matchSvc *service.MatchService) *MatchAdminHandler {
	return &MatchAdminHandler{matchSvc: matchSvc}
}

// Create handles POST /v1/matches {"matchDay": "YYYY-MM-DD"}.
func (h *MatchAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		MatchDay string `json:"matchDay"`
	}
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondBadBody(w)
		return
	}

	day, err := domain.ParseMatchDay(input.MatchDay)
	if err != nil {
		handler.RespondError(w, domain.ErrValidation(err.Error()))
		return
	}

	m, err := h.matchSvc.Create(r.Context(), day)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondMatch(w, r, h.matchSvc, http.StatusCreated, m)
}

// Delete handles DELETE /v1/matches/{id}.
func (h *MatchAdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handler.URLUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	if err := h.matchSvc.Delete(r.Context(), id); err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusNoContent, nil)
}

// Close handles POST /v1/matches/{id}/close.
func (h *MatchAdminHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, err := handler.URLUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	result, err := h.matchSvc.Close(r.Context(), id)
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	view, err := h.matchSvc.View(r.Context(), result.Match)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"match":      view,
		"settlement": result.Settlement,
	})
}

// Sweep handles POST /v1/matches/sweep.
func (h *MatchAdminHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	report, err := h.matchSvc.SweepToday(r.Context())
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, report)
}

// AssignTeam handles POST /v1/matches/{id}/players/{playerId}/team/{team}.
func (h *MatchAdminHandler) AssignTeam(w http.ResponseWriter, r *http.Request) {
	h.playerTeam(w, r, h.matchSvc.AssignToTeam)
}

// RemoveTeam handles DELETE /v1/matches/{id}/players/{playerId}/team/{team}.
func (h *MatchAdminHandler) RemoveTeam(w http.ResponseWriter, r *http.Request) {
	h.playerTeam(w, r, h.matchSvc.RemoveFromTeam)
}

func (h *MatchAdminHandler) playerTeam(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, matchID, memberID uuid.UUID, team domain.Team) (*domain.Match, error),
) {
	matchID, err := handler.URLUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	memberID, err := handler.URLUUID(r, "playerId")
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	team, err := handler.URLTeam(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	m, err := op(r.Context(), matchID, memberID, team)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondMatch(w, r, h.matchSvc, http.StatusOK, m)
}

// AddGuest handles POST /v1/matches/{id}/guests/team/{team} {"guest": "..."}.
func (h *MatchAdminHandler) AddGuest(w http.ResponseWriter, r *http.Request) {
	h.guest(w, r, h.matchSvc.AddGuest)
}

// RemoveGuest handles DELETE /v1/matches/{id}/guests/team/{team} {"guest": "..."}.
func (h *MatchAdminHandler) RemoveGuest(w http.ResponseWriter, r *http.Request) {
	h.guest(w, r, h.matchSvc.RemoveGuest)
}

func (h *MatchAdminHandler) guest(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, matchID uuid.UUID, team domain.Team, name string) (*domain.Match, error),
) {
	matchID, err := handler.URLUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	team, err := handler.URLTeam(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var input struct {
		Guest string `json:"guest"`
	}
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondBadBody(w)
		return
	}

	m, err := op(r.Context(), matchID, team, input.Guest)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondMatch(w, r, h.matchSvc, http.StatusOK, m)
}

// SelectCaptain handles POST /v1/matches/{id}/captain/{team}.
func (h *MatchAdminHandler) SelectCaptain(w http.ResponseWriter, r *http.Request) {
	matchID, err := handler.URLUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	team, err := handler.URLTeam(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	m, err := h.matchSvc.SelectRandomCaptain(r.Context(), matchID, team)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondMatch(w, r, h.matchSvc, http.StatusOK, m)
}

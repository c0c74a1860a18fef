package handler

import (
	"net/http"

	"github.com/matchday/platform/internal/auth"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/service"
)

// MatchHandler handles match endpoints open to every member.
type MatchHandler struct {
	matchSvc *service.MatchService
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(matchSvc *service.MatchService) *MatchHandler {
	return &MatchHandler{matchSvc: matchSvc}
}

// RespondMatch resolves m into a MatchView and writes it.
func RespondMatch(w http.ResponseWriter, r *http.Request, svc *service.MatchService, status int, m *domain.Match) {
	view, err := svc.View(r.Context(), m)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, status, view)
}

// ListClosed handles GET /v1/matches.
func (h *MatchHandler) ListClosed(w http.ResponseWriter, r *http.Request) {
	matches, err := h.matchSvc.ListClosed(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}

	views := make([]*service.MatchView, 0, len(matches))
	for i := range matches {
		v, err := h.matchSvc.View(r.Context(), &matches[i])
		if err != nil {
			RespondError(w, err)
			return
		}
		views = append(views, v)
	}
	RespondJSON(w, http.StatusOK, views)
}

// Next handles GET /v1/matches/next.
func (h *MatchHandler) Next(w http.ResponseWriter, r *http.Request) {
	m, err := h.matchSvc.GetNext(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondMatch(w, r, h.matchSvc, http.StatusOK, m)
}

// Get handles GET /v1/matches/{id}.
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := URLUUID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	m, err := h.matchSvc.Get(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondMatch(w, r, h.matchSvc, http.StatusOK, m)
}

// SetAvailability handles POST /v1/matches/{id}/players for the calling member.
func (h *MatchHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := URLUUID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	var input struct {
		Status domain.Availability `json:"status"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	m, err := h.matchSvc.SetAvailability(r.Context(), id, auth.SubjectFromContext(r.Context()), input.Status)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondMatch(w, r, h.matchSvc, http.StatusOK, m)
}

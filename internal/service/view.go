package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/matchday/platform/internal/domain"
)

// NotFoundName stands in for a member id that no longer resolves.
const NotFoundName = "Not found"

// PlayerView is a roster entry resolved through the member directory.
type PlayerView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Alias string    `json:"alias,omitempty"`
}

// TeamView is one side of a match.
type TeamView struct {
	Players []PlayerView `json:"players"`
	Guests  []string     `json:"guests"`
	Captain *PlayerView  `json:"captain,omitempty"`
}

// MatchView is a match as returned to clients.
type MatchView struct {
	ID           uuid.UUID    `json:"id"`
	MatchDay     string       `json:"match_day"`
	Closed       bool         `json:"closed"`
	Unconfirmed  []PlayerView `json:"unconfirmed"`
	Confirmed    []PlayerView `json:"confirmed"`
	NotAvailable []PlayerView `json:"not_available"`
	TeamA        TeamView     `json:"team_a"`
	TeamB        TeamView     `json:"team_b"`
}

// View resolves every member id of m into a PlayerView.
func (s *MatchService) View(ctx context.Context, m *domain.Match) (*MatchView, error) {
	cache := make(map[uuid.UUID]PlayerView)
	resolve := func(id uuid.UUID) (PlayerView, error) {
		if v, ok := cache[id]; ok {
			return v, nil
		}
		v := PlayerView{ID: id, Name: NotFoundName}
		member, err := s.members.FindByID(ctx, s.db, id)
		if err != nil {
			return v, domain.ErrInternal("find member", err)
		}
		if member != nil {
			v.Name = member.DisplayName()
			v.Alias = member.Alias
		}
		cache[id] = v
		return v, nil
	}
	resolveAll := func(ids []uuid.UUID) ([]PlayerView, error) {
		out := make([]PlayerView, 0, len(ids))
		for _, id := range ids {
			v, err := resolve(id)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	team := func(t domain.Team) (TeamView, error) {
		players, err := resolveAll(m.Players(t))
		if err != nil {
			return TeamView{}, err
		}
		tv := TeamView{Players: players, Guests: append([]string{}, m.Guests(t)...)}
		if c := m.Captain(t); c != nil {
			v, err := resolve(*c)
			if err != nil {
				return TeamView{}, err
			}
			tv.Captain = &v
		}
		return tv, nil
	}

	view := &MatchView{ID: m.ID, MatchDay: m.MatchDay.Format(domain.DateLayout), Closed: m.Closed}
	var err error
	if view.Unconfirmed, err = resolveAll(m.Unconfirmed); err != nil {
		return nil, err
	}
	if view.Confirmed, err = resolveAll(m.Confirmed); err != nil {
		return nil, err
	}
	if view.NotAvailable, err = resolveAll(m.NotAvailable); err != nil {
		return nil, err
	}
	if view.TeamA, err = team(domain.TeamA); err != nil {
		return nil, err
	}
	if view.TeamB, err = team(domain.TeamB); err != nil {
		return nil, err
	}
	return view, nil
}

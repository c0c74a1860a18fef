package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format for match days.
const DateLayout = "2006-01-02"

// Team identifies one of the two sides of a match.
type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

// ParseTeam accepts "a", "A", "teama" or "teamA".
func ParseTeam(s string) (Team, error) {
	switch strings.ToUpper(strings.TrimPrefix(strings.ToLower(s), "team")) {
	case "A":
		return TeamA, nil
	case "B":
		return TeamB, nil
	}
	return "", fmt.Errorf("invalid team: %q", s)
}

// Other returns the opposite side.
func (t Team) Other() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// Availability is the status a member declares for a match.
type Availability string

const (
	Available    Availability = "AVAILABLE"
	NotAvailable Availability = "NOT_AVAILABLE"
)

// Valid reports whether a is a declarable availability.
func (a Availability) Valid() bool {
	return a == Available || a == NotAvailable
}

// Match represents a matches row.
//
// Confirmed, Unconfirmed and NotAvailable are disjoint. TeamA and TeamB are
// disjoint and only ever receive confirmed members. A captain is always a
// member of its own team list. Only member ids are stored; names are
// resolved through the member directory.
type Match struct {
	ID           uuid.UUID   `json:"id"`
	MatchDay     time.Time   `json:"match_day"`
	Closed       bool        `json:"closed"`
	Confirmed    []uuid.UUID `json:"confirmed"`
	Unconfirmed  []uuid.UUID `json:"unconfirmed"`
	NotAvailable []uuid.UUID `json:"not_available"`
	TeamA        []uuid.UUID `json:"team_a"`
	TeamB        []uuid.UUID `json:"team_b"`
	TeamAGuests  []string    `json:"team_a_guests"`
	TeamBGuests  []string    `json:"team_b_guests"`
	CaptainA     *uuid.UUID  `json:"captain_a,omitempty"`
	CaptainB     *uuid.UUID  `json:"captain_b,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// NewMatch builds an open match for day with every given member unconfirmed.
func NewMatch(day time.Time, memberIDs []uuid.UUID) *Match {
	unconfirmed := make([]uuid.UUID, 0, len(memberIDs))
	for _, id := range memberIDs {
		if !slices.Contains(unconfirmed, id) {
			unconfirmed = append(unconfirmed, id)
		}
	}
	return &Match{
		ID:           uuid.New(),
		MatchDay:     TruncateDay(day),
		Confirmed:    []uuid.UUID{},
		Unconfirmed:  unconfirmed,
		NotAvailable: []uuid.UUID{},
		TeamA:        []uuid.UUID{},
		TeamB:        []uuid.UUID{},
		TeamAGuests:  []string{},
		TeamBGuests:  []string{},
	}
}

// TruncateDay drops the clock part of t, keeping its calendar date in UTC.
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SetAvailability moves id into the set matching a, removing it from the other two.
func (m *Match) SetAvailability(id uuid.UUID, a Availability) {
	m.Confirmed = removeID(m.Confirmed, id)
	m.Unconfirmed = removeID(m.Unconfirmed, id)
	m.NotAvailable = removeID(m.NotAvailable, id)

	switch a {
	case Available:
		m.Confirmed = append(m.Confirmed, id)
	case NotAvailable:
		m.NotAvailable = append(m.NotAvailable, id)
	}
}

// IsConfirmed reports whether id actively confirmed for this match.
func (m *Match) IsConfirmed(id uuid.UUID) bool {
	return slices.Contains(m.Confirmed, id) &&
		!slices.Contains(m.Unconfirmed, id) &&
		!slices.Contains(m.NotAvailable, id)
}

// AssignToTeam places a confirmed member on team, taking them off the other side.
func (m *Match) AssignToTeam(id uuid.UUID, team Team) error {
	if !m.IsConfirmed(id) {
		return ErrPlayerUnavailable(id.String())
	}

	m.removeFrom(team.Other(), id)
	players := m.teamList(team)
	if !slices.Contains(*players, id) {
		*players = append(*players, id)
	}
	return nil
}

// RemoveFromTeam drops id from team and clears that team's captain if it was id.
// Removing a member who is not on the team is a no-op.
func (m *Match) RemoveFromTeam(id uuid.UUID, team Team) {
	m.removeFrom(team, id)
}

func (m *Match) removeFrom(team Team, id uuid.UUID) {
	players := m.teamList(team)
	*players = removeID(*players, id)

	captain := m.captainRef(team)
	if *captain != nil && **captain == id {
		*captain = nil
	}
}

// AddGuest appends a free-text guest name; duplicates are allowed.
func (m *Match) AddGuest(team Team, name string) {
	guests := m.guestList(team)
	*guests = append(*guests, name)
}

// RemoveGuest drops the first occurrence of name from the team's guests.
func (m *Match) RemoveGuest(team Team, name string) {
	guests := m.guestList(team)
	if i := slices.Index(*guests, name); i >= 0 {
		*guests = slices.Delete(*guests, i, i+1)
	}
}

// Players returns the ordered member ids on team.
func (m *Match) Players(team Team) []uuid.UUID {
	return *m.teamList(team)
}

// Guests returns the guest names on team.
func (m *Match) Guests(team Team) []string {
	return *m.guestList(team)
}

// Captain returns the captain of team, or nil.
func (m *Match) Captain(team Team) *uuid.UUID {
	return *m.captainRef(team)
}

// SetCaptain makes id captain of team. id must already play for team.
func (m *Match) SetCaptain(team Team, id uuid.UUID) error {
	if !slices.Contains(m.Players(team), id) {
		return ErrValidation(fmt.Sprintf("member %s is not on team %s", id, team))
	}
	captain := id
	*m.captainRef(team) = &captain
	return nil
}

// Absentees returns every member who did not actively confirm: not available first,
// then unconfirmed.
func (m *Match) Absentees() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(m.NotAvailable)+len(m.Unconfirmed))
	out = append(out, m.NotAvailable...)
	for _, id := range m.Unconfirmed {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// Captains returns the set captains, team A first.
func (m *Match) Captains() []uuid.UUID {
	var out []uuid.UUID
	if m.CaptainA != nil {
		out = append(out, *m.CaptainA)
	}
	if m.CaptainB != nil {
		out = append(out, *m.CaptainB)
	}
	return out
}

func (m *Match) teamList(team Team) *[]uuid.UUID {
	if team == TeamB {
		return &m.TeamB
	}
	return &m.TeamA
}

func (m *Match) guestList(team Team) *[]string {
	if team == TeamB {
		return &m.TeamBGuests
	}
	return &m.TeamAGuests
}

func (m *Match) captainRef(team Team) **uuid.UUID {
	if team == TeamB {
		return &m.CaptainB
	}
	return &m.CaptainA
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	return slices.DeleteFunc(ids, func(v uuid.UUID) bool { return v == id })
}

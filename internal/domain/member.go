package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the authorization role stored on a member.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Member represents a members row.
type Member struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Surname        string    `json:"surname"`
	Alias          string    `json:"alias,omitempty"`
	Phone          string    `json:"phone"`
	Role           Role      `json:"role"`
	PasswordHash   string    `json:"-"`
	Nonce          int64     `json:"-"`
	CaptaincyCount int       `json:"captaincy_count"`
	Injured        bool      `json:"injured"`
	Blocked        bool      `json:"blocked"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Identity returns the "name.surname" login identity of the member.
func (m *Member) Identity() string {
	return m.Name + "." + m.Surname
}

// DisplayName is the "name surname" form shown in match and ledger views.
func (m *Member) DisplayName() string {
	return m.Name + " " + m.Surname
}

// MemberIdentity is the directory lookup key derived from an authenticated identity.
type MemberIdentity struct {
	Name    string
	Surname string
}

// ParseMemberIdentity splits "name.surname" into its two components.
// Anything other than exactly two non-empty components is reported as an unknown member.
func ParseMemberIdentity(identity string) (MemberIdentity, error) {
	parts := strings.Split(identity, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return MemberIdentity{}, ErrMemberNotFound(identity)
	}
	return MemberIdentity{Name: parts[0], Surname: parts[1]}, nil
}

func (id MemberIdentity) String() string {
	return id.Name + "." + id.Surname
}

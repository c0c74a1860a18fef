package auth

import "github.com/matchday/platform/internal/domain"

// AllRoles returns every role allowed on authenticated routes.
func AllRoles() []domain.Role {
	return []domain.Role{domain.RoleUser, domain.RoleAdmin}
}

// WriteRoles returns roles that can administer matches, members and movements.
func WriteRoles() []domain.Role {
	return []domain.Role{domain.RoleAdmin}
}

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/matchday/platform/internal/domain"
)

// Claims holds the custom JWT claims. Subject is the "name.surname" identity.
type Claims struct {
	jwt.RegisteredClaims
	MemberID string      `json:"member_id"`
	Role     domain.Role `json:"role"`
}

// JWTManager handles token generation and validation with role-specific expiry.
type JWTManager struct {
	secret       []byte
	clock        clockwork.Clock
	memberExpiry time.Duration
	adminExpiry  time.Duration
}

// NewJWTManager creates a JWT manager with role-specific expiry durations.
func NewJWTManager(secret string, clock clockwork.Clock, memberExpiry, adminExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:       []byte(secret),
		clock:        clock,
		memberExpiry: memberExpiry,
		adminExpiry:  adminExpiry,
	}
}

// GenerateToken creates a signed JWT for the given member.
func (m *JWTManager) GenerateToken(member *domain.Member) (string, error) {
	var expiry time.Duration
	switch member.Role {
	case domain.RoleUser:
		expiry = m.memberExpiry
	case domain.RoleAdmin:
		expiry = m.adminExpiry
	default:
		return "", fmt.Errorf("unknown role: %s", member.Role)
	}

	now := m.clock.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   member.Identity(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			ID:        uuid.New().String(),
		},
		MemberID: member.ID.String(),
		Role:     member.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken parses and validates a JWT, returning claims if valid.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.clock.Now))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("invalid role claim: %q", claims.Role)
	}

	return claims, nil
}

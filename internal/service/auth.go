package service

import (
	"context"
	"log/slog"

	"github.com/matchday/platform/internal/auth"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/guard"
	"github.com/matchday/platform/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// loginFailed is the only message a rejected login ever carries.
const loginFailed = "user or password incorrect"

// AuthService handles member login.
type AuthService struct {
	db      repository.DBTX
	members repository.MemberRepository
	jwtMgr  *auth.JWTManager
	lockout *guard.Lockout
	logger  *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	db repository.DBTX,
	members repository.MemberRepository,
	jwtMgr *auth.JWTManager,
	lockout *guard.Lockout,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		db:      db,
		members: members,
		jwtMgr:  jwtMgr,
		lockout: lockout,
		logger:  logger,
	}
}

// LoginInput holds the login request fields. Nonce must grow with every login.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nonce    int64  `json:"nonce"`
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token string `json:"jwt"`
}

// Login authenticates a member by "name.surname" and password. The nonce must
// be strictly greater than the last accepted one and is stored on success.
// Every credential rejection is reported as the same FORBIDDEN error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if err := s.lockout.CheckLocked(ctx, input.Username); err != nil {
		return nil, err
	}

	member, reason, err := s.authenticate(ctx, input)
	if err != nil {
		return nil, err
	}
	if member == nil {
		s.lockout.RecordAttempt(ctx, input.Username, false)
		s.logger.Warn("login rejected", "username", input.Username, "reason", reason)
		return nil, domain.ErrForbidden(loginFailed)
	}

	token, err := s.jwtMgr.GenerateToken(member)
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}

	s.lockout.RecordAttempt(ctx, input.Username, true)
	s.logger.Info("login", "member", member.Identity(), "role", member.Role)
	return &LoginResult{Token: token}, nil
}

// authenticate returns the member on success, or nil and a log-only reason
// for a credential failure. Storage errors come back as INTERNAL_ERROR and are
// not counted as failed attempts.
func (s *AuthService) authenticate(ctx context.Context, input LoginInput) (*domain.Member, string, error) {
	id, err := domain.ParseMemberIdentity(input.Username)
	if err != nil {
		return nil, "malformed username", nil
	}

	member, err := s.members.FindByName(ctx, s.db, id.Name, id.Surname)
	if err != nil {
		return nil, "", domain.ErrInternal("find member", err)
	}
	if member == nil {
		return nil, "unknown member", nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "bad password", nil
	}

	advanced, err := s.members.AdvanceNonce(ctx, s.db, member.ID, input.Nonce)
	if err != nil {
		return nil, "", domain.ErrInternal("store nonce", err)
	}
	if !advanced {
		return nil, "stale nonce", nil
	}
	return member, "", nil
}

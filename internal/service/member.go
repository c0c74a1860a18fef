package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// MemberService manages the member directory.
type MemberService struct {
	db        repository.DBTX
	tx        repository.Transactor
	members   repository.MemberRepository
	movements repository.MovementRepository
	logger    *slog.Logger
}

// NewMemberService creates a new MemberService.
func NewMemberService(
	db repository.DBTX,
	tx repository.Transactor,
	members repository.MemberRepository,
	movements repository.MovementRepository,
	logger *slog.Logger,
) *MemberService {
	return &MemberService{db: db, tx: tx, members: members, movements: movements, logger: logger}
}

// MemberView is a member as returned to clients.
type MemberView struct {
	domain.Member
	Balance float64 `json:"balance"`
}

// CreateMemberInput holds the fields of a new member.
type CreateMemberInput struct {
	Name     string      `json:"name"`
	Surname  string      `json:"surname"`
	Alias    string      `json:"alias"`
	Phone    string      `json:"phone"`
	Role     domain.Role `json:"role"`
	Password string      `json:"password"`
}

// UpdateMemberInput holds the editable fields of a member.
type UpdateMemberInput struct {
	Name           string      `json:"name"`
	Surname        string      `json:"surname"`
	Alias          string      `json:"alias"`
	Phone          string      `json:"phone"`
	Role           domain.Role `json:"role"`
	CaptaincyCount int         `json:"captaincy_count"`
}

func validateMemberFields(name, surname, phone string, role domain.Role) error {
	if err := domain.ValidateMemberName("name", name); err != nil {
		return domain.ErrValidation(err.Error())
	}
	if err := domain.ValidateMemberName("surname", surname); err != nil {
		return domain.ErrValidation(err.Error())
	}
	if err := domain.ValidatePhone(phone); err != nil {
		return domain.ErrValidation(err.Error())
	}
	if !role.Valid() {
		return domain.ErrValidation("role must be ADMIN or USER")
	}
	return nil
}

// Create registers a member. Without an explicit password the initial one is
// the member's "name.surname" identity.
func (s *MemberService) Create(ctx context.Context, input CreateMemberInput) (*MemberView, error) {
	if input.Role == "" {
		input.Role = domain.RoleUser
	}
	if err := validateMemberFields(input.Name, input.Surname, input.Phone, input.Role); err != nil {
		return nil, err
	}

	member := &domain.Member{
		ID:      uuid.New(),
		Name:    input.Name,
		Surname: input.Surname,
		Alias:   input.Alias,
		Phone:   input.Phone,
		Role:    input.Role,
	}

	password := input.Password
	if password == "" {
		password = member.Identity()
	} else if err := domain.ValidatePassword(password); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.ErrInternal("hash password", err)
	}
	member.PasswordHash = string(hash)

	err = s.tx.WithinTx(ctx, func(tx repository.DBTX) error {
		existing, err := s.members.FindByName(ctx, tx, member.Name, member.Surname)
		if err != nil {
			return domain.ErrInternal("find member", err)
		}
		if existing != nil {
			return domain.ErrMemberAlreadyExists(member.Identity())
		}
		if err := s.members.Create(ctx, tx, member); err != nil {
			return domain.ErrInternal("create member", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("member created", "member_id", member.ID, "member", member.Identity(), "role", member.Role)
	return &MemberView{Member: *member}, nil
}

// Get returns a member with their balance.
func (s *MemberService) Get(ctx context.Context, id uuid.UUID) (*MemberView, error) {
	member, err := s.members.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, domain.ErrInternal("find member", err)
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound(id.String())
	}
	return s.view(ctx, member)
}

// GetByIdentity returns the member behind a "name.surname" identity.
func (s *MemberService) GetByIdentity(ctx context.Context, identity string) (*MemberView, error) {
	member, err := findByIdentity(ctx, s.members, s.db, identity)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, member)
}

// List returns every non-admin member with their balance.
func (s *MemberService) List(ctx context.Context) ([]MemberView, error) {
	members, err := s.members.ListNonAdmin(ctx, s.db)
	if err != nil {
		return nil, domain.ErrInternal("list members", err)
	}
	views := make([]MemberView, 0, len(members))
	for i := range members {
		v, err := s.view(ctx, &members[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

// Update rewrites the editable fields of a member.
func (s *MemberService) Update(ctx context.Context, id uuid.UUID, input UpdateMemberInput) (*MemberView, error) {
	if err := validateMemberFields(input.Name, input.Surname, input.Phone, input.Role); err != nil {
		return nil, err
	}
	if input.CaptaincyCount < 0 {
		return nil, domain.ErrValidation("captaincy count must not be negative")
	}

	var updated *domain.Member
	err := s.tx.WithinTx(ctx, func(tx repository.DBTX) error {
		member, err := s.members.FindByID(ctx, tx, id)
		if err != nil {
			return domain.ErrInternal("find member", err)
		}
		if member == nil {
			return domain.ErrMemberNotFound(id.String())
		}

		clash, err := s.members.FindByName(ctx, tx, input.Name, input.Surname)
		if err != nil {
			return domain.ErrInternal("find member", err)
		}
		if clash != nil && clash.ID != id {
			return domain.ErrMemberAlreadyExists(clash.Identity())
		}

		member.Name = input.Name
		member.Surname = input.Surname
		member.Alias = input.Alias
		member.Phone = input.Phone
		member.Role = input.Role
		member.CaptaincyCount = input.CaptaincyCount
		if err := s.members.Update(ctx, tx, member); err != nil {
			return domain.ErrInternal("update member", err)
		}
		updated = member
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, updated)
}

// Delete removes a member.
func (s *MemberService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.members.Delete(ctx, s.db, id)
	if err != nil {
		return domain.ErrInternal("delete member", err)
	}
	if !deleted {
		return domain.ErrMemberNotFound(id.String())
	}
	s.logger.Info("member deleted", "member_id", id)
	return nil
}

// SetInjured flags or unflags a member as injured.
func (s *MemberService) SetInjured(ctx context.Context, id uuid.UUID, injured bool) (*MemberView, error) {
	return s.setFlag(ctx, id, func(tx repository.DBTX) error {
		return s.members.SetInjured(ctx, tx, id, injured)
	})
}

// SetBlocked flags or unflags a member as blocked.
func (s *MemberService) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) (*MemberView, error) {
	return s.setFlag(ctx, id, func(tx repository.DBTX) error {
		return s.members.SetBlocked(ctx, tx, id, blocked)
	})
}

func (s *MemberService) setFlag(ctx context.Context, id uuid.UUID, set func(tx repository.DBTX) error) (*MemberView, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := set(s.db); err != nil {
		return nil, domain.ErrInternal("update member", err)
	}
	return s.Get(ctx, id)
}

// ChangePassword replaces the password of the member behind identity.
func (s *MemberService) ChangePassword(ctx context.Context, identity, password string) error {
	if err := domain.ValidatePassword(password); err != nil {
		return domain.ErrValidation(err.Error())
	}
	member, err := findByIdentity(ctx, s.members, s.db, identity)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.ErrInternal("hash password", err)
	}
	if err := s.members.UpdatePassword(ctx, s.db, member.ID, string(hash)); err != nil {
		return domain.ErrInternal("update password", err)
	}
	s.logger.Info("password changed", "member", identity)
	return nil
}

// ChangeAlias replaces the alias of the member behind identity.
func (s *MemberService) ChangeAlias(ctx context.Context, identity, alias string) (*MemberView, error) {
	member, err := findByIdentity(ctx, s.members, s.db, identity)
	if err != nil {
		return nil, err
	}
	member.Alias = alias
	if err := s.members.Update(ctx, s.db, member); err != nil {
		return nil, domain.ErrInternal("update member", err)
	}
	return s.view(ctx, member)
}

// Movements returns one page of a member's movements, newest first.
func (s *MemberService) Movements(ctx context.Context, id uuid.UUID, page, size int) (*domain.MovementPage, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	result, err := s.movements.List(ctx, s.db, domain.MovementFilter{MemberID: &id, Page: page, Size: size})
	if err != nil {
		return nil, domain.ErrInternal("list movements", err)
	}
	return result, nil
}

func (s *MemberService) view(ctx context.Context, member *domain.Member) (*MemberView, error) {
	balance, err := s.movements.SumByMember(ctx, s.db, member.ID)
	if err != nil {
		return nil, domain.ErrInternal("member balance", err)
	}
	return &MemberView{Member: *member, Balance: balance}, nil
}

// findByIdentity resolves a "name.surname" identity to a member.
func findByIdentity(ctx context.Context, members repository.MemberRepository, db repository.DBTX, identity string) (*domain.Member, error) {
	id, err := domain.ParseMemberIdentity(identity)
	if err != nil {
		return nil, err
	}
	member, err := members.FindByName(ctx, db, id.Name, id.Surname)
	if err != nil {
		return nil, domain.ErrInternal("find member", err)
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound(identity)
	}
	return member, nil
}

// errorCode extracts the AppError code of err, defaulting to INTERNAL_ERROR.
func errorCode(err error) string {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return domain.CodeInternal
}

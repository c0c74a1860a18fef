package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/ledger"
	"github.com/matchday/platform/internal/repository"
)

// MovementService exposes the member and team ledgers.
type MovementService struct {
	db        repository.DBTX
	tx        repository.Transactor
	engine    *ledger.Engine
	members   repository.MemberRepository
	movements repository.MovementRepository
	team      repository.TeamMovementRepository
	annualFee float64
	logger    *slog.Logger
}

// MovementServiceDeps holds the collaborators of a MovementService.
type MovementServiceDeps struct {
	DB        repository.DBTX
	Tx        repository.Transactor
	Engine    *ledger.Engine
	Members   repository.MemberRepository
	Movements repository.MovementRepository
	Team      repository.TeamMovementRepository
	AnnualFee float64
	Logger    *slog.Logger
}

// NewMovementService creates a new MovementService.
func NewMovementService(deps MovementServiceDeps) *MovementService {
	return &MovementService{
		db:        deps.DB,
		tx:        deps.Tx,
		engine:    deps.Engine,
		members:   deps.Members,
		movements: deps.Movements,
		team:      deps.Team,
		annualFee: deps.AnnualFee,
		logger:    deps.Logger,
	}
}

// MovementView is a movement with its owner's display name. The name is
// "Not found" when the member no longer exists.
type MovementView struct {
	domain.Movement
	MemberName string `json:"member_name"`
}

// MovementPageView is one page of MovementViews.
type MovementPageView struct {
	Movements []MovementView `json:"movements"`
	Page      int            `json:"page"`
	Size      int            `json:"size"`
	Total     int64          `json:"total"`
}

// MovementInput holds the client fields of a movement.
type MovementInput struct {
	MemberID    uuid.UUID           `json:"member_id"`
	Type        domain.MovementType `json:"type"`
	Amount      float64             `json:"amount"`
	Description string              `json:"description"`
}

// AmendInput holds the editable fields of a movement.
type AmendInput struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// Create appends a movement for a member.
func (s *MovementService) Create(ctx context.Context, input MovementInput) (*MovementView, error) {
	var mv *domain.Movement
	err := s.tx.WithinTx(ctx, func(tx repository.DBTX) error {
		var err error
		mv, err = s.engine.ExecutePost(ctx, tx, domain.PostMovementParams{
			MemberID:    input.MemberID,
			Type:        input.Type,
			Amount:      input.Amount,
			Description: input.Description,
		})
		return err
	})
	if err != nil {
		return nil, asAppError("post movement", err)
	}

	s.logger.Info("movement posted", "movement_id", mv.ID, "member_id", mv.MemberID, "type", mv.Type, "amount", mv.Amount)
	return s.view(ctx, mv)
}

// Get returns a movement by id.
func (s *MovementService) Get(ctx context.Context, id uuid.UUID) (*MovementView, error) {
	mv, err := s.movements.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, domain.ErrInternal("find movement", err)
	}
	if mv == nil {
		return nil, domain.ErrMovementNotFound(id.String())
	}
	return s.view(ctx, mv)
}

// List returns one page of movements matching filter.
func (s *MovementService) List(ctx context.Context, filter domain.MovementFilter) (*MovementPageView, error) {
	page, err := s.movements.List(ctx, s.db, filter)
	if err != nil {
		return nil, domain.ErrInternal("list movements", err)
	}

	out := &MovementPageView{
		Movements: make([]MovementView, 0, len(page.Movements)),
		Page:      page.Page,
		Size:      page.Size,
		Total:     page.Total,
	}
	names := make(map[uuid.UUID]string)
	for _, mv := range page.Movements {
		name, ok := names[mv.MemberID]
		if !ok {
			name, err = s.memberName(ctx, mv.MemberID)
			if err != nil {
				return nil, err
			}
			names[mv.MemberID] = name
		}
		out.Movements = append(out.Movements, MovementView{Movement: mv, MemberName: name})
	}
	return out, nil
}

// Update rewrites amount and description of a movement.
func (s *MovementService) Update(ctx context.Context, id uuid.UUID, input AmendInput) (*MovementView, error) {
	var mv *domain.Movement
	err := s.tx.WithinTx(ctx, func(tx repository.DBTX) error {
		var err error
		mv, err = s.engine.ExecuteAmend(ctx, tx, id, input.Amount, input.Description)
		return err
	})
	if err != nil {
		return nil, asAppError("amend movement", err)
	}
	return s.view(ctx, mv)
}

// Delete removes a movement.
func (s *MovementService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.engine.ExecuteRemove(ctx, s.db, id); err != nil {
		return asAppError("remove movement", err)
	}
	s.logger.Info("movement deleted", "movement_id", id)
	return nil
}

// Totals aggregates member movements by type.
func (s *MovementService) Totals(ctx context.Context) (domain.LedgerTotals, error) {
	totals, err := s.movements.Totals(ctx, s.db)
	if err != nil {
		return domain.LedgerTotals{}, domain.ErrInternal("movement totals", err)
	}
	return totals, nil
}

// ChargeAnnualFee posts the configured annual fee to every non-admin member.
func (s *MovementService) ChargeAnnualFee(ctx context.Context) ([]domain.Movement, error) {
	var charged []domain.Movement
	err := s.tx.WithinTx(ctx, func(tx repository.DBTX) error {
		var err error
		charged, err = s.engine.ChargeAnnualFee(ctx, tx, s.annualFee)
		return err
	})
	if err != nil {
		return nil, asAppError("charge annual fee", err)
	}

	s.logger.Info("annual fee charged", "members", len(charged), "amount", s.annualFee)
	return charged, nil
}

// CreateTeam appends a club-level movement.
func (s *MovementService) CreateTeam(ctx context.Context, input MovementInput) (*domain.TeamMovement, error) {
	var mv *domain.TeamMovement
	err := s.tx.WithinTx(ctx, func(tx repository.DBTX) error {
		var err error
		mv, err = s.engine.ExecuteTeamPost(ctx, tx, domain.PostTeamMovementParams{
			Type:        input.Type,
			Amount:      input.Amount,
			Description: input.Description,
		})
		return err
	})
	if err != nil {
		return nil, asAppError("post team movement", err)
	}

	s.logger.Info("team movement posted", "movement_id", mv.ID, "type", mv.Type, "amount", mv.Amount)
	return mv, nil
}

// GetTeam returns a team movement by id.
func (s *MovementService) GetTeam(ctx context.Context, id uuid.UUID) (*domain.TeamMovement, error) {
	mv, err := s.team.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, domain.ErrInternal("find team movement", err)
	}
	if mv == nil {
		return nil, domain.ErrMovementNotFound(id.String())
	}
	return mv, nil
}

// ListTeam returns every team movement, oldest first.
func (s *MovementService) ListTeam(ctx context.Context) ([]domain.TeamMovement, error) {
	list, err := s.team.List(ctx, s.db)
	if err != nil {
		return nil, domain.ErrInternal("list team movements", err)
	}
	if list == nil {
		list = []domain.TeamMovement{}
	}
	return list, nil
}

// UpdateTeam rewrites amount and description of a team movement.
func (s *MovementService) UpdateTeam(ctx context.Context, id uuid.UUID, input AmendInput) (*domain.TeamMovement, error) {
	mv, err := s.engine.ExecuteTeamAmend(ctx, s.db, id, input.Amount, input.Description)
	if err != nil {
		return nil, asAppError("amend team movement", err)
	}
	return mv, nil
}

// DeleteTeam removes a team movement.
func (s *MovementService) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	if err := s.engine.ExecuteTeamRemove(ctx, s.db, id); err != nil {
		return asAppError("remove team movement", err)
	}
	return nil
}

// ClubBalance returns the club-wide totals.
func (s *MovementService) ClubBalance(ctx context.Context) (domain.LedgerTotals, error) {
	totals, err := s.engine.ClubBalance(ctx, s.db)
	if err != nil {
		return domain.LedgerTotals{}, asAppError("club balance", err)
	}
	return totals, nil
}

func (s *MovementService) view(ctx context.Context, mv *domain.Movement) (*MovementView, error) {
	name, err := s.memberName(ctx, mv.MemberID)
	if err != nil {
		return nil, err
	}
	return &MovementView{Movement: *mv, MemberName: name}, nil
}

func (s *MovementService) memberName(ctx context.Context, id uuid.UUID) (string, error) {
	member, err := s.members.FindByID(ctx, s.db, id)
	if err != nil {
		return "", domain.ErrInternal("find member", err)
	}
	if member == nil {
		return NotFoundName, nil
	}
	return member.DisplayName(), nil
}

// asAppError passes AppErrors through and wraps anything else as INTERNAL_ERROR.
func asAppError(msg string, err error) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return domain.ErrInternal(msg, err)
}

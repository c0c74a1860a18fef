package app

import (
	"context"
	"log/slog"

	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/service"
)

// BootstrapAdmin creates the initial administrator. An existing member with
// the same name is left untouched.
func BootstrapAdmin(ctx context.Context, members *service.MemberService, input service.CreateMemberInput, logger *slog.Logger) error {
	if input.Name == "" {
		return nil
	}
	input.Role = domain.RoleAdmin

	m, err := members.Create(ctx, input)
	if domain.HasCode(err, domain.CodeMemberAlreadyExists) {
		logger.Debug("bootstrap admin already exists", "name", input.Name, "surname", input.Surname)
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("bootstrap admin created", "member_id", m.ID, "identity", m.Identity())
	return nil
}

package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/matchday/platform/internal/auth"
	"github.com/matchday/platform/internal/guard"
	"github.com/matchday/platform/internal/handler"
	adminhandler "github.com/matchday/platform/internal/handler/admin"
	"github.com/matchday/platform/internal/ledger"
	"github.com/matchday/platform/internal/service"
	"github.com/matchday/platform/internal/settlement"
)

// Services is the assembled service layer.
type Services struct {
	Matches   *service.MatchService
	Members   *service.MemberService
	Movements *service.MovementService
	Auth      *service.AuthService
}

// ServiceConfig holds the tunables of the service layer.
type ServiceConfig struct {
	JWTMgr    *auth.JWTManager
	Clock     clockwork.Clock
	Picker    service.Picker
	AnnualFee float64
	Logger    *slog.Logger
}

// NewServices builds every service over backend.
func NewServices(b *Backend, cfg ServiceConfig) *Services {
	engine := ledger.NewEngine(b.Members, b.Movements, b.TeamMovements, b.Outbox)

	return &Services{
		Matches: service.NewMatchService(service.MatchServiceDeps{
			DB:         b.DB,
			Tx:         b.Tx,
			Matches:    b.Matches,
			Members:    b.Members,
			Outbox:     b.Outbox,
			Settlement: settlement.NewMatchSettlement(engine, b.Members),
			Locks:      guard.NewKeyedMutex(),
			Clock:      cfg.Clock,
			Picker:     cfg.Picker,
			Logger:     cfg.Logger,
		}),
		Members: service.NewMemberService(b.DB, b.Tx, b.Members, b.Movements, cfg.Logger),
		Movements: service.NewMovementService(service.MovementServiceDeps{
			DB:        b.DB,
			Tx:        b.Tx,
			Engine:    engine,
			Members:   b.Members,
			Movements: b.Movements,
			Team:      b.TeamMovements,
			AnnualFee: cfg.AnnualFee,
			Logger:    cfg.Logger,
		}),
		Auth: service.NewAuthService(
			b.DB,
			b.Members,
			cfg.JWTMgr,
			guard.NewLockout(b.DB, b.LoginAttempts, cfg.Clock, cfg.Logger),
			cfg.Logger,
		),
	}
}

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Backend         *Backend
	Services        *Services
	JWTMgr          *auth.JWTManager
	Clock           clockwork.Clock
	Logger          *slog.Logger
	CORSOrigins     []string
	IdempotencyTTL  time.Duration
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	svc := deps.Services
	jwtMgr := deps.JWTMgr
	logger := deps.Logger

	// Guards
	loginLimiter := guard.NewRateLimiter(deps.Clock, deps.LoginRateLimit, deps.LoginRateWindow)
	idempotency := guard.NewIdempotencyGuard(deps.Clock, deps.IdempotencyTTL)

	// Handlers
	authHandler := handler.NewAuthHandler(svc.Auth)
	matchHandler := handler.NewMatchHandler(svc.Matches)
	memberHandler := handler.NewMemberHandler(svc.Members)
	movementHandler := handler.NewMovementHandler(svc.Movements)

	// Admin handlers
	matchAdmin := adminhandler.NewMatchAdminHandler(svc.Matches)
	memberAdmin := adminhandler.NewMemberAdminHandler(svc.Members)
	movementAdmin := adminhandler.NewMovementAdminHandler(svc.Movements)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS(deps.CORSOrigins))
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(pingFunc(deps.Backend.Ping)))

	r.Route("/v1", func(r chi.Router) {
		// Login (no auth)
		r.With(handler.RateLimit(loginLimiter)).Post("/login", authHandler.Login)

		// Member-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate(jwtMgr))
			r.Use(auth.RequireRole(auth.AllRoles()...))

			adminOnly := []func(http.Handler) http.Handler{
				auth.RequireRole(auth.WriteRoles()...),
				handler.Idempotency(idempotency),
			}

			r.Route("/matches", func(r chi.Router) {
				r.Get("/", matchHandler.ListClosed)
				r.Get("/next", matchHandler.Next)
				r.Get("/{id}", matchHandler.Get)
				r.Post("/{id}/players", matchHandler.SetAvailability)

				r.Group(func(r chi.Router) {
					r.Use(adminOnly...)
					r.Post("/", matchAdmin.Create)
					r.Post("/sweep", matchAdmin.Sweep)
					r.Delete("/{id}", matchAdmin.Delete)
					r.Post("/{id}/close", matchAdmin.Close)
					r.Post("/{id}/players/{playerId}/team/{team}", matchAdmin.AssignTeam)
					r.Delete("/{id}/players/{playerId}/team/{team}", matchAdmin.RemoveTeam)
					r.Post("/{id}/guests/team/{team}", matchAdmin.AddGuest)
					r.Delete("/{id}/guests/team/{team}", matchAdmin.RemoveGuest)
					r.Post("/{id}/captain/{team}", matchAdmin.SelectCaptain)
				})
			})

			r.Route("/members", func(r chi.Router) {
				r.Get("/", memberHandler.List)
				r.Get("/me", memberHandler.GetMe)
				r.Patch("/me/password", memberHandler.ChangePassword)
				r.Patch("/me/alias", memberHandler.ChangeAlias)
				r.Get("/{id}", memberHandler.Get)
				r.Get("/{id}/movements", memberHandler.Movements)

				r.Group(func(r chi.Router) {
					r.Use(adminOnly...)
					r.Post("/", memberAdmin.Create)
					r.Put("/{id}", memberAdmin.Update)
					r.Delete("/{id}", memberAdmin.Delete)
					r.Patch("/{id}/injured", memberAdmin.SetInjured)
					r.Patch("/{id}/blocked", memberAdmin.SetBlocked)
				})
			})

			r.Route("/movements", func(r chi.Router) {
				r.Get("/", movementHandler.List)
				r.Get("/balance", movementHandler.Balance)
				r.Get("/{id}", movementHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(adminOnly...)
					r.Post("/", movementAdmin.Create)
					r.Post("/annual-fee", movementAdmin.AnnualFee)
					r.Put("/{id}", movementAdmin.Update)
					r.Delete("/{id}", movementAdmin.Delete)
				})
			})

			r.Route("/team/movements", func(r chi.Router) {
				r.Get("/", movementHandler.ListTeam)
				r.Get("/balance", movementHandler.TeamBalance)
				r.Get("/{id}", movementHandler.GetTeam)

				r.Group(func(r chi.Router) {
					r.Use(adminOnly...)
					r.Post("/", movementAdmin.CreateTeam)
					r.Put("/{id}", movementAdmin.UpdateTeam)
					r.Delete("/{id}", movementAdmin.DeleteTeam)
				})
			})
		})
	})

	return r
}

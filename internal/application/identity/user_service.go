package identity

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// UserService handles user and team management
type UserService struct {
	userRepo       identity.UserRepository
	teamRepo       identity.TeamRepository
	blacklist      auth.TokenBlacklist
	sessionTTL     time.Duration
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// UserServiceConfig holds the dependencies of UserService
type UserServiceConfig struct {
	UserRepo  identity.UserRepository
	TeamRepo  identity.TeamRepository
	Blacklist auth.TokenBlacklist
	// SessionTTL bounds how long a deactivation must keep old tokens revoked.
	// It should match the refresh token lifetime.
	SessionTTL     time.Duration
	EventPublisher shared.EventPublisher
	Logger         *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(cfg UserServiceConfig) *UserService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo:       cfg.UserRepo,
		teamRepo:       cfg.TeamRepo,
		blacklist:      cfg.Blacklist,
		sessionTTL:     cfg.SessionTTL,
		eventPublisher: cfg.EventPublisher,
		logger:         logger,
	}
}

// Create creates a new active user
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	s.logger.Info("Creating new user", zap.String("username", input.Username))

	user, err := identity.NewUser(input.Name, input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, user.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("USERNAME_EXISTS", "Username already exists")
	}

	if input.Email != "" {
		if err := user.SetEmail(input.Email); err != nil {
			return nil, err
		}
	}
	if input.TeamID != nil {
		if err := s.ensureTeam(ctx, *input.TeamID); err != nil {
			return nil, err
		}
		user.SetTeam(input.TeamID)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, user, identity.NewUserCreatedEvent(user))

	s.logger.Info("User created successfully",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username))

	return toUserDTO(user), nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

// List retrieves a paginated list of users
func (s *UserService) List(ctx context.Context, input UserListFilter) (*UserListResult, error) {
	filter := identity.NewUserFilter().WithKeyword(input.Keyword)
	if input.Page > 0 || input.PageSize > 0 {
		page, pageSize := input.Page, input.PageSize
		if page <= 0 {
			page = 1
		}
		if pageSize <= 0 {
			pageSize = 20
		}
		filter = filter.WithPagination(page, pageSize)
	}
	if input.Active != nil {
		filter = filter.WithActive(*input.Active)
	}
	if input.TeamID != nil {
		filter = filter.WithTeam(*input.TeamID)
	}
	if input.SortBy != "" {
		filter.SortBy = input.SortBy
	}
	if input.SortOrder != "" {
		filter.SortOrder = input.SortOrder
	}

	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = *toUserDTO(u)
	}

	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &UserListResult{
		Users:      page.Items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// Update applies the non-nil fields of input
func (s *UserService) Update(ctx context.Context, id int64, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := user.Rename(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Email != nil {
		if err := user.SetEmail(*input.Email); err != nil {
			return nil, err
		}
	}
	if input.Password != nil {
		if err := user.SetPassword(*input.Password); err != nil {
			return nil, err
		}
	}
	if input.TeamID != nil {
		if *input.TeamID == 0 {
			user.SetTeam(nil)
		} else {
			if err := s.ensureTeam(ctx, *input.TeamID); err != nil {
				return nil, err
			}
			user.SetTeam(input.TeamID)
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return toUserDTO(user), nil
}

// Activate re-enables a user
func (s *UserService) Activate(ctx context.Context, id int64) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Activate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, user)
	return toUserDTO(user), nil
}

// Deactivate disables a user and revokes every session it holds
func (s *UserService) Deactivate(ctx context.Context, id int64) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if s.blacklist != nil {
		if err := s.blacklist.RevokeUser(ctx, user.ID, s.sessionTTL); err != nil {
			// refresh still checks the active flag, so sessions die at access token expiry
			s.logger.Error("Failed to revoke sessions of deactivated user",
				zap.Int64("user_id", user.ID),
				zap.Error(err))
		}
	}

	s.publish(ctx, user)
	return toUserDTO(user), nil
}

// CreateTeam creates a team
func (s *UserService) CreateTeam(ctx context.Context, input CreateTeamInput) (*TeamDTO, error) {
	team, err := identity.NewTeam(input.Name, input.Description)
	if err != nil {
		return nil, err
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}

	dto := toTeamDTO(team)
	return &dto, nil
}

// ListTeams lists all teams by name
func (s *UserService) ListTeams(ctx context.Context) ([]TeamDTO, error) {
	teams, err := s.teamRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]TeamDTO, len(teams))
	for i, t := range teams {
		dtos[i] = toTeamDTO(t)
	}
	return dtos, nil
}

func (s *UserService) ensureTeam(ctx context.Context, teamID int64) error {
	if _, err := s.teamRepo.FindByID(ctx, teamID); err != nil {
		if shared.IsNotFound(err) {
			return shared.NewValidationError("team_id", "does not identify a team")
		}
		return err
	}
	return nil
}

// publish sends the aggregate's pending events plus any extra ones.
// Failures are logged only.
func (s *UserService) publish(ctx context.Context, user *identity.User, extra ...shared.DomainEvent) {
	events := append(user.GetDomainEvents(), extra...)
	user.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish user events",
			zap.Int64("user_id", user.ID),
			zap.Error(err))
	}
}

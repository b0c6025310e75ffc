package identity

import (
	"time"

	"github.com/crm/backend/internal/domain/identity"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Username string
	Password string
	IP       string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserDTO   `json:"user"`
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID int64
	// AccessJTI and AccessTTL identify the access token in use
	AccessJTI    string
	AccessTTL    time.Duration
	RefreshToken string
}

// CreateUserInput contains input for creating a user
type CreateUserInput struct {
	Name     string `json:"name" binding:"required,max=200"`
	Username string `json:"username" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"omitempty,email,max=200"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	TeamID   *int64 `json:"team_id" binding:"omitempty,gt=0"`
}

// UpdateUserInput contains input for updating a user. Nil fields are left unchanged.
type UpdateUserInput struct {
	Name     *string `json:"name" binding:"omitempty,max=200"`
	Email    *string `json:"email" binding:"omitempty,max=200"`
	Password *string `json:"password" binding:"omitempty,min=8,max=72"`
	TeamID   *int64  `json:"team_id" binding:"omitempty,gte=0"`
}

// UserListFilter represents filter options for the user list
type UserListFilter struct {
	Keyword   string `form:"search"`
	Active    *bool  `form:"active"`
	TeamID    *int64 `form:"team_id"`
	Page      int    `form:"page" binding:"min=0"`
	PageSize  int    `form:"page_size" binding:"min=0,max=100"`
	SortBy    string `form:"order_by"`
	SortOrder string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// UserDTO represents user data transfer object
type UserDTO struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	TeamID      *int64     `json:"team_id,omitempty"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserListResult represents paginated user list result
type UserListResult struct {
	Users      []UserDTO `json:"users"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// CreateTeamInput contains input for creating a team
type CreateTeamInput struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"max=1000"`
}

// TeamDTO represents a team
type TeamDTO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toUserDTO(u *identity.User) *UserDTO {
	return &UserDTO{
		ID:          u.ID,
		Name:        u.DisplayName(),
		Username:    u.Username,
		Email:       u.Email,
		TeamID:      u.TeamID,
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func toTeamDTO(t *identity.Team) TeamDTO {
	return TeamDTO{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/crm/backend/internal/application/identity"
)

// UserService is the part of identity.UserService the handler uses.
type UserService interface {
	Create(ctx context.Context, input identity.CreateUserInput) (*identity.UserDTO, error)
	GetByID(ctx context.Context, id int64) (*identity.UserDTO, error)
	List(ctx context.Context, filter identity.UserListFilter) (*identity.UserListResult, error)
	Update(ctx context.Context, id int64, input identity.UpdateUserInput) (*identity.UserDTO, error)
	Activate(ctx context.Context, id int64) (*identity.UserDTO, error)
	Deactivate(ctx context.Context, id int64) (*identity.UserDTO, error)
	CreateTeam(ctx context.Context, input identity.CreateTeamInput) (*identity.TeamDTO, error)
	ListTeams(ctx context.Context) ([]identity.TeamDTO, error)
}

// UserHandler serves the user and team directory
type UserHandler struct {
	BaseHandler
	userService UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create handles POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req identity.CreateUserInput
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// GetByID handles GET /users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	var filter identity.UserListFilter
	if !bindQuery(c, &filter) {
		return
	}
	result, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Users, result.Total, result.Page, result.PageSize)
}

// Update handles PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req identity.UpdateUserInput
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Activate handles POST /users/:id/activate
func (h *UserHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.userService.Activate)
}

// Deactivate handles POST /users/:id/deactivate. The user's sessions are revoked.
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.changeStatus(c, h.userService.Deactivate)
}

func (h *UserHandler) changeStatus(c *gin.Context, apply func(context.Context, int64) (*identity.UserDTO, error)) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	user, err := apply(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// CreateTeam handles POST /teams
func (h *UserHandler) CreateTeam(c *gin.Context) {
	var req identity.CreateTeamInput
	if !bindJSON(c, &req) {
		return
	}
	team, err := h.userService.CreateTeam(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, team)
}

// ListTeams handles GET /teams
func (h *UserHandler) ListTeams(c *gin.Context) {
	teams, err := h.userService.ListTeams(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, teams)
}

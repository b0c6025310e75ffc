package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/crm/backend/internal/application/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/interfaces/http/middleware"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Login(ctx context.Context, input identity.LoginInput) (*identity.LoginResult, error) {
	args := m.Called(ctx, input)
	if r := args.Get(0); r != nil {
		return r.(*identity.LoginResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, token string) (*identity.RefreshTokenResult, error) {
	args := m.Called(ctx, token)
	if r := args.Get(0); r != nil {
		return r.(*identity.RefreshTokenResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, input identity.LogoutInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *mockAuthService) GetCurrentUser(ctx context.Context, userID int64) (*identity.UserDTO, error) {
	args := m.Called(ctx, userID)
	if r := args.Get(0); r != nil {
		return r.(*identity.UserDTO), args.Error(1)
	}
	return nil, args.Error(1)
}

func withClaims(claims *auth.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTClaimsKey, claims)
		c.Set(middleware.JWTUserIDKey, claims.UserID)
		c.Next()
	}
}

func authHandlerRouter(svc AuthService, mw ...gin.HandlerFunc) *gin.Engine {
	h := NewAuthHandler(svc)
	r := newTestRouter(mw...)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.RefreshToken)
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/me", h.GetCurrentUser)
	return r
}

func TestAuthHandler_Login(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Login", mock.Anything, mock.MatchedBy(func(in identity.LoginInput) bool {
		return in.Username == "alice" && in.Password == "s3cret-pass"
	})).Return(&identity.LoginResult{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", User: identity.UserDTO{ID: 7}}, nil)

	w := perform(authHandlerRouter(svc), "POST", "/auth/login", LoginRequest{Username: "alice", Password: "s3cret-pass"})

	require.Equal(t, http.StatusOK, w.Code)
	var result identity.LoginResult
	decode(t, w, &result)
	assert.Equal(t, "a", result.AccessToken)
	assert.Equal(t, int64(7), result.User.ID)
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Login", mock.Anything, mock.Anything).
		Return(nil, shared.NewDomainError(identity.CodeInvalidCredentials, "Invalid username or password"))

	w := perform(authHandlerRouter(svc), "POST", "/auth/login", LoginRequest{Username: "alice", Password: "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, identity.CodeInvalidCredentials, decode(t, w, nil).Error.Code)
}

func TestAuthHandler_Login_Inactive(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Login", mock.Anything, mock.Anything).
		Return(nil, shared.NewDomainError(identity.CodeAccountInactive, "Account has been deactivated"))

	w := perform(authHandlerRouter(svc), "POST", "/auth/login", LoginRequest{Username: "alice", Password: "pw"})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthHandler_Refresh_RequiresToken(t *testing.T) {
	svc := new(mockAuthService)

	w := perform(authHandlerRouter(svc), "POST", "/auth/refresh", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "refresh_token", decode(t, w, nil).Error.Details[0].Field)
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := new(mockAuthService)
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(10 * time.Minute)),
		},
		UserID: 7,
	}
	svc.On("Logout", mock.Anything, mock.MatchedBy(func(in identity.LogoutInput) bool {
		return in.UserID == 7 && in.AccessJTI == "jti-1" && in.AccessTTL > 0 && in.RefreshToken == "r"
	})).Return(nil)

	w := perform(authHandlerRouter(svc, withClaims(claims)), "POST", "/auth/logout", LogoutRequest{RefreshToken: "r"})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestAuthHandler_Logout_WithoutBody(t *testing.T) {
	svc := new(mockAuthService)
	claims := &auth.Claims{UserID: 7}
	svc.On("Logout", mock.Anything, mock.MatchedBy(func(in identity.LogoutInput) bool {
		return in.RefreshToken == ""
	})).Return(nil)

	w := perform(authHandlerRouter(svc, withClaims(claims)), "POST", "/auth/logout", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("GetCurrentUser", mock.Anything, int64(7)).Return(&identity.UserDTO{ID: 7, Username: "alice"}, nil)

	w := perform(authHandlerRouter(svc, asUser(7)), "GET", "/auth/me", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var user identity.UserDTO
	decode(t, w, &user)
	assert.Equal(t, "alice", user.Username)
}

package identity

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-at-least-32-characters",
		RefreshSecret:          "test-refresh-secret-key-at-least-32-characters",
		Issuer:                 "crm-test",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
	})
}

func setupAuthService() (*AuthService, *MockUserRepository, *auth.InMemoryTokenBlacklist) {
	userRepo := new(MockUserRepository)
	blacklist := auth.NewInMemoryTokenBlacklist()
	service := NewAuthService(userRepo, newTestJWTService(), blacklist, zap.NewNop())
	return service, userRepo, blacklist
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	return de.Code
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	user := newStoredUser(1, "alice", "Password123")

	t.Run("issues tokens and records the login", func(t *testing.T) {
		service, userRepo, _ := setupAuthService()
		userRepo.On("FindByUsername", ctx, "alice").Return(user, nil)
		userRepo.On("Update", ctx, user).Return(nil)

		result, err := service.Login(ctx, LoginInput{Username: "alice", Password: "Password123", IP: "10.0.0.1"})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, int64(1), result.User.ID)
		assert.NotNil(t, user.LastLoginAt)

		claims, err := service.ValidateAccessToken(ctx, result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, int64(1), claims.UserID)
		assert.Equal(t, "alice", claims.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		service, userRepo, _ := setupAuthService()
		userRepo.On("FindByUsername", ctx, "alice").Return(user, nil)

		_, err := service.Login(ctx, LoginInput{Username: "alice", Password: "nope"})

		assert.Equal(t, CodeInvalidCredentials, domainCode(t, err))
		userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown user looks like a wrong password", func(t *testing.T) {
		service, userRepo, _ := setupAuthService()
		userRepo.On("FindByUsername", ctx, "ghost").Return(nil, shared.NewDomainError(shared.CodeNotFound, "User not found"))

		_, err := service.Login(ctx, LoginInput{Username: "ghost", Password: "Password123"})

		assert.Equal(t, CodeInvalidCredentials, domainCode(t, err))
	})

	t.Run("inactive account", func(t *testing.T) {
		service, userRepo, _ := setupAuthService()
		inactive := newStoredUser(2, "bob", "Password123")
		inactive.Active = false
		userRepo.On("FindByUsername", ctx, "bob").Return(inactive, nil)

		_, err := service.Login(ctx, LoginInput{Username: "bob", Password: "Password123"})

		assert.Equal(t, CodeAccountInactive, domainCode(t, err))
	})

	t.Run("store failure is not masked", func(t *testing.T) {
		service, userRepo, _ := setupAuthService()
		userRepo.On("FindByUsername", ctx, "alice").Return(nil, shared.NewStoreError("user.find", assert.AnError))

		_, err := service.Login(ctx, LoginInput{Username: "alice", Password: "Password123"})

		assert.True(t, shared.IsStoreError(err))
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	user := newStoredUser(1, "alice", "Password123")
	jwtService := newTestJWTService()

	t.Run("rotates the pair and revokes the used token", func(t *testing.T) {
		service, userRepo, blacklist := setupAuthService()
		pair, err := jwtService.GenerateTokenPair(auth.Subject{UserID: 1, Username: "alice"})
		require.NoError(t, err)
		userRepo.On("FindByID", ctx, int64(1)).Return(user, nil)

		result, err := service.RefreshToken(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)

		claims, err := jwtService.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		revoked, err := blacklist.IsRevoked(ctx, claims.ID)
		require.NoError(t, err)
		assert.True(t, revoked)

		_, err = service.RefreshToken(ctx, pair.RefreshToken)
		assert.Equal(t, CodeTokenRevoked, domainCode(t, err))
	})

	t.Run("an access token is not a refresh token", func(t *testing.T) {
		service, _, _ := setupAuthService()
		pair, err := jwtService.GenerateTokenPair(auth.Subject{UserID: 1, Username: "alice"})
		require.NoError(t, err)

		_, err = service.RefreshToken(ctx, pair.AccessToken)
		assert.Equal(t, CodeTokenInvalid, domainCode(t, err))
	})

	t.Run("deactivated user cannot refresh", func(t *testing.T) {
		service, userRepo, _ := setupAuthService()
		inactive := newStoredUser(3, "carol", "Password123")
		inactive.Active = false
		pair, err := jwtService.GenerateTokenPair(auth.Subject{UserID: 3})
		require.NoError(t, err)
		userRepo.On("FindByID", ctx, int64(3)).Return(inactive, nil)

		_, err = service.RefreshToken(ctx, pair.RefreshToken)
		assert.Equal(t, CodeAccountInactive, domainCode(t, err))
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	service, _, blacklist := setupAuthService()
	jwtService := newTestJWTService()

	pair, err := jwtService.GenerateTokenPair(auth.Subject{UserID: 1, Username: "alice"})
	require.NoError(t, err)
	access, err := service.ValidateAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)

	err = service.Logout(ctx, LogoutInput{
		UserID:       1,
		AccessJTI:    access.ID,
		AccessTTL:    access.RemainingTTL(),
		RefreshToken: pair.RefreshToken,
	})
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(ctx, pair.AccessToken)
	assert.Equal(t, CodeTokenRevoked, domainCode(t, err))

	refresh, err := jwtService.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	revoked, err := blacklist.IsRevoked(ctx, refresh.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthService_Logout_IgnoresForeignRefreshToken(t *testing.T) {
	ctx := context.Background()
	service, _, blacklist := setupAuthService()

	other, err := newTestJWTService().GenerateTokenPair(auth.Subject{UserID: 2})
	require.NoError(t, err)

	require.NoError(t, service.Logout(ctx, LogoutInput{UserID: 1, RefreshToken: other.RefreshToken}))
	require.NoError(t, service.Logout(ctx, LogoutInput{UserID: 1, RefreshToken: "garbage"}))

	claims, err := newTestJWTService().ValidateRefreshToken(other.RefreshToken)
	require.NoError(t, err)
	revoked, err := blacklist.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)
}

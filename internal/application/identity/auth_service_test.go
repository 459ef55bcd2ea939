package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pulsetronic/backend/internal/domain/identity"
	"github.com/pulsetronic/backend/internal/domain/shared"
	"github.com/pulsetronic/backend/internal/infrastructure/auth"
	"github.com/pulsetronic/backend/internal/infrastructure/config"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestAuthService(repo *MockUserRepository) *AuthService {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-auth-service-tests",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "pulsetronic-test",
		MaxRefreshCount:        5,
	})
	return NewAuthService(repo, jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())
}

func newTestUser(t *testing.T, password string) *identity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := identity.NewUser("Administrador", "admin@pulsetronic.com.br", string(hash), identity.UserRoleAdmin)
	require.NoError(t, err)
	return user
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("returns tokens and records login on valid credentials", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)
		user := newTestUser(t, "admin123")

		repo.On("FindByEmail", ctx, "admin@pulsetronic.com.br").Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)

		resp, err := svc.Login(ctx, LoginRequest{Email: "admin@pulsetronic.com.br", Password: "admin123"})
		require.NoError(t, err)

		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, "admin@pulsetronic.com.br", resp.User.Email)
		assert.Equal(t, "ADMIN", resp.User.Role)
		assert.NotNil(t, user.LastLoginAt)
		repo.AssertExpectations(t)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)
		user := newTestUser(t, "admin123")

		repo.On("FindByEmail", ctx, "admin@pulsetronic.com.br").Return(user, nil)

		_, err := svc.Login(ctx, LoginRequest{Email: "admin@pulsetronic.com.br", Password: "wrong"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("rejects unknown email with the same error as wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)

		repo.On("FindByEmail", ctx, "nobody@pulsetronic.com.br").Return(nil, shared.ErrNotFound)

		_, err := svc.Login(ctx, LoginRequest{Email: "nobody@pulsetronic.com.br", Password: "whatever"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("rejects deactivated account", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)
		user := newTestUser(t, "admin123")
		require.NoError(t, user.Deactivate())

		repo.On("FindByEmail", ctx, "admin@pulsetronic.com.br").Return(user, nil)

		_, err := svc.Login(ctx, LoginRequest{Email: "admin@pulsetronic.com.br", Password: "admin123"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_DEACTIVATED", domainErr.Code)
	})

	t.Run("login succeeds even if recording login time fails", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)
		user := newTestUser(t, "admin123")

		repo.On("FindByEmail", ctx, "admin@pulsetronic.com.br").Return(user, nil)
		repo.On("Save", ctx, user).Return(assert.AnError)

		resp, err := svc.Login(ctx, LoginRequest{Email: "admin@pulsetronic.com.br", Password: "admin123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	login := func(t *testing.T, repo *MockUserRepository, svc *AuthService, user *identity.User) *LoginResponse {
		t.Helper()
		repo.On("FindByEmail", ctx, user.Email).Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)
		resp, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: "admin123"})
		require.NoError(t, err)
		return resp
	}

	t.Run("issues a new pair for a valid refresh token", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)
		user := newTestUser(t, "admin123")
		loginResp := login(t, repo, svc, user)

		repo.On("FindByID", ctx, user.ID).Return(user, nil)

		resp, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: loginResp.RefreshToken})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
	})

	t.Run("new access token carries the user's current role", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)
		user := newTestUser(t, "admin123")
		loginResp := login(t, repo, svc, user)

		require.NoError(t, user.ChangeRole(identity.UserRoleManager))
		repo.On("FindByID", ctx, user.ID).Return(user, nil)

		resp, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: loginResp.RefreshToken})
		require.NoError(t, err)

		claims, err := svc.jwtService.ValidateAccessToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "MANAGER", claims.Role)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)

		_, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: "not-a-token"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
	})

	t.Run("rejects refresh for deactivated user", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)
		user := newTestUser(t, "admin123")
		loginResp := login(t, repo, svc, user)

		require.NoError(t, user.Deactivate())
		repo.On("FindByID", ctx, user.ID).Return(user, nil)

		_, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: loginResp.RefreshToken})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_DEACTIVATED", domainErr.Code)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("revoked access token cannot be reused via blacklist", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)
		user := newTestUser(t, "admin123")

		repo.On("FindByEmail", ctx, user.Email).Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)

		loginResp, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: "admin123"})
		require.NoError(t, err)

		claims, err := svc.jwtService.ValidateAccessToken(loginResp.AccessToken)
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, claims))

		blacklisted, err := svc.blacklist.IsBlacklisted(ctx, claims.ID)
		require.NoError(t, err)
		assert.True(t, blacklisted)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the hash when current password matches", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)
		user := newTestUser(t, "admin123")
		oldHash := user.PasswordHash

		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)

		err := svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{
			CurrentPassword: "admin123",
			NewPassword:     "new-password-456",
		})
		require.NoError(t, err)
		assert.NotEqual(t, oldHash, user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("new-password-456")))
	})

	t.Run("rejects wrong current password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)
		user := newTestUser(t, "admin123")

		repo.On("FindByID", ctx, user.ID).Return(user, nil)

		err := svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{
			CurrentPassword: "wrong",
			NewPassword:     "new-password-456",
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})
}

package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maksym-sk21/hw14WEB/internal/lib/jwt"
	"github.com/maksym-sk21/hw14WEB/internal/lib/password"
	"github.com/maksym-sk21/hw14WEB/internal/models"
	services "github.com/maksym-sk21/hw14WEB/internal/services/auth"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) (int, error) {
	args := m.Called(ctx, user)
	return args.Int(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdateRefreshToken(ctx context.Context, email string, token *string) error {
	args := m.Called(ctx, email, token)
	return args.Error(0)
}

func (m *UserRepoMock) ConfirmEmail(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// Мок для Notifier
type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) SendConfirmation(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestMaker() *jwt.MakerImpl {
	return jwt.NewMaker("test_secret_key_1234567890", 15*time.Minute, 7*24*time.Hour, 24*time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(r *UserRepoMock, n *NotifierMock)
		wantErr    error
	}{
		{
			name:     "successful registration",
			email:    "Test@Example.com",
			password: "password123",
			setupMocks: func(r *UserRepoMock, n *NotifierMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(nil, nil).Once()
				r.On("CreateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "test@example.com" &&
						user.PasswordHash != "" &&
						user.PasswordHash != "password123" &&
						!user.Confirmed &&
						user.AvatarURL != nil
				})).Return(7, nil).Once()
				n.On("SendConfirmation", mock.Anything, "test@example.com", mock.AnythingOfType("string")).
					Return(nil).Once()
			},
		},
		{
			name:     "duplicate email",
			email:    "taken@example.com",
			password: "password123",
			setupMocks: func(r *UserRepoMock, _ *NotifierMock) {
				r.On("GetUserByEmail", mock.Anything, "taken@example.com").
					Return(&models.User{ID: 1, Email: "taken@example.com"}, nil).Once()
			},
			wantErr: services.ErrEmailTaken,
		},
		{
			name:     "notifier failure does not fail registration",
			email:    "test@example.com",
			password: "password123",
			setupMocks: func(r *UserRepoMock, n *NotifierMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(nil, nil).Once()
				r.On("CreateUser", mock.Anything, mock.Anything).Return(8, nil).Once()
				n.On("SendConfirmation", mock.Anything, "test@example.com", mock.AnythingOfType("string")).
					Return(errors.New("queue unavailable")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			notifier := new(NotifierMock)
			tt.setupMocks(repo, notifier)

			svc := services.NewAuthService(repo, newTestMaker(), notifier, newNoopLogger())
			user, err := svc.Register(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.False(t, user.Confirmed)
				assert.NotZero(t, user.ID)
			}
			repo.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestAuthService_ConfirmEmail(t *testing.T) {
	maker := newTestMaker()

	validToken, err := maker.GenerateEmailToken("test@example.com")
	require.NoError(t, err)
	accessToken, err := maker.GenerateAccessToken("test@example.com")
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name:  "successful confirmation",
			token: validToken,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").
					Return(&models.User{ID: 1, Email: "test@example.com", Confirmed: false}, nil).Once()
				r.On("ConfirmEmail", mock.Anything, "test@example.com").Return(nil).Once()
			},
		},
		{
			name:  "already confirmed is a no-op",
			token: validToken,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").
					Return(&models.User{ID: 1, Email: "test@example.com", Confirmed: true}, nil).Once()
			},
		},
		{
			name:       "malformed token",
			token:      "not.a.token",
			setupMocks: func(_ *UserRepoMock) {},
			wantErr:    services.ErrInvalidCredentials,
		},
		{
			name:       "wrong token class",
			token:      accessToken,
			setupMocks: func(_ *UserRepoMock) {},
			wantErr:    services.ErrInvalidCredentials,
		},
		{
			name:  "unknown user",
			token: validToken,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(nil, nil).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)

			svc := services.NewAuthService(repo, maker, new(NotifierMock), newNoopLogger())
			err := svc.ConfirmEmail(context.Background(), tt.token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := password.GetHash("password123")
	require.NoError(t, err)

	confirmedUser := &models.User{ID: 1, Email: "test@example.com", PasswordHash: hashed, Confirmed: true}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(confirmedUser, nil).Once()
				r.On("UpdateRefreshToken", mock.Anything, "test@example.com", mock.AnythingOfType("*string")).
					Return(nil).Once()
			},
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "password123",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, nil).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "unconfirmed email",
			email:    "test@example.com",
			password: "password123",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").
					Return(&models.User{ID: 1, Email: "test@example.com", PasswordHash: hashed, Confirmed: false}, nil).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrong_password",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(confirmedUser, nil).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)

			maker := newTestMaker()
			svc := services.NewAuthService(repo, maker, new(NotifierMock), newNoopLogger())
			access, refresh, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, access)
				assert.NotEmpty(t, refresh)

				claims, err := maker.ParseToken(access, jwt.ScopeAccess)
				require.NoError(t, err)
				assert.Equal(t, "test@example.com", claims.Subject)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	maker := newTestMaker()

	storedToken, err := maker.GenerateRefreshToken("test@example.com")
	require.NoError(t, err)
	supersededToken, err := maker.GenerateRefreshToken("test@example.com")
	require.NoError(t, err)

	t.Run("successful rotation", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("GetUserByEmail", mock.Anything, "test@example.com").
			Return(&models.User{ID: 1, Email: "test@example.com", Confirmed: true, RefreshToken: &storedToken}, nil).Once()
		repo.On("UpdateRefreshToken", mock.Anything, "test@example.com", mock.AnythingOfType("*string")).
			Return(nil).Once()

		svc := services.NewAuthService(repo, maker, new(NotifierMock), newNoopLogger())
		access, refresh, err := svc.Refresh(context.Background(), storedToken)

		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.NotEqual(t, storedToken, refresh)
		repo.AssertExpectations(t)
	})

	t.Run("superseded token is rejected and stored token revoked", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("GetUserByEmail", mock.Anything, "test@example.com").
			Return(&models.User{ID: 1, Email: "test@example.com", Confirmed: true, RefreshToken: &storedToken}, nil).Once()
		repo.On("UpdateRefreshToken", mock.Anything, "test@example.com", (*string)(nil)).
			Return(nil).Once()

		svc := services.NewAuthService(repo, maker, new(NotifierMock), newNoopLogger())
		_, _, err := svc.Refresh(context.Background(), supersededToken)

		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		repo.AssertExpectations(t)
	})

	t.Run("access token is not accepted as refresh", func(t *testing.T) {
		accessToken, err := maker.GenerateAccessToken("test@example.com")
		require.NoError(t, err)

		svc := services.NewAuthService(new(UserRepoMock), maker, new(NotifierMock), newNoopLogger())
		_, _, err = svc.Refresh(context.Background(), accessToken)

		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("user without stored token is rejected", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("GetUserByEmail", mock.Anything, "test@example.com").
			Return(&models.User{ID: 1, Email: "test@example.com", Confirmed: true}, nil).Once()
		repo.On("UpdateRefreshToken", mock.Anything, "test@example.com", (*string)(nil)).
			Return(nil).Once()

		svc := services.NewAuthService(repo, maker, new(NotifierMock), newNoopLogger())
		_, _, err := svc.Refresh(context.Background(), storedToken)

		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		repo.AssertExpectations(t)
	})
}

func TestAuthService_ResolveUser(t *testing.T) {
	maker := newTestMaker()

	accessToken, err := maker.GenerateAccessToken("test@example.com")
	require.NoError(t, err)
	refreshToken, err := maker.GenerateRefreshToken("test@example.com")
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name:  "valid access token",
			token: accessToken,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").
					Return(&models.User{ID: 1, Email: "test@example.com", Confirmed: true}, nil).Once()
			},
		},
		{
			name:       "refresh token rejected as access token",
			token:      refreshToken,
			setupMocks: func(_ *UserRepoMock) {},
			wantErr:    services.ErrInvalidCredentials,
		},
		{
			name:       "garbage token",
			token:      "garbage",
			setupMocks: func(_ *UserRepoMock) {},
			wantErr:    services.ErrInvalidCredentials,
		},
		{
			name:  "token subject no longer exists",
			token: accessToken,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(nil, nil).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)

			svc := services.NewAuthService(repo, maker, new(NotifierMock), newNoopLogger())
			user, err := svc.ResolveUser(context.Background(), tt.token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "test@example.com", user.Email)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	repo := new(UserRepoMock)
	repo.On("UpdateRefreshToken", mock.Anything, "test@example.com", (*string)(nil)).Return(nil).Once()

	svc := services.NewAuthService(repo, newTestMaker(), new(NotifierMock), newNoopLogger())
	err := svc.Logout(context.Background(), "test@example.com")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

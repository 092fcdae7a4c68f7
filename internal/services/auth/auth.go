// Package services содержит логику бизнес-уровня для регистрации,
// аутентификации и жизненного цикла токенов пользователей.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maksym-sk21/hw14WEB/internal/lib/avatar"
	"github.com/maksym-sk21/hw14WEB/internal/lib/jwt"
	"github.com/maksym-sk21/hw14WEB/internal/lib/password"
	"github.com/maksym-sk21/hw14WEB/internal/lib/sl"
	"github.com/maksym-sk21/hw14WEB/internal/models"
)

// Ошибки бизнес-уровня. ErrInvalidCredentials намеренно одна на все
// причины отказа (нет пользователя, неверный пароль, неподтвержденная
// почта, плохой токен), чтобы ответ не раскрывал, что именно не так.
var (
	// ErrEmailTaken — почта уже зарегистрирована.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidCredentials — отказ в аутентификации без уточнения причины.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (int, error)

	// GetUserByEmail возвращает пользователя по почте или (nil, nil), если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateRefreshToken заменяет сохраненный refresh-токен, nil очищает его.
	UpdateRefreshToken(ctx context.Context, email string, token *string) error

	// ConfirmEmail помечает почту подтвержденной.
	ConfirmEmail(ctx context.Context, email string) error
}

// Notifier доставляет пользователю токен подтверждения почты.
// Сервис только порождает токен, способ доставки — забота вызывающего кода.
type Notifier interface {
	SendConfirmation(ctx context.Context, email, token string) error
}

// AuthService отвечает за регистрацию, авторизацию и жизненный цикл токенов.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	notifier Notifier
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, notifier Notifier, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		notifier: notifier,
		log:      log,
	}
}

// Register создает нового пользователя с хэшированием пароля,
// неподтвержденной почтой и детерминированным аватаром. После
// сохранения порождает токен подтверждения и передает его Notifier;
// сбой доставки не считается сбоем регистрации.
func (s *AuthService) Register(ctx context.Context, email, rawPassword string) (*models.User, error) {
	const op = "services.auth.Register"

	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	avatarURL := avatar.URL(email)
	user := models.User{
		Email:        email,
		PasswordHash: hashed,
		Confirmed:    false,
		AvatarURL:    &avatarURL,
	}
	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.ID = id

	emailToken, err := s.jwtMaker.GenerateEmailToken(email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.notifier.SendConfirmation(ctx, email, emailToken); err != nil {
		s.log.Warn("failed to send confirmation token", slog.String("email", email), sl.Err(err))
	}

	return &user, nil
}

// ConfirmEmail проверяет токен подтверждения и помечает почту
// подтвержденной. Повторное подтверждение — no-op.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) error {
	const op = "services.auth.ConfirmEmail"

	claims, err := s.jwtMaker.ParseToken(token, jwt.ScopeEmail)
	if err != nil {
		return ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if user == nil {
		return ErrInvalidCredentials
	}
	if user.Confirmed {
		return nil
	}

	if err := s.users.ConfirmEmail(ctx, user.Email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Login проверяет пароль пользователя и выдает пару access+refresh
// токенов, сохраняя новый refresh-токен. Неизвестная почта,
// неподтвержденная почта и неверный пароль дают один и тот же отказ.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (accessToken, refreshToken string, err error) {
	const op = "services.auth.Login"

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	if user == nil || !user.Confirmed {
		return "", "", ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}

	return s.issueTokens(ctx, op, user.Email)
}

// Refresh обменивает действующий refresh-токен на новую пару токенов.
// Предъявление токена, не совпадающего с сохраненным, трактуется как
// повторное использование устаревшего токена: сохраненный токен
// очищается и выдается отказ.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (newAccess, newRefresh string, err error) {
	const op = "services.auth.Refresh"

	claims, err := s.jwtMaker.ParseToken(refreshToken, jwt.ScopeRefresh)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	if user == nil {
		return "", "", ErrInvalidCredentials
	}
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		if err := s.users.UpdateRefreshToken(ctx, user.Email, nil); err != nil {
			s.log.Error("failed to revoke refresh token", slog.String("email", user.Email), sl.Err(err))
		}
		return "", "", ErrInvalidCredentials
	}

	return s.issueTokens(ctx, op, user.Email)
}

// ResolveUser определяет пользователя текущего запроса по access-токену.
// Любая причина отказа сворачивается в ErrInvalidCredentials.
func (s *AuthService) ResolveUser(ctx context.Context, accessToken string) (*models.User, error) {
	const op = "services.auth.ResolveUser"

	claims, err := s.jwtMaker.ParseToken(accessToken, jwt.ScopeAccess)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Logout очищает сохраненный refresh-токен пользователя.
func (s *AuthService) Logout(ctx context.Context, email string) error {
	const op = "services.auth.Logout"

	if err := s.users.UpdateRefreshToken(ctx, email, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, op, email string) (string, string, error) {
	access, err := s.jwtMaker.GenerateAccessToken(email)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	refresh, err := s.jwtMaker.GenerateRefreshToken(email)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdateRefreshToken(ctx, email, &refresh); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return access, refresh, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maksym-sk21/hw14WEB/internal/models"
)

// CreateUser сохраняет нового пользователя и возвращает его ID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO users (email, password_hash, confirmed, avatar_url)
				  VALUES ($1, $2, $3, $4)
				  RETURNING id;`
		return tx.QueryRowContext(ctx, query,
			user.Email, user.PasswordHash, user.Confirmed, user.AvatarURL).Scan(&newID)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByEmail возвращает пользователя по почте.
// Если пользователь не найден, возвращает (nil, nil).
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, password_hash, confirmed, refresh_token, avatar_url, created_at
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, email)

	var refreshToken, avatarURL sql.NullString
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Confirmed,
		&refreshToken, &avatarURL, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if refreshToken.Valid {
		u.RefreshToken = &refreshToken.String
	}
	if avatarURL.Valid {
		u.AvatarURL = &avatarURL.String
	}
	return u, nil
}

// UpdateRefreshToken заменяет сохраненный refresh-токен пользователя.
// nil очищает токен (выход из системы или обнаруженное повторное
// использование устаревшего токена).
func (s *Storage) UpdateRefreshToken(ctx context.Context, email string, token *string) error {
	const op = "storage.UpdateRefreshToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		query := `UPDATE users
				  SET refresh_token = $1
				  WHERE email = $2`
		_, err := tx.ExecContext(ctx, query, token, email)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ConfirmEmail помечает почту пользователя подтвержденной.
func (s *Storage) ConfirmEmail(ctx context.Context, email string) error {
	const op = "storage.ConfirmEmail"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		query := `UPDATE users
				  SET confirmed = TRUE
				  WHERE email = $1`
		_, err := tx.ExecContext(ctx, query, email)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

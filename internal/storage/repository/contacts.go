package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maksym-sk21/hw14WEB/internal/models"
)

// CreateContact вставляет новую запись контакта, привязанную к владельцу,
// и возвращает её ID.
func (s *Storage) CreateContact(ctx context.Context, contact models.Contact) (int, error) {
	const op = "storage.CreateContact"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO contacts (first_name, last_name, email, phone_number, birthday, user_id)
				  VALUES ($1, $2, $3, $4, $5, $6)
				  RETURNING id`
		return tx.QueryRowContext(ctx, query,
			contact.FirstName, contact.LastName, contact.Email,
			contact.PhoneNumber, contact.Birthday, contact.UserID).Scan(&newID)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadContact возвращает контакт по ID в рамках записей владельца.
// Чужой или несуществующий контакт дает (nil, nil), а не ошибку.
func (s *Storage) ReadContact(ctx context.Context, ownerID, id int) (*models.Contact, error) {
	const op = "storage.ReadContact"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, first_name, last_name, email, phone_number, birthday, user_id
			  FROM contacts
			  WHERE id = $1 AND user_id = $2`
	row := s.DB.QueryRowContext(ctx, query, id, ownerID)

	var result models.Contact
	if err := row.Scan(&result.ID, &result.FirstName, &result.LastName, &result.Email,
		&result.PhoneNumber, &result.Birthday, &result.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListContacts возвращает контакты владельца с пагинацией
// в порядке возрастания ID.
func (s *Storage) ListContacts(ctx context.Context, ownerID, limit, offset int) ([]*models.Contact, error) {
	const op = "storage.ListContacts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, first_name, last_name, email, phone_number, birthday, user_id
			  FROM contacts
			  WHERE user_id = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Contact
	for rows.Next() {
		var item models.Contact
		if err := rows.Scan(&item.ID, &item.FirstName, &item.LastName, &item.Email,
			&item.PhoneNumber, &item.Birthday, &item.UserID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateContact перезаписывает поля контакта в рамках записей владельца
// и возвращает количество измененных строк.
func (s *Storage) UpdateContact(ctx context.Context, contact models.Contact) (int, error) {
	const op = "storage.UpdateContact"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var rowsAffected int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		query := `UPDATE contacts
				  SET first_name = $1, last_name = $2, email = $3, phone_number = $4, birthday = $5
				  WHERE id = $6 AND user_id = $7`
		result, err := tx.ExecContext(ctx, query,
			contact.FirstName, contact.LastName, contact.Email,
			contact.PhoneNumber, contact.Birthday, contact.ID, contact.UserID)
		if err != nil {
			return err
		}
		rowsAffected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveContact удаляет контакт владельца по ID и возвращает
// количество удалённых строк.
func (s *Storage) RemoveContact(ctx context.Context, ownerID, id int) (int, error) {
	const op = "storage.RemoveContact"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var rowsAffected int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		query := `DELETE FROM contacts WHERE id = $1 AND user_id = $2`
		result, err := tx.ExecContext(ctx, query, id, ownerID)
		if err != nil {
			return err
		}
		rowsAffected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

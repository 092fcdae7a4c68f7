// Package services содержит бизнес-логику работы с контактами
// пользователя, включая кеширование чтений.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maksym-sk21/hw14WEB/internal/lib/sl"
	"github.com/maksym-sk21/hw14WEB/internal/models"
)

// birthdayLayout — формат даты рождения во входных данных.
const birthdayLayout = "2006-01-02"

// Значения пагинации по умолчанию.
const (
	defaultLimit = 10
)

// ContactRepository определяет методы для работы с контактами в хранилище.
// Все операции выполняются в рамках записей владельца.
type ContactRepository interface {
	// CreateContact добавляет новый контакт и возвращает его ID.
	CreateContact(ctx context.Context, contact models.Contact) (int, error)
	// ReadContact возвращает контакт владельца по ID или (nil, nil), если не найден.
	ReadContact(ctx context.Context, ownerID, id int) (*models.Contact, error)
	// ListContacts возвращает контакты владельца с пагинацией.
	ListContacts(ctx context.Context, ownerID, limit, offset int) ([]*models.Contact, error)
	// UpdateContact перезаписывает поля контакта, возвращает число измененных строк.
	UpdateContact(ctx context.Context, contact models.Contact) (int, error)
	// RemoveContact удаляет контакт владельца по ID, возвращает число удаленных строк.
	RemoveContact(ctx context.Context, ownerID, id int) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// ContactService реализует бизнес-логику работы с контактами, включая кеширование.
type ContactService struct {
	repo  ContactRepository
	cache Cache
	log   *slog.Logger
}

// NewContactService создает новый экземпляр ContactService.
func NewContactService(repo ContactRepository, cache Cache, log *slog.Logger) *ContactService {
	return &ContactService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func cacheKey(ownerID, id int) string {
	return fmt.Sprintf("contact:%d:%d", ownerID, id)
}

// Create создает новый контакт, привязанный к владельцу, и возвращает его.
func (s *ContactService) Create(ctx context.Context, owner *models.User, req models.DummyContact) (*models.Contact, error) {
	birthday, err := time.Parse(birthdayLayout, req.Birthday)
	if err != nil {
		return nil, fmt.Errorf("invalid birthday: %w", err)
	}

	contact := models.Contact{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Birthday:    birthday,
		UserID:      owner.ID,
	}

	id, err := s.repo.CreateContact(ctx, contact)
	if err != nil {
		return nil, err
	}
	contact.ID = id

	s.log.Info("created new contact", slog.Int("id", id), slog.Int("owner_id", owner.ID))

	if err := s.cache.Set(ctx, cacheKey(owner.ID, id), contact, time.Hour); err != nil {
		s.log.Warn("failed to cache contact", slog.String("key", cacheKey(owner.ID, id)), sl.Err(err))
	}

	return &contact, nil
}

// List возвращает контакты владельца. Отрицательные skip и limit
// приводятся к значениям по умолчанию 0 и 10.
func (s *ContactService) List(ctx context.Context, owner *models.User, skip, limit int) ([]*models.Contact, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return s.repo.ListContacts(ctx, owner.ID, limit, skip)
}

// Read возвращает контакт владельца по ID, используя кеш или репозиторий.
// Если контакт не найден или принадлежит другому пользователю,
// возвращает (nil, nil).
func (s *ContactService) Read(ctx context.Context, owner *models.User, id int) (*models.Contact, error) {
	var result *models.Contact
	key := cacheKey(owner.ID, id)
	found, err := s.cache.Get(ctx, key, &result)
	if err != nil {
		s.log.Warn("failed to read contact from cache", slog.String("key", key), sl.Err(err))
	}
	if found && result != nil {
		return result, nil
	}

	result, err = s.repo.ReadContact(ctx, owner.ID, id)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if err := s.cache.Set(ctx, key, result, time.Hour); err != nil {
			s.log.Warn("failed to cache contact", slog.String("key", key), sl.Err(err))
		}
	}
	return result, nil
}

// Update частично обновляет контакт владельца: перезаписываются только
// непустые поля запроса, пустое значение оставляет поле без изменений.
// Политика унаследована от первоначального API: очистить поле до
// пустого значения этим запросом нельзя. Если контакт не найден,
// возвращает (nil, nil) без изменений в хранилище.
func (s *ContactService) Update(ctx context.Context, owner *models.User, id int, req models.UpdateContact) (*models.Contact, error) {
	contact, err := s.repo.ReadContact(ctx, owner.ID, id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, nil
	}

	if err := mergeContact(contact, req); err != nil {
		return nil, err
	}

	if _, err := s.repo.UpdateContact(ctx, *contact); err != nil {
		return nil, err
	}
	s.log.Info("updated contact", slog.Int("id", id), slog.Int("owner_id", owner.ID))

	key := cacheKey(owner.ID, id)
	if err := s.cache.Set(ctx, key, contact, time.Hour); err != nil {
		s.log.Warn("failed to cache contact", slog.String("key", key), sl.Err(err))
	}
	return contact, nil
}

// Remove удаляет контакт владельца. Возвращает true, если запись
// существовала и была удалена; false для чужих и несуществующих записей.
func (s *ContactService) Remove(ctx context.Context, owner *models.User, id int) (bool, error) {
	key := cacheKey(owner.ID, id)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to remove contact from cache", slog.String("key", key), sl.Err(err))
	}

	count, err := s.repo.RemoveContact(ctx, owner.ID, id)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// mergeContact переносит в контакт непустые поля запроса.
// Каждое обновляемое поле перечислено явно.
func mergeContact(contact *models.Contact, req models.UpdateContact) error {
	if req.FirstName != "" {
		contact.FirstName = req.FirstName
	}
	if req.LastName != "" {
		contact.LastName = req.LastName
	}
	if req.Email != "" {
		contact.Email = req.Email
	}
	if req.PhoneNumber != "" {
		contact.PhoneNumber = req.PhoneNumber
	}
	if req.Birthday != "" {
		birthday, err := time.Parse(birthdayLayout, req.Birthday)
		if err != nil {
			return fmt.Errorf("invalid birthday: %w", err)
		}
		contact.Birthday = birthday
	}
	return nil
}

package models

import (
	"encoding/json"
	"time"
)

// Contact представляет запись в книге контактов пользователя.
//
// UserID — владелец записи, назначается при создании и не меняется.
// Все операции чтения и изменения фильтруются одновременно по ID
// контакта и по владельцу.
type Contact struct {
	ID          int       `json:"id"`           // Числовой идентификатор контакта
	FirstName   string    `json:"first_name"`   // Имя
	LastName    string    `json:"last_name"`    // Фамилия
	Email       string    `json:"email"`        // Электронная почта контакта
	PhoneNumber string    `json:"phone_number"` // Номер телефона
	Birthday    time.Time `json:"birthday"`     // Дата рождения
	UserID      int       `json:"user_id"`      // Идентификатор пользователя-владельца
}

// MarshalJSON сериализует контакт, форматируя дату рождения как 2006-01-02.
func (c Contact) MarshalJSON() ([]byte, error) {
	type alias Contact
	return json.Marshal(struct {
		alias
		Birthday string `json:"birthday"`
	}{
		alias:    alias(c),
		Birthday: c.Birthday.Format("2006-01-02"),
	})
}

// UnmarshalJSON — обратная операция к MarshalJSON.
func (c *Contact) UnmarshalJSON(data []byte) error {
	type alias Contact
	aux := struct {
		*alias
		Birthday string `json:"birthday"`
	}{alias: (*alias)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Birthday != "" {
		birthday, err := time.Parse("2006-01-02", aux.Birthday)
		if err != nil {
			return err
		}
		c.Birthday = birthday
	}
	return nil
}

// DummyContact используется для приёма данных контакта из JSON-запроса,
// прежде чем конвертировать их в Contact. Дата рождения приходит строкой,
// чтобы её можно было валидировать и парсить вручную.
type DummyContact struct {
	FirstName   string `json:"first_name" validate:"required,max=50"`  // Имя
	LastName    string `json:"last_name" validate:"required,max=50"`   // Фамилия
	Email       string `json:"email" validate:"required,email"`        // Почта
	PhoneNumber string `json:"phone_number" validate:"required,max=30"` // Телефон
	Birthday    string `json:"birthday" validate:"required,datetime=2006-01-02"` // Дата рождения в формате 2006-01-02
}

// UpdateContact описывает частичное обновление контакта: пустое значение
// поля означает "оставить без изменений". Политика унаследована от
// первоначального API и сохранена для совместимости: очистить поле до
// пустого значения через этот запрос нельзя.
type UpdateContact struct {
	FirstName   string `json:"first_name" validate:"omitempty,max=50"`
	LastName    string `json:"last_name" validate:"omitempty,max=50"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=30"`
	Birthday    string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
}

// ConfirmationMessage — сообщение для очереди отправки писем
// с подтверждением почты.
type ConfirmationMessage struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

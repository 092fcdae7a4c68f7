// Package models содержит доменные структуры приложения: пользователей
// и принадлежащие им контакты. Структуры используются в бизнес-логике
// и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
//
// Email хранится в нижнем регистре и уникален. RefreshToken содержит
// единственный действующий refresh-токен пользователя: он заменяется
// при каждом логине и обновлении пары токенов и очищается при выходе.
type User struct {
	ID           int        // Числовой идентификатор, назначается хранилищем
	Email        string     // Электронная почта (уникальная)
	PasswordHash string     // bcrypt-хэш пароля
	Confirmed    bool       // Подтверждена ли почта
	RefreshToken *string    // Текущий refresh-токен, nil — токен отсутствует
	AvatarURL    *string    // Ссылка на аватар (gravatar), nil — не задана
	CreatedAt    time.Time  // Дата создания записи
}

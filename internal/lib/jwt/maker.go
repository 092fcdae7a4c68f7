// Package jwt реализует генерацию и парсинг JWT токенов трёх классов:
// access (короткоживущий), refresh (долгоживущий) и email (одноразовый
// токен подтверждения почты).
//
// Токены самодостаточны: валидность определяется подписью и сроком
// жизни, без обращения к внешнему состоянию. Класс токена хранится
// в клейме scope и проверяется при парсинге.
package jwt

import (
	"errors"
	"time"
)

// Scope определяет класс токена.
type Scope string

const (
	// ScopeAccess — токен доступа к API.
	ScopeAccess Scope = "access"
	// ScopeRefresh — токен обновления пары токенов.
	ScopeRefresh Scope = "refresh"
	// ScopeEmail — токен подтверждения электронной почты.
	ScopeEmail Scope = "email"
)

// Типизированные ошибки парсинга токена. AuthService интерпретирует
// любую из них как отказ в авторизации, не различая причину наружу.
var (
	// ErrInvalidToken — подпись неверна или полезная нагрузка повреждена.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken — срок жизни токена истек.
	ErrExpiredToken = errors.New("token has expired")
	// ErrWrongScope — предъявлен токен другого класса.
	ErrWrongScope = errors.New("token has wrong scope")
)

// Maker описывает интерфейс для генерации и парсинга токенов.
type Maker interface {
	// GenerateAccessToken создает access-токен для указанной почты.
	GenerateAccessToken(email string) (string, error)
	// GenerateRefreshToken создает refresh-токен для указанной почты.
	GenerateRefreshToken(email string) (string, error)
	// GenerateEmailToken создает токен подтверждения почты.
	GenerateEmailToken(email string) (string, error)
	// ParseToken разбирает токен и проверяет, что его класс равен wantScope.
	ParseToken(tokenStr string, wantScope Scope) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и отдельного времени жизни для каждого класса токена.
type MakerImpl struct {
	secretKey  string        // Секретный ключ для подписи токенов
	accessTTL  time.Duration // Время жизни access-токена
	refreshTTL time.Duration // Время жизни refresh-токена
	emailTTL   time.Duration // Время жизни токена подтверждения почты
}

// NewMaker создаёт новый экземпляр MakerImpl.
func NewMaker(secretKey string, accessTTL, refreshTTL, emailTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:  secretKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		emailTTL:   emailTTL,
	}
}

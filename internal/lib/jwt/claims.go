package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
//
// Subject стандартных клеймов содержит почту пользователя, Scope —
// класс токена. Refresh-токены дополнительно получают уникальный ID,
// чтобы две выданные подряд пары токенов никогда не совпадали.
type CustomClaims struct {
	Scope                Scope `json:"scope"` // Класс токена
	jwt.RegisteredClaims       // Стандартные claims JWT (Subject, ExpiresAt, IssuedAt и пр.)
}

// GenerateAccessToken создает access-токен с почтой пользователя в Subject.
func (j *MakerImpl) GenerateAccessToken(email string) (string, error) {
	return j.generate(email, ScopeAccess, j.accessTTL)
}

// GenerateRefreshToken создает refresh-токен с почтой пользователя в Subject.
func (j *MakerImpl) GenerateRefreshToken(email string) (string, error) {
	return j.generate(email, ScopeRefresh, j.refreshTTL)
}

// GenerateEmailToken создает токен подтверждения почты.
func (j *MakerImpl) GenerateEmailToken(email string) (string, error) {
	return j.generate(email, ScopeEmail, j.emailTTL)
}

func (j *MakerImpl) generate(email string, scope Scope, ttl time.Duration) (string, error) {
	const op = "jwt.generate"
	now := time.Now()
	claims := CustomClaims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken парсит JWT токен, проверяет его подпись, срок жизни
// и класс. Возвращает CustomClaims, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr string, wantScope Scope) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Scope != wantScope {
		return nil, ErrWrongScope
	}
	return claims, nil
}

// Package ratelimit реализует ограничитель частоты запросов с общим
// счетчиком в Redis, чтобы квота действовала на все экземпляры сервера.
//
// Используется окно фиксированной длины: первый запрос в окне создает
// счетчик с TTL, равным окну, последующие инкрементируют его. Инкремент
// в Redis атомарен, поэтому ограничитель корректен при конкурентных
// запросах из нескольких процессов.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter ограничивает количество запросов по ключу за окно времени.
type Limiter struct {
	rdb      *redis.Client
	requests int           // Допустимое число запросов в окне
	window   time.Duration // Длина окна
}

// New создает новый Limiter: не более requests запросов на ключ за window.
func New(rdb *redis.Client, requests int, window time.Duration) *Limiter {
	return &Limiter{
		rdb:      rdb,
		requests: requests,
		window:   window,
	}
}

// Allow инкрементирует счетчик ключа и сообщает, укладывается ли
// запрос в квоту. Первый запрос в окне выставляет счетчику TTL.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	const op = "ratelimit.Allow"

	redisKey := "ratelimit:" + key
	count, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if count == 1 {
		if err := l.rdb.PExpire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
	}
	return count <= int64(l.requests), nil
}

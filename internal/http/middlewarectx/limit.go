package middlewarectx

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/maksym-sk21/hw14WEB/internal/http/response"
	"github.com/maksym-sk21/hw14WEB/internal/lib/sl"
)

// RequestLimiter описывает интерфейс ограничителя частоты запросов.
type RequestLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimitMiddleware возвращает HTTP middleware, который ограничивает
// частоту запросов по связке клиентский IP + метод + маршрут.
//
// При превышении квоты возвращает HTTP 429 Too Many Requests. Если
// ограничитель недоступен, запрос пропускается.
func RateLimitMiddleware(limiter RequestLimiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RateLimitMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			key := fmt.Sprintf("%s:%s:%s", clientIP(r), r.Method, routePattern(r))

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				log.Warn("rate limiter unavailable, request passed through", sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				log.Info("request rate limited", slog.String("key", key))
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}
	return r.URL.Path
}

// Package contactsapi предоставляет маршруты и сборку основного приложения.
package contactsapi

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/maksym-sk21/hw14WEB/internal/http/handlers/auth/confirm"
	"github.com/maksym-sk21/hw14WEB/internal/http/handlers/auth/login"
	"github.com/maksym-sk21/hw14WEB/internal/http/handlers/auth/logout"
	"github.com/maksym-sk21/hw14WEB/internal/http/handlers/auth/refresh"
	"github.com/maksym-sk21/hw14WEB/internal/http/handlers/auth/register"
	"github.com/maksym-sk21/hw14WEB/internal/http/handlers/contact/create"
	"github.com/maksym-sk21/hw14WEB/internal/http/handlers/contact/list"
	"github.com/maksym-sk21/hw14WEB/internal/http/handlers/contact/read"
	"github.com/maksym-sk21/hw14WEB/internal/http/handlers/contact/remove"
	"github.com/maksym-sk21/hw14WEB/internal/http/handlers/contact/update"
	"github.com/maksym-sk21/hw14WEB/internal/http/handlers/health"
	"github.com/maksym-sk21/hw14WEB/internal/http/middlewarectx"
	"github.com/maksym-sk21/hw14WEB/internal/ratelimit"
	authservice "github.com/maksym-sk21/hw14WEB/internal/services/auth"
	contactservice "github.com/maksym-sk21/hw14WEB/internal/services/contacts"
)

// RegisterRoutes регистрирует все маршруты приложения.
// Ограничитель частоты стоит перед проверкой токена, так что
// неавторизованный поток запросов тоже учитывается в квоте.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.AuthService, contactService *contactservice.ContactService, limiter *ratelimit.Limiter) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(limiter, logger))

		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Get("/auth/refresh_token", refresh.New(logger, authService).ServeHTTP)
		r.Get("/auth/confirmed_email/{token}", confirm.New(logger, authService).ServeHTTP)
		r.Get("/healthchecker", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Post("/auth/logout", logout.New(logger, authService).ServeHTTP)
			r.Post("/contacts", create.New(logger, contactService).ServeHTTP)
			r.Get("/contacts", list.New(logger, contactService).ServeHTTP)
			r.Get("/contacts/{id}", read.New(logger, contactService).ServeHTTP)
			r.Patch("/contacts/{id}", update.New(logger, contactService).ServeHTTP)
			r.Delete("/contacts/{id}", remove.New(logger, contactService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

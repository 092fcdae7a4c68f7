// Package refresh реализует HTTP-обработчик обмена refresh-токена
// на новую пару токенов. Refresh-токен предъявляется в заголовке
// Authorization; предъявление устаревшего токена отзывает сессию.
package refresh

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/maksym-sk21/hw14WEB/internal/http/response"
	"github.com/maksym-sk21/hw14WEB/internal/lib/sl"
	services "github.com/maksym-sk21/hw14WEB/internal/services/auth"
)

// Handler обрабатывает HTTP-запросы обновления токенов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики обновления токенов.
type Service interface {
	Refresh(ctx context.Context, refreshToken string) (newAccess, newRefresh string, err error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Обновление пары токенов
// @Description Обменивает действующий refresh-токен из заголовка Authorization на новую пару токенов.
// @Tags Auth
// @Produce  json
// @Param Authorization header string true "Bearer <refresh-токен>"
// @Success 200 {object} response.Response "Новая пара токенов"
// @Failure 401 {object} response.ErrorResponse "Невалидный или устаревший refresh-токен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/refresh_token [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.refresh"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		log.Error("missing or invalid authorization header")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("missing or invalid authorization header"))
		return
	}
	refreshToken := strings.TrimPrefix(authHeader, "Bearer ")

	access, refresh, err := h.service.Refresh(r.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Info("refresh token rejected")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid refresh token"))
			return
		}
		log.Error("failed to refresh tokens", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not refresh tokens"))
		return
	}

	log.Info("tokens refreshed")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "bearer",
	}))
}

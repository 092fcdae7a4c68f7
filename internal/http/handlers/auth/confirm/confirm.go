// Package confirm реализует HTTP-обработчик подтверждения почты по токену
// из письма. Повторное подтверждение безопасно и отвечает так же, как первое.
package confirm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/maksym-sk21/hw14WEB/internal/http/response"
	"github.com/maksym-sk21/hw14WEB/internal/lib/sl"
	services "github.com/maksym-sk21/hw14WEB/internal/services/auth"
)

// Handler обрабатывает HTTP-запросы подтверждения почты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подтверждения почты.
type Service interface {
	ConfirmEmail(ctx context.Context, token string) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Подтверждение почты
// @Description Помечает почту пользователя подтвержденной по токену из письма.
// @Tags Auth
// @Produce  json
// @Param token path string true "Токен подтверждения из письма"
// @Success 200 {object} response.Response "Почта подтверждена"
// @Failure 400 {object} response.ErrorResponse "Невалидный токен подтверждения"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/confirmed_email/{token} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.confirm"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := chi.URLParam(r, "token")

	if err := h.service.ConfirmEmail(r.Context(), token); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Info("confirmation token rejected")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("verification error"))
			return
		}
		log.Error("failed to confirm email", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not confirm email"))
		return
	}

	log.Info("email confirmed")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "email confirmed",
	}))
}

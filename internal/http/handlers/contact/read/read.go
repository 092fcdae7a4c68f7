// Package read реализует HTTP-обработчик чтения одного контакта по ID.
// Чужие и несуществующие контакты неразличимы в ответе: оба дают 404.
package read

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/maksym-sk21/hw14WEB/internal/http/middlewarectx"
	"github.com/maksym-sk21/hw14WEB/internal/http/response"
	"github.com/maksym-sk21/hw14WEB/internal/lib/sl"
	"github.com/maksym-sk21/hw14WEB/internal/models"
)

// Handler обрабатывает HTTP-запросы чтения контакта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики контактов.
type Service interface {
	Read(ctx context.Context, owner *models.User, id int) (*models.Contact, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Чтение контакта
// @Description Возвращает контакт текущего пользователя по ID.
// @Tags Contacts
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Идентификатор контакта"
// @Success 200 {object} response.Response "Контакт"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Контакт не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /contacts/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contact.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	contact, err := h.service.Read(r.Context(), user, id)
	if err != nil {
		log.Error("failed to read contact", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read contact"))
		return
	}
	if contact == nil {
		log.Info("contact not found", slog.Int("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("contact not found"))
		return
	}

	log.Info("contact read", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(contact))
}

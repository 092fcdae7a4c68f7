// Package list реализует HTTP-обработчик постраничного списка контактов
// текущего пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/maksym-sk21/hw14WEB/internal/http/middlewarectx"
	"github.com/maksym-sk21/hw14WEB/internal/http/response"
	"github.com/maksym-sk21/hw14WEB/internal/lib/sl"
	"github.com/maksym-sk21/hw14WEB/internal/models"
)

// Handler обрабатывает HTTP-запросы списка контактов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики контактов.
type Service interface {
	List(ctx context.Context, owner *models.User, skip, limit int) ([]*models.Contact, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список контактов
// @Description Возвращает контакты текущего пользователя с параметрами skip и limit.
// @Tags Contacts
// @Produce  json
// @Security BearerAuth
// @Param skip query int false "Сколько записей пропустить" default(0)
// @Param limit query int false "Максимум записей в ответе" default(10)
// @Success 200 {object} response.Response "Список контактов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /contacts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contact.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	skip, err := strconv.Atoi(r.URL.Query().Get("skip"))
	if err != nil || skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	contacts, err := h.service.List(r.Context(), user, skip, limit)
	if err != nil {
		log.Error("failed to list contacts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list contacts"))
		return
	}

	log.Info("contacts listed", slog.Int("count", len(contacts)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"count":    len(contacts),
		"contacts": contacts,
	}))
}

// Package reset реализует сброс базы данных к начальному набору пользователей.
package reset

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/farm-manager/internal/http/response"
	"github.com/magabrotheeeer/farm-manager/internal/lib/sl"
)

// MsgResetDone — ответ на успешный сброс.
const MsgResetDone = "Database reset successfully"

// Service выполняет сброс данных.
type Service interface {
	Reset(ctx context.Context) error
}

// Handler обслуживает POST /reset.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.reset"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.Reset(r.Context()); err != nil {
		log.Error("reset database error", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	log.Warn("database reset", slog.String("ip", r.RemoteAddr))
	render.JSON(w, r, response.Message{Message: MsgResetDone})
}

// Package activity реализует HTTP-обработчик журнала попыток входа.
package activity

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/farm-manager/internal/models"
)

// Source возвращает записи журнала, новые первыми.
type Source interface {
	Recent() []models.LoginActivity
}

// Handler отдаёт журнал попыток входа.
type Handler struct {
	log    *slog.Logger
	source Source
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, source Source) *Handler {
	return &Handler{
		log:    log,
		source: source,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	entries := h.source.Recent()
	h.log.Debug("login activity requested", slog.Int("entries", len(entries)))
	render.JSON(w, r, entries)
}

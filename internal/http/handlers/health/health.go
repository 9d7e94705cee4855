// Package health реализует проверку доступности сервиса.
package health

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// Response — ответ проверки доступности.
type Response struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type Handler struct {
	now func() time.Time
}

func New() *Handler {
	return &Handler{now: time.Now}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, Response{
		Status:    "OK",
		Timestamp: h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

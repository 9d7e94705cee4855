// Package finance содержит общие части обработчиков финансовых эндпоинтов.
package finance

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/farm-manager/internal/http/request"
	"github.com/magabrotheeeer/farm-manager/internal/http/response"
	"github.com/magabrotheeeer/farm-manager/internal/lib/sl"
	"github.com/magabrotheeeer/farm-manager/internal/models"
)

// BindFilter читает фильтр из query-параметров и проверяет формат дат.
// При ошибке отвечает 400 и возвращает false.
func BindFilter(w http.ResponseWriter, r *http.Request, log *slog.Logger, v *validator.Validate) (models.Filter, bool) {
	f := request.Filter(r)
	if err := v.Struct(f); err != nil {
		log.Info("invalid filter", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err))
		return models.Filter{}, false
	}
	return f, true
}

// Internal отвечает 500 с общим сообщением, не раскрывая причину клиенту.
func Internal(w http.ResponseWriter, r *http.Request, log *slog.Logger, msg string, err error) {
	log.Error(msg, sl.Err(err))
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, response.Error(response.MsgInternal))
}

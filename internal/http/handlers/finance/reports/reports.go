// Package reports реализует HTTP-обработчики агрегированных отчётов:
// сводки, выручки по культурам и помесячной динамики.
//
// Все отчёты принимают тот же фильтр project/fromDate/toDate, что и списки.
package reports

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/farm-manager/internal/http/handlers/finance"
	"github.com/magabrotheeeer/farm-manager/internal/lib/validate"
	"github.com/magabrotheeeer/farm-manager/internal/models"
)

// Service описывает построение отчётов.
type Service interface {
	Summary(ctx context.Context, f models.Filter) (*models.Summary, error)
	RevenueByCrop(ctx context.Context, f models.Filter) ([]models.CropRevenue, error)
	MonthlyFinancials(ctx context.Context, f models.Filter) ([]models.MonthlyFinancials, error)
}

// Handler обслуживает /summary, /revenue-by-crop и /monthly-financials.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Summary возвращает выручку, расходы и чистую прибыль.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.finance.reports.summary")

	f, ok := finance.BindFilter(w, r, log, h.validate)
	if !ok {
		return
	}
	summary, err := h.service.Summary(r.Context(), f)
	if err != nil {
		finance.Internal(w, r, log, "get summary error", err)
		return
	}
	render.JSON(w, r, summary)
}

// RevenueByCrop возвращает выручку по культурам, крупные первыми.
func (h *Handler) RevenueByCrop(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.finance.reports.revenue_by_crop")

	f, ok := finance.BindFilter(w, r, log, h.validate)
	if !ok {
		return
	}
	rows, err := h.service.RevenueByCrop(r.Context(), f)
	if err != nil {
		finance.Internal(w, r, log, "get revenue by crop error", err)
		return
	}
	render.JSON(w, r, rows)
}

// MonthlyFinancials возвращает доходы и расходы по месяцам, последние первыми.
func (h *Handler) MonthlyFinancials(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.finance.reports.monthly_financials")

	f, ok := finance.BindFilter(w, r, log, h.validate)
	if !ok {
		return
	}
	rows, err := h.service.MonthlyFinancials(r.Context(), f)
	if err != nil {
		finance.Internal(w, r, log, "get monthly financials error", err)
		return
	}
	render.JSON(w, r, rows)
}

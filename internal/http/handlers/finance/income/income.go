// Package income реализует HTTP-обработчики списка и создания записей о доходах.
package income

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/farm-manager/internal/http/handlers/finance"
	"github.com/magabrotheeeer/farm-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/farm-manager/internal/http/request"
	"github.com/magabrotheeeer/farm-manager/internal/http/response"
	"github.com/magabrotheeeer/farm-manager/internal/lib/sl"
	"github.com/magabrotheeeer/farm-manager/internal/lib/validate"
	"github.com/magabrotheeeer/farm-manager/internal/models"
)

// Request — тело запроса на создание дохода.
// Итог задаётся либо парой yield и priceUnit, либо totalIncome, либо amount.
type Request struct {
	Date        string         `json:"date" validate:"required,iso8601"`
	Project     string         `json:"project" validate:"max=200"`
	Crop        string         `json:"crop" validate:"max=100"`
	Yield       request.Number `json:"yield" validate:"omitempty,numeric"`
	PriceUnit   request.Number `json:"priceUnit" validate:"omitempty,numeric"`
	TotalIncome request.Number `json:"totalIncome" validate:"omitempty,numeric"`
	Amount      request.Number `json:"amount" validate:"omitempty,numeric"`
}

// Service описывает операции с доходами.
type Service interface {
	ListIncome(ctx context.Context, f models.Filter) ([]models.Income, error)
	CreateIncome(ctx context.Context, in models.Income) (*models.Income, error)
}

// Handler обслуживает GET и POST /income.
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

// List возвращает доходы по фильтру project/fromDate/toDate, новые первыми.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.finance.income.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	f, ok := finance.BindFilter(w, r, log, h.validate)
	if !ok {
		return
	}
	records, err := h.service.ListIncome(r.Context(), f)
	if err != nil {
		finance.Internal(w, r, log, "get income error", err)
		return
	}
	render.JSON(w, r, records)
}

// Create сохраняет новую запись о доходе и возвращает её в сохранённом виде.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.finance.income.create"

	username, _ := middlewarectx.UsernameFromContext(r.Context())
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("user", username),
	)

	var req Request
	if err := request.DecodeJSON(r, &req); err != nil {
		log.Warn("failed to decode request body", sl.Err(err))
		status, msg := request.Describe(err)
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}
	req.Project = request.Sanitize(req.Project)
	req.Crop = request.Sanitize(req.Crop)

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err))
		return
	}

	created, err := h.service.CreateIncome(r.Context(), models.Income{
		Date:        req.Date,
		Project:     req.Project,
		Crop:        req.Crop,
		Yield:       req.Yield.Float(),
		PriceUnit:   req.PriceUnit.Float(),
		TotalIncome: req.TotalIncome.Float(),
		Amount:      req.Amount.Float(),
	})
	if err != nil {
		finance.Internal(w, r, log, "add income error", err)
		return
	}
	render.JSON(w, r, created)
}

// Package expenses реализует HTTP-обработчики списка и создания записей о расходах.
package expenses

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

// Request — тело запроса на создание расхода.
type Request struct {
	Date        string         `json:"date" validate:"required,iso8601"`
	Description string         `json:"description" validate:"max=500"`
	Category    string         `json:"category" validate:"max=100"`
	Project     string         `json:"project" validate:"max=200"`
	Units       request.Number `json:"units" validate:"omitempty,numeric"`
	CostPerUnit request.Number `json:"costPerUnit" validate:"omitempty,numeric"`
	TotalCost   request.Number `json:"totalCost" validate:"omitempty,numeric"`
	Amount      request.Number `json:"amount" validate:"omitempty,numeric"`
}

// Service описывает операции с расходами.
type Service interface {
	ListExpenses(ctx context.Context, f models.Filter) ([]models.Expense, error)
	CreateExpense(ctx context.Context, e models.Expense) (*models.Expense, error)
}

// Handler обслуживает GET и POST /expenses.
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

// List возвращает расходы по фильтру, новые первыми.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.finance.expenses.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	f, ok := finance.BindFilter(w, r, log, h.validate)
	if !ok {
		return
	}
	records, err := h.service.ListExpenses(r.Context(), f)
	if err != nil {
		finance.Internal(w, r, log, "get expenses error", err)
		return
	}
	render.JSON(w, r, records)
}

// Create сохраняет новую запись о расходе.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.finance.expenses.create"

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
	req.Description = request.Sanitize(req.Description)
	req.Category = request.Sanitize(req.Category)
	req.Project = request.Sanitize(req.Project)

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err))
		return
	}

	created, err := h.service.CreateExpense(r.Context(), models.Expense{
		Date:        req.Date,
		Description: req.Description,
		Category:    req.Category,
		Project:     req.Project,
		Units:       req.Units.Float(),
		CostPerUnit: req.CostPerUnit.Float(),
		TotalCost:   req.TotalCost.Float(),
		Amount:      req.Amount.Float(),
	})
	if err != nil {
		finance.Internal(w, r, log, "add expense error", err)
		return
	}
	render.JSON(w, r, created)
}

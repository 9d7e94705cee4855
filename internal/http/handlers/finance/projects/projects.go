// Package projects реализует HTTP-обработчики списка и создания проектов.
package projects

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/farm-manager/internal/http/handlers/finance"
	"github.com/magabrotheeeer/farm-manager/internal/http/request"
	"github.com/magabrotheeeer/farm-manager/internal/http/response"
	"github.com/magabrotheeeer/farm-manager/internal/lib/sl"
	"github.com/magabrotheeeer/farm-manager/internal/lib/validate"
	"github.com/magabrotheeeer/farm-manager/internal/models"
)

// Request — тело запроса на создание проекта. Пустой статус означает active.
type Request struct {
	Name      string         `json:"name" validate:"required,max=200"`
	Crop      string         `json:"crop" validate:"max=100"`
	Acreage   request.Number `json:"acreage" validate:"omitempty,numeric"`
	StartDate string         `json:"startDate" validate:"omitempty,iso8601"`
	Status    string         `json:"status" validate:"max=50"`
}

// Service описывает операции с проектами.
type Service interface {
	ListProjects(ctx context.Context, f models.Filter) ([]models.Project, error)
	CreateProject(ctx context.Context, p models.Project) (*models.Project, error)
}

// Handler обслуживает GET и POST /projects.
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

// List возвращает проекты. Фильтр project сравнивается с именем проекта,
// даты с датой начала.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.finance.projects.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	f, ok := finance.BindFilter(w, r, log, h.validate)
	if !ok {
		return
	}
	list, err := h.service.ListProjects(r.Context(), f)
	if err != nil {
		finance.Internal(w, r, log, "get projects error", err)
		return
	}
	render.JSON(w, r, list)
}

// Create сохраняет новый проект.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.finance.projects.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := request.DecodeJSON(r, &req); err != nil {
		log.Warn("failed to decode request body", sl.Err(err))
		status, msg := request.Describe(err)
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}
	req.Name = request.Sanitize(req.Name)
	req.Crop = request.Sanitize(req.Crop)
	req.Status = request.Sanitize(req.Status)

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err))
		return
	}

	created, err := h.service.CreateProject(r.Context(), models.Project{
		Name:      req.Name,
		Crop:      req.Crop,
		Acreage:   req.Acreage.Float(),
		StartDate: req.StartDate,
		Status:    req.Status,
	})
	if err != nil {
		finance.Internal(w, r, log, "add project error", err)
		return
	}
	render.JSON(w, r, created)
}

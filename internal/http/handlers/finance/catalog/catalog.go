// Package catalog реализует HTTP-обработчики справочников культур и склада.
package catalog

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/farm-manager/internal/http/handlers/finance"
	"github.com/magabrotheeeer/farm-manager/internal/models"
)

// Service описывает чтение справочников.
type Service interface {
	ListCrops(ctx context.Context) ([]models.Crop, error)
	ListInventory(ctx context.Context) ([]models.InventoryItem, error)
}

// Handler обслуживает GET /crops и GET /inventory.
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

func (h *Handler) Crops(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(
		slog.String("op", "handlers.finance.catalog.crops"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	crops, err := h.service.ListCrops(r.Context())
	if err != nil {
		finance.Internal(w, r, log, "get crops error", err)
		return
	}
	render.JSON(w, r, crops)
}

func (h *Handler) Inventory(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(
		slog.String("op", "handlers.finance.catalog.inventory"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	items, err := h.service.ListInventory(r.Context())
	if err != nil {
		finance.Internal(w, r, log, "get inventory error", err)
		return
	}
	render.JSON(w, r, items)
}

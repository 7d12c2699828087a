package inventory

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/balcao-erp/balcao-erp/internal/platform/httpx"
)

// Handler wires inventory endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/inventory/status", h.stockStatus)
	r.Get("/inventory/movements", h.listMovements)
	r.Post("/inventory/adjustments", h.postAdjustment)
}

func (h *Handler) stockStatus(w http.ResponseWriter, r *http.Request) {
	levels, err := h.service.StockStatus(r.Context(), time.Now())
	if err != nil {
		h.logger.Error("stock status", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": levels})
}

func (h *Handler) listMovements(w http.ResponseWriter, r *http.Request) {
	filter := MovementFilter{ProductID: r.URL.Query().Get("product_id")}
	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.From = t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.To = t
		}
	}
	movements, err := h.service.Movements(r.Context(), filter)
	if err != nil {
		h.logger.Error("list movements", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": movements})
}

type adjustmentRequest struct {
	ProductID string  `json:"product_id" validate:"required"`
	Qty       int     `json:"qty" validate:"required"`
	UnitCost  float64 `json:"unit_cost" validate:"gte=0"`
	Note      string  `json:"note" validate:"max=500"`
}

func (h *Handler) postAdjustment(w http.ResponseWriter, r *http.Request) {
	var req adjustmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	mv, err := h.service.PostAdjustment(r.Context(), MovementInput{
		ProductID: req.ProductID,
		Qty:       req.Qty,
		UnitCost:  req.UnitCost,
		Note:      req.Note,
		RefModule: "inventory",
	})
	if err != nil {
		h.logger.Error("post adjustment", slog.Any("error", err))
		respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, mv)
}

func respondDomainError(w http.ResponseWriter, err error) {
	switch err {
	case ErrNegativeStock, ErrInvalidQuantity, ErrInvalidUnitCost:
		httpx.Problem(w, http.StatusUnprocessableEntity, "Invalid Movement", err.Error())
	case ErrProductNotFound:
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}

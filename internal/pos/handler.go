package pos

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/balcao-erp/balcao-erp/internal/platform/httpx"
	"github.com/balcao-erp/balcao-erp/internal/shared"
)

// Handler wires point-of-sale endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers pos routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/sales", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
	})
}

type saleItemForm struct {
	ItemType  string  `json:"item_type" validate:"required,oneof=product service"`
	ProductID string  `json:"product_id" validate:"required_if=ItemType product"`
	ServiceID int64   `json:"service_id" validate:"required_if=ItemType service"`
	Qty       int     `json:"qty" validate:"gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
	UniqueID  string  `json:"unique_id" validate:"max=100"`
}

type saleForm struct {
	CustomerID    *int64         `json:"customer_id"`
	PaymentMethod string         `json:"payment_method" validate:"required"`
	Items         []saleItemForm `json:"items" validate:"required,min=1,dive"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form saleForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	input := SaleInput{
		CustomerID:     form.CustomerID,
		PaymentMethod:  PaymentMethod(form.PaymentMethod),
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	}
	for _, item := range form.Items {
		input.Items = append(input.Items, SaleItemInput{
			ItemType:  ItemType(item.ItemType),
			ProductID: item.ProductID,
			ServiceID: item.ServiceID,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
			UniqueID:  item.UniqueID,
		})
	}

	sale, err := h.service.CreateSale(r.Context(), input)
	if err != nil {
		h.logger.Error("create sale", slog.Any("error", err))
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sale)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	sale, err := h.service.GetSale(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sale)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := ListFilters{}
	filters.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filters.PerPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	if v := r.URL.Query().Get("competency"); v != "" {
		comp, err := shared.ParseCompetency(v)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Competency", err.Error())
			return
		}
		filters.From = comp.Start(time.Local)
		filters.To = comp.End(time.Local)
	}

	sales, total, err := h.service.ListSales(r.Context(), filters)
	if err != nil {
		h.logger.Error("list sales", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items":      sales,
		"pagination": shared.NewPagination(filters.Page, filters.PerPage, total),
	})
}

func (h *Handler) respondDomainError(w http.ResponseWriter, err error) {
	switch err {
	case ErrEmptySale, ErrInvalidQty, ErrUniqueIDRequired:
		httpx.Problem(w, http.StatusUnprocessableEntity, "Invalid Sale", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}

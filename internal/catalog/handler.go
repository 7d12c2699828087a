package catalog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/balcao-erp/balcao-erp/internal/platform/httpx"
	"github.com/balcao-erp/balcao-erp/internal/shared"
)

// Handler wires catalog endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Get("/{barcode}", h.getProduct)
		r.Put("/{barcode}", h.updateProduct)
		r.Delete("/{barcode}", h.deleteProduct)
	})
	r.Route("/services", func(r chi.Router) {
		r.Get("/", h.listServices)
		r.Post("/", h.createService)
		r.Get("/{id}", h.getService)
		r.Put("/{id}", h.updateService)
		r.Delete("/{id}", h.deleteService)
	})
}

type productForm struct {
	Barcode          string  `json:"barcode" validate:"required,max=64"`
	Name             string  `json:"name" validate:"required,max=200"`
	Category         string  `json:"category" validate:"max=100"`
	Price            float64 `json:"price" validate:"gte=0"`
	Cost             float64 `json:"cost" validate:"gte=0"`
	Stock            int     `json:"stock" validate:"gte=0"`
	RequiresUniqueID bool    `json:"requires_unique_id"`
	IsActive         bool    `json:"is_active"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	filters := ListFilters{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		Page:     page,
		PerPage:  perPage,
	}
	if v := r.URL.Query().Get("is_active"); v != "" {
		active := v == "true"
		filters.IsActive = &active
	}

	products, total, err := h.service.ListProducts(r.Context(), filters)
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items":      products,
		"pagination": shared.NewPagination(filters.Page, filters.PerPage, total),
	})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "barcode"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	product, err := h.service.CreateProduct(r.Context(), Product{
		Barcode:          form.Barcode,
		Name:             form.Name,
		Category:         form.Category,
		Price:            form.Price,
		Cost:             form.Cost,
		Stock:            form.Stock,
		RequiresUniqueID: form.RequiresUniqueID,
		IsActive:         form.IsActive,
	})
	if err != nil {
		h.logger.Error("create product", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "barcode"), Product{
		Name:             form.Name,
		Barcode:          chi.URLParam(r, "barcode"),
		Category:         form.Category,
		Price:            form.Price,
		Cost:             form.Cost,
		RequiresUniqueID: form.RequiresUniqueID,
		IsActive:         form.IsActive,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "barcode")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) decodeProduct(w http.ResponseWriter, r *http.Request) (productForm, bool) {
	var form productForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return form, false
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return form, false
	}
	return form, true
}

type serviceForm struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Price    float64 `json:"price" validate:"gte=0"`
	Cost     float64 `json:"cost" validate:"gte=0"`
	IsActive bool    `json:"is_active"`
}

func (h *Handler) listServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.ListServices(r.Context())
	if err != nil {
		h.logger.Error("list services", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": services})
}

func (h *Handler) getService(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	svc, err := h.service.GetService(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, svc)
}

func (h *Handler) createService(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeService(w, r)
	if !ok {
		return
	}
	svc, err := h.service.CreateService(r.Context(), OfferedService{
		Name:     form.Name,
		Price:    form.Price,
		Cost:     form.Cost,
		IsActive: form.IsActive,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, svc)
}

func (h *Handler) updateService(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeService(w, r)
	if !ok {
		return
	}
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	err := h.service.UpdateService(r.Context(), id, OfferedService{
		Name:     form.Name,
		Price:    form.Price,
		Cost:     form.Cost,
		IsActive: form.IsActive,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) deleteService(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err := h.service.DeleteService(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) decodeService(w http.ResponseWriter, r *http.Request) (serviceForm, bool) {
	var form serviceForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return form, false
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return form, false
	}
	return form, true
}

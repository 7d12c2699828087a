package serviceorders

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

// Handler wires service order endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers service order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/service-orders", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Post("/{id}/complete", h.complete)
		r.Delete("/{id}", h.delete)
	})
}

type orderForm struct {
	CustomerID  *int64  `json:"customer_id"`
	Description string  `json:"description" validate:"required,max=500"`
	TotalPrice  float64 `json:"total_price" validate:"gte=0"`
	TotalCost   float64 `json:"total_cost" validate:"gte=0"`
}

func (h *Handler) decodeForm(w http.ResponseWriter, r *http.Request) (OrderInput, bool) {
	var form orderForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return OrderInput{}, false
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return OrderInput{}, false
	}
	return OrderInput{
		CustomerID:  form.CustomerID,
		Description: form.Description,
		TotalPrice:  form.TotalPrice,
		TotalCost:   form.TotalCost,
	}, true
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	order, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.Error("create service order", slog.Any("error", err))
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	input, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	if err := h.service.Update(r.Context(), id, input); err != nil {
		h.respondDomainError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	order, err := h.service.Complete(r.Context(), id)
	if err != nil {
		h.logger.Error("complete service order", slog.Any("error", err), slog.Int64("id", id))
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondDomainError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := ListFilters{Status: Status(r.URL.Query().Get("status"))}
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

	orders, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list service orders", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items":      orders,
		"pagination": shared.NewPagination(filters.Page, filters.PerPage, total),
	})
}

func (h *Handler) respondDomainError(w http.ResponseWriter, err error) {
	switch err {
	case ErrAlreadyCompleted:
		httpx.Problem(w, http.StatusConflict, "Order Completed", err.Error())
	case ErrNegativeValue:
		httpx.Problem(w, http.StatusUnprocessableEntity, "Invalid Order", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}

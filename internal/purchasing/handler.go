package purchasing

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

// Handler wires purchasing endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers purchasing routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/purchases", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Post("/{id}/receive", h.receive)
		r.Post("/{id}/cancel", h.cancel)
	})
}

type lineForm struct {
	ProductID string  `json:"product_id" validate:"required"`
	Name      string  `json:"name" validate:"max=200"`
	Qty       int     `json:"qty" validate:"gt=0"`
	UnitCost  float64 `json:"unit_cost" validate:"gte=0"`
}

type orderForm struct {
	Supplier string     `json:"supplier" validate:"required,max=200"`
	DueDate  *time.Time `json:"due_date"`
	Lines    []lineForm `json:"lines" validate:"required,min=1,dive"`
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
	input := OrderInput{Supplier: form.Supplier, DueDate: form.DueDate}
	for _, line := range form.Lines {
		input.Lines = append(input.Lines, LineInput{
			ProductID: line.ProductID,
			Name:      line.Name,
			Qty:       line.Qty,
			UnitCost:  line.UnitCost,
		})
	}
	return input, true
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	order, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.Error("create purchase", slog.Any("error", err))
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

func (h *Handler) receive(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	order, err := h.service.Receive(r.Context(), id)
	if err != nil {
		h.logger.Error("receive purchase", slog.Any("error", err), slog.Int64("id", id))
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err := h.service.Cancel(r.Context(), id); err != nil {
		h.respondDomainError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := ListFilters{Status: Status(r.URL.Query().Get("status"))}
	filters.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filters.PerPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))

	orders, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list purchases", slog.Any("error", err))
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
	case ErrNotDraft:
		httpx.Problem(w, http.StatusConflict, "Order Not Draft", err.Error())
	case ErrEmptyOrder, ErrInvalidLine:
		httpx.Problem(w, http.StatusUnprocessableEntity, "Invalid Order", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}

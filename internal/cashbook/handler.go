package cashbook

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

// Handler wires cashbook endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers cashbook routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/cash-entries", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Post("/{id}/pay", h.markPaid)
		r.Delete("/{id}", h.remove)
	})
}

type entryForm struct {
	Type        string  `json:"type" validate:"required,oneof=income expense"`
	Category    string  `json:"category" validate:"required"`
	Status      string  `json:"status" validate:"required,oneof=pending paid"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	Description string  `json:"description" validate:"max=500"`
	OccurredAt  string  `json:"occurred_at" validate:"omitempty,datetime=2006-01-02"`
	DueDate     string  `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := ListFilters{
		Type:     EntryType(r.URL.Query().Get("type")),
		Category: Category(r.URL.Query().Get("category")),
		Status:   Status(r.URL.Query().Get("status")),
	}
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

	entries, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list cash entries", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items":      entries,
		"pagination": shared.NewPagination(filters.Page, filters.PerPage, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	entry, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), entry)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.decode(w, r)
	if !ok {
		return
	}
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err := h.service.Update(r.Context(), id, entry); err != nil {
		h.respondDomainError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) markPaid(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err := h.service.MarkPaid(r.Context(), id); err != nil {
		h.respondDomainError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (Entry, bool) {
	var form entryForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return Entry{}, false
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return Entry{}, false
	}
	entry := Entry{
		Type:        EntryType(form.Type),
		Category:    Category(form.Category),
		Status:      Status(form.Status),
		Amount:      form.Amount,
		Description: form.Description,
	}
	if form.OccurredAt != "" {
		t, _ := time.ParseInLocation("2006-01-02", form.OccurredAt, time.Local)
		entry.OccurredAt = t
	}
	if form.DueDate != "" {
		t, _ := time.ParseInLocation("2006-01-02", form.DueDate, time.Local)
		entry.DueDate = &t
	}
	return entry, true
}

func (h *Handler) respondDomainError(w http.ResponseWriter, err error) {
	switch err {
	case ErrNegativeAmount, ErrAlreadyPaid:
		httpx.Problem(w, http.StatusUnprocessableEntity, "Invalid Entry", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}

// Package analytichttp exposes the dashboard over HTTP.
package analytichttp

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/balcao-erp/balcao-erp/internal/analytics"
	"github.com/balcao-erp/balcao-erp/internal/platform/httpx"
	"github.com/balcao-erp/balcao-erp/internal/shared"
)

// Handler serves the dashboard endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *analytics.Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *analytics.Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// competencyParam reads the month query parameter, defaulting to the current
// month when absent.
func competencyParam(r *http.Request) (shared.Competency, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		return shared.CompetencyOf(nowLocal()), nil
	}
	return shared.ParseCompetency(raw)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	comp, err := competencyParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Month", err.Error())
		return
	}
	dash, err := h.service.GetDashboard(r.Context(), comp)
	if err != nil {
		h.logger.Error("dashboard", slog.String("month", comp.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dash)
}

func (h *Handler) handleGetGoals(w http.ResponseWriter, r *http.Request) {
	comp, err := competencyParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Month", err.Error())
		return
	}
	goals, err := h.service.GetGoals(r.Context(), comp)
	if err != nil {
		h.logger.Error("get goals", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, goals)
}

type goalsForm struct {
	PredictedAvgMarginPct float64 `json:"predicted_avg_margin_pct" validate:"gte=0,lte=100"`
	NetProfitTarget       float64 `json:"net_profit_target"`
	TurnoverGoal          float64 `json:"turnover_goal" validate:"gte=0"`
}

func (h *Handler) handlePutGoals(w http.ResponseWriter, r *http.Request) {
	comp, err := competencyParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Month", err.Error())
		return
	}
	var form goalsForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	goals := analytics.Goals{
		Competency:            comp,
		PredictedAvgMarginPct: form.PredictedAvgMarginPct,
		NetProfitTarget:       form.NetProfitTarget,
		TurnoverGoal:          form.TurnoverGoal,
	}
	if err := h.service.SaveGoals(r.Context(), goals); err != nil {
		h.logger.Error("save goals", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

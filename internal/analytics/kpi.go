// Package analytics derives the monthly financial dashboard: KPI summary,
// product rankings and goal tracking over a competency month.
package analytics

import (
	"time"

	"github.com/balcao-erp/balcao-erp/internal/cashbook"
	"github.com/balcao-erp/balcao-erp/internal/catalog"
	"github.com/balcao-erp/balcao-erp/internal/pos"
	"github.com/balcao-erp/balcao-erp/internal/shared"
)

// Goals carries the month's targets entered by the shop owner.
type Goals struct {
	Competency            shared.Competency `json:"-"`
	Month                 string            `json:"month"`
	PredictedAvgMarginPct float64           `json:"predicted_avg_margin_pct"`
	NetProfitTarget       float64           `json:"net_profit_target"`
	TurnoverGoal          float64           `json:"turnover_goal"`
}

// MonthInputs is everything the KPI computation reads. Entries must include
// the full paid history up to the month end so the opening balance can be
// derived; Sales holds only the month's tickets. Ref is the reference instant
// for elapsed-day math, never the wall clock.
type MonthInputs struct {
	Competency shared.Competency
	Ref        time.Time
	Location   *time.Location
	Entries    []cashbook.Entry
	Sales      []pos.Sale
	Products   []catalog.Product
	Goals      Goals
}

// MonthSummary is the derived dashboard card.
type MonthSummary struct {
	Month                      string  `json:"month"`
	DaysInMonth                int     `json:"days_in_month"`
	DaysElapsed                int     `json:"days_elapsed"`
	OpeningBalance             float64 `json:"opening_balance"`
	CurrentRevenue             float64 `json:"current_revenue"`
	FixedCosts                 float64 `json:"fixed_costs"`
	VariableCostOfGoods        float64 `json:"variable_cost_of_goods"`
	VariableCostOfServices     float64 `json:"variable_cost_of_services"`
	ContributionMarginPct      float64 `json:"contribution_margin_pct"`
	NetProfit                  float64 `json:"net_profit"`
	BreakEvenRevenue           float64 `json:"break_even_revenue"`
	TotalRevenueGoal           float64 `json:"total_revenue_goal"`
	GoalProgressPct            float64 `json:"goal_progress_pct"`
	MonthlyForecast            float64 `json:"monthly_forecast"`
	AverageInventoryValue      float64 `json:"average_inventory_value"`
	ActualInventoryTurnover    float64 `json:"actual_inventory_turnover"`
	ProjectedInventoryTurnover float64 `json:"projected_inventory_turnover"`
}

// ratio divides guarding the zero denominator, which always yields 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// ComputeMonthSummary derives every dashboard indicator for the competency
// month. Pure: identical inputs produce identical output.
//
// Cost of goods sums the unit cost frozen on each sale item at sale time,
// not the current catalog cost, so later cost changes never rewrite a
// closed month.
func ComputeMonthSummary(in MonthInputs) MonthSummary {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	monthStart := in.Competency.Start(loc)
	daysInMonth := in.Competency.Days()
	daysElapsed := in.Competency.ElapsedDays(in.Ref)

	out := MonthSummary{
		Month:       in.Competency.String(),
		DaysInMonth: daysInMonth,
		DaysElapsed: daysElapsed,
	}

	for _, e := range in.Entries {
		if !e.Realized() {
			continue
		}
		switch {
		case e.OccurredAt.Before(monthStart):
			out.OpeningBalance += e.SignedAmount()
		case in.Competency.Contains(e.OccurredAt.In(loc)):
			if e.Type != cashbook.TypeExpense {
				continue
			}
			if cashbook.FixedCostCategories[e.Category] {
				out.FixedCosts += e.Amount
			}
			if e.Category == cashbook.CategoryServiceCost {
				out.VariableCostOfServices += e.Amount
			}
		}
	}

	for _, sale := range in.Sales {
		out.CurrentRevenue += sale.Total
		for _, item := range sale.Items {
			if item.ItemType == pos.ItemProduct {
				out.VariableCostOfGoods += item.UnitCost * float64(item.Qty)
			}
		}
	}

	totalVariable := out.VariableCostOfGoods + out.VariableCostOfServices
	out.ContributionMarginPct = ratio(out.CurrentRevenue-totalVariable, out.CurrentRevenue) * 100
	out.NetProfit = out.CurrentRevenue - totalVariable - out.FixedCosts
	out.BreakEvenRevenue = ratio(out.FixedCosts, in.Goals.PredictedAvgMarginPct/100)
	out.TotalRevenueGoal = out.BreakEvenRevenue + in.Goals.NetProfitTarget
	out.GoalProgressPct = ratio(out.CurrentRevenue, out.TotalRevenueGoal) * 100
	out.MonthlyForecast = ratio(out.CurrentRevenue, float64(daysElapsed)) * float64(daysInMonth)

	for _, p := range in.Products {
		out.AverageInventoryValue += p.Cost * float64(p.Stock)
	}
	out.ActualInventoryTurnover = ratio(out.VariableCostOfGoods, out.AverageInventoryValue)
	out.ProjectedInventoryTurnover = out.ActualInventoryTurnover * ratio(float64(daysInMonth), float64(daysElapsed))

	return out
}

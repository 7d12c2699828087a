package inventory

// Status buckets a product by how long the current stock will last at the
// observed sales velocity. Never stored, always recomputed.
type Status string

const (
	// StatusOutOfStock means there is nothing left to sell.
	StatusOutOfStock Status = "out_of_stock"
	// StatusAtRisk means the stock covers at most the at-risk horizon.
	StatusAtRisk Status = "at_risk"
	// StatusHealthy means the cover sits inside the healthy window.
	StatusHealthy Status = "healthy"
	// StatusExcess means stock outlives the healthy window, or nothing sold.
	StatusExcess Status = "excess"
)

// Policy holds the days-of-cover thresholds.
type Policy struct {
	AtRiskDays  float64
	HealthyDays float64
}

// DefaultPolicy mirrors the shop's standing thresholds: a week of cover is at
// risk, a month is healthy.
var DefaultPolicy = Policy{AtRiskDays: 7, HealthyDays: 30}

// Classify applies DefaultPolicy.
func Classify(stock, unitsSold, daysElapsed int) Status {
	return DefaultPolicy.Classify(stock, unitsSold, daysElapsed)
}

// Classify buckets a product given its current stock, the units sold in the
// elapsed portion of the period, and how many days of the period have passed.
func (p Policy) Classify(stock, unitsSold, daysElapsed int) Status {
	if stock <= 0 {
		return StatusOutOfStock
	}
	if unitsSold <= 0 {
		return StatusExcess
	}
	if daysElapsed < 1 {
		daysElapsed = 1
	}
	dailyRate := float64(unitsSold) / float64(daysElapsed)
	if dailyRate <= 0 {
		return StatusExcess
	}
	cover := float64(stock) / dailyRate
	switch {
	case cover <= p.AtRiskDays:
		return StatusAtRisk
	case cover <= p.HealthyDays:
		return StatusHealthy
	default:
		return StatusExcess
	}
}

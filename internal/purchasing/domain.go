// Package purchasing manages supplier purchase orders and their stock and
// cash effects on receipt.
package purchasing

import (
	"errors"
	"time"
)

// Status is the purchase order lifecycle state.
type Status string

const (
	// StatusDraft means the order is still editable and has no side effects.
	StatusDraft Status = "draft"
	// StatusReceived means goods arrived, stock was posted and the supplier
	// expense was recorded.
	StatusReceived Status = "received"
	// StatusCancelled means the order was abandoned before receipt.
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusReceived, StatusCancelled:
		return true
	}
	return false
}

// Line is one product of a purchase order.
type Line struct {
	ID        int64   `json:"id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	UnitCost  float64 `json:"unit_cost"`
}

// Order is a supplier purchase.
type Order struct {
	ID         int64      `json:"id"`
	Code       string     `json:"code"`
	Supplier   string     `json:"supplier"`
	Lines      []Line     `json:"lines"`
	Total      float64    `json:"total"`
	Status     Status     `json:"status"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	ReceivedAt *time.Time `json:"received_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ListFilters scopes purchase order listings.
type ListFilters struct {
	Status  Status
	Page    int
	PerPage int
}

// ErrNotDraft indicates a mutation on an order past the draft state.
var ErrNotDraft = errors.New("purchasing: order is no longer a draft")

// ErrEmptyOrder indicates an order without lines.
var ErrEmptyOrder = errors.New("purchasing: order needs at least one line")

// ErrInvalidLine indicates a line with non-positive qty or negative cost.
var ErrInvalidLine = errors.New("purchasing: line needs qty > 0 and unit cost >= 0")

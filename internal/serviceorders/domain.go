// Package serviceorders tracks repair and service work performed for
// customers, from intake to completion.
package serviceorders

import (
	"errors"
	"time"
)

// Status is the order lifecycle state.
type Status string

const (
	// StatusPending means the work has not been delivered yet.
	StatusPending Status = "pending"
	// StatusCompleted means the work was delivered and billed.
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Order is one repair/service job.
type Order struct {
	ID          int64      `json:"id"`
	Code        string     `json:"code"`
	CustomerID  *int64     `json:"customer_id,omitempty"`
	Description string     `json:"description"`
	TotalPrice  float64    `json:"total_price"`
	TotalCost   float64    `json:"total_cost"`
	Status      Status     `json:"status"`
	OpenedAt    time.Time  `json:"opened_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ListFilters scopes order listings.
type ListFilters struct {
	Status  Status
	From    time.Time
	To      time.Time
	Page    int
	PerPage int
}

// ErrAlreadyCompleted indicates a Complete on a finished order.
var ErrAlreadyCompleted = errors.New("serviceorders: order already completed")

// ErrNegativeValue indicates a price or cost below zero.
var ErrNegativeValue = errors.New("serviceorders: price and cost must be >= 0")

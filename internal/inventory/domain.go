// Package inventory keeps the product stock ledger and derives stock health
// from sales velocity.
package inventory

import (
	"errors"
	"time"
)

// MovementType enumerates supported stock movements.
type MovementType string

const (
	// MovementIn represents an inbound movement (purchase receiving).
	MovementIn MovementType = "IN"
	// MovementOut represents an outbound movement (sale).
	MovementOut MovementType = "OUT"
	// MovementAdjust indicates a manual correction.
	MovementAdjust MovementType = "ADJUST"
)

// Movement records one ledger entry. Qty carries the signed stock change.
type Movement struct {
	ID        int64        `json:"id"`
	Code      string       `json:"code"`
	Type      MovementType `json:"type"`
	ProductID string       `json:"product_id"`
	Qty       int          `json:"qty"`
	UnitCost  float64      `json:"unit_cost"`
	Note      string       `json:"note,omitempty"`
	RefModule string       `json:"ref_module,omitempty"`
	RefID     string       `json:"ref_id,omitempty"`
	PostedAt  time.Time    `json:"posted_at"`
}

// StockRow pairs a product with its balance and trailing-period sales,
// the inputs the classifier needs.
type StockRow struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	UnitsSold int    `json:"units_sold"`
}

// StockLevel is a StockRow with its derived status.
type StockLevel struct {
	StockRow
	Status Status `json:"status"`
}

// MovementFilter scopes ledger listings.
type MovementFilter struct {
	ProductID string
	From      time.Time
	To        time.Time
	Limit     int
}

// ErrNegativeStock is returned when a movement would drive stock below zero.
var ErrNegativeStock = errors.New("inventory: negative stock not allowed")

// ErrInvalidQuantity indicates a zero or wrongly signed quantity.
var ErrInvalidQuantity = errors.New("inventory: quantity must be non zero")

// ErrInvalidUnitCost indicates a negative cost value.
var ErrInvalidUnitCost = errors.New("inventory: unit cost must be >= 0")

// ErrProductNotFound indicates the ledger has no such product.
var ErrProductNotFound = errors.New("inventory: product not found")

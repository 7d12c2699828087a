// Package pos registers ticket sales at the shop counter.
package pos

import (
	"errors"
	"time"
)

// ItemType discriminates product lines from service (labor) lines.
type ItemType string

const (
	// ItemProduct is a stocked catalog item.
	ItemProduct ItemType = "product"
	// ItemService is an offered service.
	ItemService ItemType = "service"
)

// PaymentMethod is the closed set of accepted tenders.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCredit PaymentMethod = "credit_card"
	PaymentDebit  PaymentMethod = "debit_card"
	PaymentPix    PaymentMethod = "pix"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCredit, PaymentDebit, PaymentPix:
		return true
	}
	return false
}

// SaleItem is one line of a ticket. UnitPrice and UnitCost are frozen at sale
// time and never re-derived from the catalog.
type SaleItem struct {
	ID        int64    `json:"id"`
	ItemType  ItemType `json:"item_type"`
	ProductID string   `json:"product_id,omitempty"`
	ServiceID int64    `json:"service_id,omitempty"`
	Name      string   `json:"name"`
	Qty       int      `json:"qty"`
	UnitPrice float64  `json:"unit_price"`
	UnitCost  float64  `json:"unit_cost"`
	UniqueID  string   `json:"unique_id,omitempty"`
}

// Sale is a completed counter ticket.
type Sale struct {
	ID            int64         `json:"id"`
	Code          string        `json:"code"`
	CustomerID    *int64        `json:"customer_id,omitempty"`
	Items         []SaleItem    `json:"items"`
	Total         float64       `json:"total"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	SoldAt        time.Time     `json:"sold_at"`
	CreatedAt     time.Time     `json:"created_at"`
}

// ListFilters scopes sale listings.
type ListFilters struct {
	From    time.Time
	To      time.Time
	Page    int
	PerPage int
}

// ErrEmptySale indicates a ticket without lines.
var ErrEmptySale = errors.New("pos: sale needs at least one item")

// ErrUniqueIDRequired indicates a product that demands a serial/IMEI was sold
// without one.
var ErrUniqueIDRequired = errors.New("pos: product requires a unique identifier")

// ErrInvalidQty indicates a non-positive line quantity.
var ErrInvalidQty = errors.New("pos: quantity must be > 0")

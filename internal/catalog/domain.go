// Package catalog manages the sellable items of the shop: barcoded products
// and offered services (labor).
package catalog

import "time"

// Product is a stocked item. The barcode doubles as the public identifier.
type Product struct {
	Barcode          string    `json:"barcode"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	Price            float64   `json:"price"`
	Cost             float64   `json:"cost"`
	Stock            int       `json:"stock"`
	RequiresUniqueID bool      `json:"requires_unique_id"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// OfferedService is a labor line sold on tickets and service orders.
type OfferedService struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Cost      float64   `json:"cost"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListFilters scopes product listings.
type ListFilters struct {
	Search   string
	Category string
	IsActive *bool
	Page     int
	PerPage  int
}

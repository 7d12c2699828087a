// Package customers keeps the shop's customer registry.
package customers

import "time"

// Customer is a registered buyer. Tax ID and phone are optional; when present
// they are stored masked.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListFilters scopes customer listings.
type ListFilters struct {
	Search  string
	Page    int
	PerPage int
}

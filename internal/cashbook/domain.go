// Package cashbook records the shop's cash flow: income and expense entries,
// their categories and settlement status.
package cashbook

import (
	"errors"
	"time"
)

// EntryType says which direction an entry moves cash.
type EntryType string

const (
	// TypeIncome increases the cash balance when paid.
	TypeIncome EntryType = "income"
	// TypeExpense decreases the cash balance when paid.
	TypeExpense EntryType = "expense"
)

// Valid reports whether t is a known entry type.
func (t EntryType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Category classifies an entry. The set is closed so aggregations can match
// exhaustively.
type Category string

const (
	CategoryRent        Category = "rent"
	CategoryUtilities   Category = "utilities"
	CategoryTaxes       Category = "taxes"
	CategorySalary      Category = "salary"
	CategoryServiceCost Category = "service_cost"
	CategorySupplier    Category = "supplier"
	CategorySale        Category = "sale"
	CategoryOther       Category = "other"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryRent, CategoryUtilities, CategoryTaxes, CategorySalary,
		CategoryServiceCost, CategorySupplier, CategorySale, CategoryOther:
		return true
	}
	return false
}

// FixedCostCategories are the recurring operating expenses independent of
// sales volume. The KPI engine sums paid expenses in these categories.
var FixedCostCategories = map[Category]bool{
	CategoryRent:      true,
	CategoryUtilities: true,
	CategoryTaxes:     true,
	CategorySalary:    true,
	CategoryOther:     true,
}

// Status tracks settlement.
type Status string

const (
	// StatusPending means the entry has not hit the cash balance yet.
	StatusPending Status = "pending"
	// StatusPaid means the entry is realized.
	StatusPaid Status = "paid"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusPaid
}

// Entry is one cash transaction. Amount is always non-negative; direction is
// encoded solely by Type.
type Entry struct {
	ID          int64      `json:"id"`
	Type        EntryType  `json:"type"`
	Category    Category   `json:"category"`
	Status      Status     `json:"status"`
	Amount      float64    `json:"amount"`
	Description string     `json:"description,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// SignedAmount applies the entry direction: +amount for income, -amount for
// expense.
func (e Entry) SignedAmount() float64 {
	if e.Type == TypeExpense {
		return -e.Amount
	}
	return e.Amount
}

// Realized reports whether the entry counts toward the cash balance.
func (e Entry) Realized() bool {
	return e.Status == StatusPaid
}

// ListFilters scopes cashbook listings.
type ListFilters struct {
	From     time.Time
	To       time.Time
	Type     EntryType
	Category Category
	Status   Status
	Page     int
	PerPage  int
}

// ErrNegativeAmount indicates an amount below zero.
var ErrNegativeAmount = errors.New("cashbook: amount must be >= 0")

// ErrAlreadyPaid indicates a MarkPaid on a settled entry.
var ErrAlreadyPaid = errors.New("cashbook: entry already paid")

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies an expense. The set is fixed; anything unknown is
// normalized to CategoryOther so remote documents never carry a value the
// app cannot render.
type Category string

const (
	CategoryFood          Category = "Food & Dining"
	CategoryTransport     Category = "Transportation"
	CategoryAccommodation Category = "Accommodation"
	CategoryActivities    Category = "Activities"
	CategoryShopping      Category = "Shopping"
	CategoryOther         Category = "Other"
)

// Categories lists all valid categories in display order.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryAccommodation,
	CategoryActivities,
	CategoryShopping,
	CategoryOther,
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// NormalizeCategory maps an unset or unknown value to CategoryOther.
func NormalizeCategory(c Category) Category {
	if c.Valid() {
		return c
	}
	return CategoryOther
}

// DefaultCurrency is used when an expense is created without a currency code.
const DefaultCurrency = "USD"

// Expense is a single cost recorded against exactly one trip.
// An expense with no owning trip is invalid — the schema enforces the
// foreign key, and deleting a trip removes its expenses in the same
// transaction.
type Expense struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	Title     string
	Amount    float64 // non-negative
	Currency  string  // ISO 4217 code, e.g. "USD"
	Category  Category
	Date      time.Time
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

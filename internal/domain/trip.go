// Package domain contains the core data types for the Voyager travel app.
// This package has no dependencies beyond uuid and is imported by every
// other internal package (repo, service, sync, remote, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is the top-level aggregate: a journey to a destination with its own
// notes, itinerary, and owned expenses. The ID is assigned once at creation
// and never changes — it is the join key between the local row and the
// remote document, which is what makes remote upserts idempotent.
type Trip struct {
	ID          uuid.UUID
	Name        string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Notes       string
	Itinerary   string
	IsFavorite  bool
	IsCompleted bool
	CoverImage  []byte // optional image bytes; stays on device, never synced
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Expenses owned by this trip, ordered by date descending.
	// Populated on reads that load the full aggregate.
	Expenses []Expense
}

// TotalExpenses sums the amounts of all owned expenses.
// Derived at read time so it can never drift from the expense rows.
func (t Trip) TotalExpenses() float64 {
	var total float64
	for _, e := range t.Expenses {
		total += e.Amount
	}
	return total
}

// DurationDays returns the trip length in whole days.
// A same-day trip counts as 1 day.
func (t Trip) DurationDays() int {
	days := int(t.EndDate.Sub(t.StartDate).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// IsUpcoming reports whether the trip starts after now and is not completed.
func (t Trip) IsUpcoming(now time.Time) bool {
	return t.StartDate.After(now) && !t.IsCompleted
}

// IsPast reports whether the trip has ended or was marked completed.
func (t Trip) IsPast(now time.Time) bool {
	return t.EndDate.Before(now) || t.IsCompleted
}

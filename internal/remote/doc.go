// Package remote talks to the per-user cloud document store. It holds the
// wire DTOs, the pure entity-to-document mapping, and the HTTP client.
// Documents are best-effort projections: the local store is the source of
// truth and the remote side may lag behind it.
package remote

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Erfanur1/Voyager/internal/domain"
)

// TripDoc is the flattened wire projection of a trip.
// Every field is required on the wire; the mapper substitutes defaults for
// anything unset locally so no document ever carries a null.
type TripDoc struct {
	Name        string    `json:"name"`
	Destination string    `json:"destination"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Notes       string    `json:"notes"`
	Itinerary   string    `json:"itinerary"`
	IsFavorite  bool      `json:"isFavorite"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ExpenseDoc is the flattened wire projection of an expense. The store has
// no relational ownership, so the owning trip travels along as a
// denormalized tripId field — that is what cascade delete queries on.
type ExpenseDoc struct {
	Title    string    `json:"title"`
	Amount   float64   `json:"amount"`
	Currency string    `json:"currency"`
	Category string    `json:"category"`
	Date     time.Time `json:"date"`
	Notes    string    `json:"notes"`
	TripID   string    `json:"tripId"`
}

// ToTripDoc projects a trip onto its wire document.
// Zero timestamps become now; updatedAt is always stamped at mapping time so
// the remote side reflects the moment of the push.
func ToTripDoc(t domain.Trip, now time.Time) TripDoc {
	return TripDoc{
		Name:        t.Name,
		Destination: t.Destination,
		StartDate:   orNow(t.StartDate, now),
		EndDate:     orNow(t.EndDate, now),
		Notes:       t.Notes,
		Itinerary:   t.Itinerary,
		IsFavorite:  t.IsFavorite,
		IsCompleted: t.IsCompleted,
		CreatedAt:   orNow(t.CreatedAt, now),
		UpdatedAt:   now,
	}
}

// ToExpenseDoc projects an expense onto its wire document.
// Unset currency and category fall back to their defaults, matching what
// the app would have stored locally.
func ToExpenseDoc(e domain.Expense, now time.Time) ExpenseDoc {
	currency := e.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return ExpenseDoc{
		Title:    e.Title,
		Amount:   e.Amount,
		Currency: currency,
		Category: string(domain.NormalizeCategory(e.Category)),
		Date:     orNow(e.Date, now),
		Notes:    e.Notes,
		TripID:   e.TripID.String(),
	}
}

// FromTripDoc rebuilds a lightweight trip record from a remote document.
// The document key is the trip ID; a malformed key is the one way this can
// fail, and fetch callers skip such documents rather than aborting.
func FromTripDoc(id string, d TripDoc) (domain.Trip, error) {
	tripID, err := uuid.Parse(id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("remote.FromTripDoc: bad document id %q: %w", id, err)
	}
	return domain.Trip{
		ID:          tripID,
		Name:        d.Name,
		Destination: d.Destination,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Notes:       d.Notes,
		Itinerary:   d.Itinerary,
		IsFavorite:  d.IsFavorite,
		IsCompleted: d.IsCompleted,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

// TripPath returns the identity-scoped document path for a trip.
func TripPath(uid, tripID string) string {
	return fmt.Sprintf("users/%s/trips/%s", uid, tripID)
}

// ExpensePath returns the identity-scoped document path for an expense.
func ExpensePath(uid, expenseID string) string {
	return fmt.Sprintf("users/%s/expenses/%s", uid, expenseID)
}

// TripCollection and ExpenseCollection return the identity-scoped
// collection paths used by list and query calls.
func TripCollection(uid string) string    { return fmt.Sprintf("users/%s/trips", uid) }
func ExpenseCollection(uid string) string { return fmt.Sprintf("users/%s/expenses", uid) }

func orNow(t, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}
	return t
}

package remote_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Erfanur1/Voyager/internal/domain"
	"github.com/Erfanur1/Voyager/internal/remote"
)

var docNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func TestToTripDoc(t *testing.T) {
	trip := domain.Trip{
		ID:        uuid.New(),
		Name:      "Rome",
		StartDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 7, 0, 0, 0, 0, time.UTC),
		CreatedAt: docNow.Add(-time.Hour),
		// Cover image bytes never travel to the remote store.
		CoverImage: []byte{1, 2, 3},
	}

	doc := remote.ToTripDoc(trip, docNow)

	assert.Equal(t, "Rome", doc.Name)
	assert.True(t, doc.StartDate.Equal(trip.StartDate))
	assert.True(t, doc.CreatedAt.Equal(trip.CreatedAt))
	assert.True(t, doc.UpdatedAt.Equal(docNow), "updatedAt is stamped at push time")
}

func TestToTripDoc_ZeroTimestampsBecomeNow(t *testing.T) {
	doc := remote.ToTripDoc(domain.Trip{Name: "Bare"}, docNow)

	assert.True(t, doc.StartDate.Equal(docNow))
	assert.True(t, doc.EndDate.Equal(docNow))
	assert.True(t, doc.CreatedAt.Equal(docNow))
}

func TestToExpenseDoc_AppliesDefaults(t *testing.T) {
	e := domain.Expense{
		ID:     uuid.New(),
		TripID: uuid.New(),
		Title:  "Taxi",
		Amount: 12.5,
	}

	doc := remote.ToExpenseDoc(e, docNow)

	assert.Equal(t, domain.DefaultCurrency, doc.Currency)
	assert.Equal(t, string(domain.CategoryOther), doc.Category)
	assert.Equal(t, e.TripID.String(), doc.TripID, "ownership travels as a denormalized field")
	assert.True(t, doc.Date.Equal(docNow))
}

func TestToExpenseDoc_KeepsExplicitValues(t *testing.T) {
	e := domain.Expense{
		TripID:   uuid.New(),
		Title:    "Train",
		Amount:   40,
		Currency: "EUR",
		Category: domain.CategoryTransport,
		Date:     docNow.Add(-24 * time.Hour),
	}

	doc := remote.ToExpenseDoc(e, docNow)

	assert.Equal(t, "EUR", doc.Currency)
	assert.Equal(t, string(domain.CategoryTransport), doc.Category)
	assert.True(t, doc.Date.Equal(e.Date))
}

func TestFromTripDoc(t *testing.T) {
	id := uuid.New()
	doc := remote.TripDoc{Name: "Oslo", Destination: "Oslo, Norway", IsFavorite: true}

	trip, err := remote.FromTripDoc(id.String(), doc)

	require.NoError(t, err)
	assert.Equal(t, id, trip.ID)
	assert.Equal(t, "Oslo", trip.Name)
	assert.True(t, trip.IsFavorite)
}

func TestFromTripDoc_BadID(t *testing.T) {
	_, err := remote.FromTripDoc("not-a-uuid", remote.TripDoc{Name: "X"})

	assert.Error(t, err)
}

func TestDocumentPaths(t *testing.T) {
	assert.Equal(t, "users/u1/trips/t1", remote.TripPath("u1", "t1"))
	assert.Equal(t, "users/u1/expenses/e1", remote.ExpensePath("u1", "e1"))
	assert.Equal(t, "users/u1/trips", remote.TripCollection("u1"))
	assert.Equal(t, "users/u1/expenses", remote.ExpenseCollection("u1"))
}

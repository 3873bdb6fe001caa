package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Erfanur1/Voyager/internal/domain"
	"github.com/Erfanur1/Voyager/internal/repo"
	"github.com/Erfanur1/Voyager/internal/service"
)

// mockExpenseRepo is a hand-written test double for repo.ExpenseRepo.
type mockExpenseRepo struct {
	create     func(ctx context.Context, expense domain.Expense) (domain.Expense, error)
	getByID    func(ctx context.Context, tripID, expenseID uuid.UUID) (domain.Expense, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error)
	listAll    func(ctx context.Context, p domain.PaginationParams) ([]domain.Expense, int, error)
	update     func(ctx context.Context, expense domain.Expense) (domain.Expense, error)
	delete     func(ctx context.Context, tripID, expenseID uuid.UUID) error
}

func (m *mockExpenseRepo) Create(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	return m.create(ctx, e)
}
func (m *mockExpenseRepo) GetByID(ctx context.Context, tripID, expenseID uuid.UUID) (domain.Expense, error) {
	return m.getByID(ctx, tripID, expenseID)
}
func (m *mockExpenseRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockExpenseRepo) ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Expense, int, error) {
	return m.listAll(ctx, p)
}
func (m *mockExpenseRepo) Update(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	return m.update(ctx, e)
}
func (m *mockExpenseRepo) Delete(ctx context.Context, tripID, expenseID uuid.UUID) error {
	return m.delete(ctx, tripID, expenseID)
}

var _ repo.ExpenseRepo = (*mockExpenseRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func validExpense(tripID uuid.UUID) domain.Expense {
	return domain.Expense{
		ID:       uuid.New(),
		TripID:   tripID,
		Title:    "Museum tickets",
		Amount:   32,
		Currency: "EUR",
		Category: domain.CategoryActivities,
		Date:     time.Date(2026, 6, 3, 10, 0, 0, 0, time.UTC),
	}
}

// tripRepoWith returns a mockTripRepo whose GetByID serves the given trip.
func tripRepoWith(trip domain.Trip) *mockTripRepo {
	return &mockTripRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			if id != trip.ID {
				return domain.Trip{}, domain.ErrNotFound
			}
			return trip, nil
		},
	}
}

func echoExpenseRepo() *mockExpenseRepo {
	return &mockExpenseRepo{
		create: func(_ context.Context, e domain.Expense) (domain.Expense, error) { return e, nil },
		update: func(_ context.Context, e domain.Expense) (domain.Expense, error) { return e, nil },
	}
}

// ---- Create tests ----------------------------------------------------------

func TestExpenseService_Create_Valid(t *testing.T) {
	trip := validTrip()
	syncer := &mockSyncer{}
	svc := service.NewExpenseService(tripRepoWith(trip), echoExpenseRepo(), syncer, signedIn(true), nil)

	got, err := svc.Create(context.Background(), validExpense(trip.ID))

	require.NoError(t, err)
	assert.Equal(t, "Museum tickets", got.Title)
	assert.Equal(t, 1, syncer.syncCalls, "saving an expense pushes the whole trip subtree")
}

func TestExpenseService_Create_MissingTrip(t *testing.T) {
	trip := validTrip()
	svc := service.NewExpenseService(tripRepoWith(trip), echoExpenseRepo(), nil, nil, nil)

	_, err := svc.Create(context.Background(), validExpense(uuid.New()))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExpenseService_Create_MissingTitle(t *testing.T) {
	trip := validTrip()
	svc := service.NewExpenseService(tripRepoWith(trip), echoExpenseRepo(), nil, nil, nil)

	e := validExpense(trip.ID)
	e.Title = ""

	_, err := svc.Create(context.Background(), e)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExpenseService_Create_NegativeAmount(t *testing.T) {
	trip := validTrip()
	svc := service.NewExpenseService(tripRepoWith(trip), echoExpenseRepo(), nil, nil, nil)

	e := validExpense(trip.ID)
	e.Amount = -1

	_, err := svc.Create(context.Background(), e)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExpenseService_Create_ZeroAmountAllowed(t *testing.T) {
	trip := validTrip()
	svc := service.NewExpenseService(tripRepoWith(trip), echoExpenseRepo(), nil, nil, nil)

	e := validExpense(trip.ID)
	e.Amount = 0 // free walking tour

	_, err := svc.Create(context.Background(), e)

	assert.NoError(t, err)
}

func TestExpenseService_Create_BadCurrencyCode(t *testing.T) {
	trip := validTrip()
	svc := service.NewExpenseService(tripRepoWith(trip), echoExpenseRepo(), nil, nil, nil)

	e := validExpense(trip.ID)
	e.Currency = "EURO"

	_, err := svc.Create(context.Background(), e)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Update tests ----------------------------------------------------------

func TestExpenseService_Update_NoOpWhenUnchanged(t *testing.T) {
	trip := validTrip()
	stored := validExpense(trip.ID)
	writes := 0
	expenses := &mockExpenseRepo{
		getByID: func(_ context.Context, _, _ uuid.UUID) (domain.Expense, error) { return stored, nil },
		update: func(_ context.Context, e domain.Expense) (domain.Expense, error) {
			writes++
			return e, nil
		},
	}
	syncer := &mockSyncer{}
	svc := service.NewExpenseService(tripRepoWith(trip), expenses, syncer, signedIn(true), nil)

	got, err := svc.Update(context.Background(), stored)

	require.NoError(t, err)
	assert.Equal(t, stored, got)
	assert.Zero(t, writes, "unchanged expense must not hit the database")
	assert.Zero(t, syncer.syncCalls)
}

func TestExpenseService_Update_UnchangedAfterNormalization(t *testing.T) {
	trip := validTrip()
	stored := validExpense(trip.ID)
	stored.Currency = domain.DefaultCurrency
	stored.Category = domain.CategoryOther

	writes := 0
	expenses := &mockExpenseRepo{
		getByID: func(_ context.Context, _, _ uuid.UUID) (domain.Expense, error) { return stored, nil },
		update: func(_ context.Context, e domain.Expense) (domain.Expense, error) {
			writes++
			return e, nil
		},
	}
	svc := service.NewExpenseService(tripRepoWith(trip), expenses, nil, nil, nil)

	// Incoming blanks normalize to the stored defaults, so nothing changed.
	incoming := stored
	incoming.Currency = ""
	incoming.Category = ""
	_, err := svc.Update(context.Background(), incoming)

	require.NoError(t, err)
	assert.Zero(t, writes)
}

func TestExpenseService_Update_Changed(t *testing.T) {
	trip := validTrip()
	stored := validExpense(trip.ID)
	expenses := &mockExpenseRepo{
		getByID: func(_ context.Context, _, _ uuid.UUID) (domain.Expense, error) { return stored, nil },
		update:  func(_ context.Context, e domain.Expense) (domain.Expense, error) { return e, nil },
	}
	syncer := &mockSyncer{}
	svc := service.NewExpenseService(tripRepoWith(trip), expenses, syncer, signedIn(true), nil)

	incoming := stored
	incoming.Amount = 64
	got, err := svc.Update(context.Background(), incoming)

	require.NoError(t, err)
	assert.InDelta(t, 64, got.Amount, 0.001)
	assert.Equal(t, 1, syncer.syncCalls)
}

// ---- Delete tests ----------------------------------------------------------

func TestExpenseService_Delete_PushesOwningTrip(t *testing.T) {
	trip := validTrip()
	expenses := &mockExpenseRepo{
		delete: func(_ context.Context, _, _ uuid.UUID) error { return nil },
	}
	syncer := &mockSyncer{}
	svc := service.NewExpenseService(tripRepoWith(trip), expenses, syncer, signedIn(true), nil)

	err := svc.Delete(context.Background(), trip.ID, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, 1, syncer.syncCalls, "the shrunken subtree is mirrored after a delete")
}

func TestExpenseService_Delete_NotFound(t *testing.T) {
	trip := validTrip()
	expenses := &mockExpenseRepo{
		delete: func(_ context.Context, _, _ uuid.UUID) error { return domain.ErrNotFound },
	}
	syncer := &mockSyncer{}
	svc := service.NewExpenseService(tripRepoWith(trip), expenses, syncer, signedIn(true), nil)

	err := svc.Delete(context.Background(), trip.ID, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, syncer.syncCalls)
}

// ---- List tests ------------------------------------------------------------

func TestExpenseService_ListByTrip_NeverReturnsNil(t *testing.T) {
	trip := validTrip()
	expenses := &mockExpenseRepo{
		listByTrip: func(_ context.Context, _ uuid.UUID) ([]domain.Expense, error) { return nil, nil },
	}
	svc := service.NewExpenseService(tripRepoWith(trip), expenses, nil, nil, nil)

	got, err := svc.ListByTrip(context.Background(), trip.ID)

	require.NoError(t, err)
	assert.NotNil(t, got)
}

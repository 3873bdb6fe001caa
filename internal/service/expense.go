package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Erfanur1/Voyager/internal/domain"
	"github.com/Erfanur1/Voyager/internal/repo"
)

// ExpenseService implements business logic for expense operations.
// It holds both repos because creating an expense requires verifying the
// owning trip exists, and every save pushes the whole trip subtree.
type ExpenseService struct {
	trips    repo.TripRepo
	expenses repo.ExpenseRepo
	syncer   TripSyncer
	ident    IdentityChecker
	logger   *slog.Logger
}

// NewExpenseService constructs an ExpenseService. syncer and ident may be
// nil when running without a remote store.
func NewExpenseService(trips repo.TripRepo, expenses repo.ExpenseRepo, syncer TripSyncer, ident IdentityChecker, logger *slog.Logger) *ExpenseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpenseService{trips: trips, expenses: expenses, syncer: syncer, ident: ident, logger: logger}
}

// Create validates the expense, verifies the owning trip exists, persists,
// then pushes the trip subtree.
// Returns domain.ErrNotFound if the owning trip does not exist.
func (s *ExpenseService) Create(ctx context.Context, expense domain.Expense) (domain.Expense, error) {
	if _, err := s.trips.GetByID(ctx, expense.TripID); err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	if err := validateExpense(expense); err != nil {
		return domain.Expense{}, err
	}
	created, err := s.expenses.Create(ctx, expense)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	s.pushOwningTrip(ctx, created.TripID)
	return created, nil
}

// GetByID returns a single expense scoped to its trip.
func (s *ExpenseService) GetByID(ctx context.Context, tripID, expenseID uuid.UUID) (domain.Expense, error) {
	e, err := s.expenses.GetByID(ctx, tripID, expenseID)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.GetByID: %w", err)
	}
	return e, nil
}

// ListByTrip returns all expenses for a trip, newest spend first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ExpenseService) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error) {
	expenses, err := s.expenses.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExpenseService.ListByTrip: %w", err)
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}
	return expenses, nil
}

// ListAll returns one page of expenses across all trips plus the total count.
func (s *ExpenseService) ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Expense, int, error) {
	expenses, total, err := s.expenses.ListAll(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ExpenseService.ListAll: %w", err)
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}
	return expenses, total, nil
}

// Update validates and persists changes to an expense, then pushes the trip
// subtree. An unchanged expense is a no-op: no write, no push.
func (s *ExpenseService) Update(ctx context.Context, expense domain.Expense) (domain.Expense, error) {
	if err := validateExpense(expense); err != nil {
		return domain.Expense{}, err
	}

	existing, err := s.expenses.GetByID(ctx, expense.TripID, expense.ID)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Update: %w", err)
	}
	if expenseUnchanged(existing, expense) {
		return existing, nil
	}

	updated, err := s.expenses.Update(ctx, expense)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Update: %w", err)
	}
	s.pushOwningTrip(ctx, updated.TripID)
	return updated, nil
}

// Delete removes an expense locally. The remote copy is overwritten on the
// next trip push; a stale expense document is harmless to read paths, which
// always join through the trip document.
func (s *ExpenseService) Delete(ctx context.Context, tripID, expenseID uuid.UUID) error {
	if err := s.expenses.Delete(ctx, tripID, expenseID); err != nil {
		return fmt.Errorf("service.ExpenseService.Delete: %w", err)
	}
	s.pushOwningTrip(ctx, tripID)
	return nil
}

// pushOwningTrip reloads the owning trip and mirrors its subtree remotely.
func (s *ExpenseService) pushOwningTrip(ctx context.Context, tripID uuid.UUID) {
	if s.syncer == nil || s.ident == nil || !s.ident.SignedIn() {
		return
	}
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		s.logger.Warn("cannot load trip for push", "trip_id", tripID, "error", err)
		return
	}
	if err := s.syncer.SyncTrip(ctx, trip); err != nil {
		s.logger.Warn("trip push failed, will retry on next sync", "trip_id", tripID, "error", err)
	}
}

// validateExpense enforces business rules common to Create and Update.
//   - Title must be non-empty.
//   - Amount must be non-negative.
//   - Currency, when set, must be a 3-letter code.
//
// An unknown category is not an error — it normalizes to "Other" on write.
func validateExpense(expense domain.Expense) error {
	if strings.TrimSpace(expense.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if expense.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", domain.ErrValidation)
	}
	if expense.Currency != "" && len(expense.Currency) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code", domain.ErrValidation)
	}
	return nil
}

// expenseUnchanged compares the caller-editable fields of two expenses,
// accounting for the defaults the repo applies on write.
func expenseUnchanged(a, b domain.Expense) bool {
	currency := b.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return a.Title == b.Title &&
		a.Amount == b.Amount &&
		a.Currency == currency &&
		a.Category == domain.NormalizeCategory(b.Category) &&
		a.Date.Equal(b.Date) &&
		a.Notes == b.Notes
}

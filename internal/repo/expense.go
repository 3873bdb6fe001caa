package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Erfanur1/Voyager/internal/domain"
)

// ExpenseRepo defines the persistence operations for expenses.
// Expense reads and deletes are scoped to the owning trip so a caller can
// never reach an expense through the wrong trip ID.
type ExpenseRepo interface {
	// Create inserts a new expense under its trip. A zero ID is replaced
	// with a fresh UUID. Fails if the owning trip does not exist.
	Create(ctx context.Context, expense domain.Expense) (domain.Expense, error)

	// GetByID retrieves a single expense scoped to the given trip.
	// Returns domain.ErrNotFound if it does not exist under that trip.
	GetByID(ctx context.Context, tripID, expenseID uuid.UUID) (domain.Expense, error)

	// ListByTrip returns all expenses for a trip ordered by date descending
	// (newest spend first), then created_at descending as a tiebreak.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error)

	// ListAll returns one page of expenses across all trips, newest first,
	// plus the total expense count.
	ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Expense, int, error)

	// Update overwrites the mutable fields of an existing expense.
	// Returns domain.ErrNotFound if it does not exist under its trip.
	Update(ctx context.Context, expense domain.Expense) (domain.Expense, error)

	// Delete removes an expense scoped to the given trip.
	Delete(ctx context.Context, tripID, expenseID uuid.UUID) error
}

type sqliteExpenseRepo struct {
	store *Store
}

// NewExpenseRepo constructs an ExpenseRepo backed by the given Store.
func NewExpenseRepo(store *Store) ExpenseRepo {
	return &sqliteExpenseRepo{store: store}
}

const expenseColumns = `id, trip_id, title, amount, currency, category,
	date, notes, created_at, updated_at`

// Create inserts a new expense row and returns the full persisted record.
func (r *sqliteExpenseRepo) Create(ctx context.Context, expense domain.Expense) (domain.Expense, error) {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	if expense.Currency == "" {
		expense.Currency = domain.DefaultCurrency
	}
	expense.Category = domain.NormalizeCategory(expense.Category)
	now := time.Now().UTC()
	expense.CreatedAt = now
	expense.UpdatedAt = now

	err := r.store.writeTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO expenses (`+expenseColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			expense.ID.String(), expense.TripID.String(),
			expense.Title, expense.Amount, expense.Currency,
			string(expense.Category), timeToDB(expense.Date), expense.Notes,
			timeToDB(expense.CreatedAt), timeToDB(expense.UpdatedAt),
		)
		return err
	})
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Create: %w: %w", domain.ErrSaveFailed, err)
	}
	return expense, nil
}

// GetByID retrieves an expense by primary key, scoped to its trip.
func (r *sqliteExpenseRepo) GetByID(ctx context.Context, tripID, expenseID uuid.UUID) (domain.Expense, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE id = ? AND trip_id = ?`, expenseID.String(), tripID.String())

	e, err := scanExpense(row)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.GetByID: %w", err)
	}
	return e, nil
}

// ListByTrip returns all expenses for one trip, newest spend first.
func (r *sqliteExpenseRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error) {
	expenses, err := listExpensesByTrip(ctx, r.store.db, tripID)
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByTrip: %w", err)
	}
	return expenses, nil
}

// ListAll returns one page of expenses across all trips plus the total count.
func (r *sqliteExpenseRepo) ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Expense, int, error) {
	var total int
	err := r.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses`).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ExpenseRepo.ListAll: count: %w", err)
	}

	rows, err := r.store.db.QueryContext(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		ORDER BY date DESC, created_at DESC
		LIMIT ? OFFSET ?`, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ExpenseRepo.ListAll: %w", err)
	}
	defer rows.Close()

	expenses, err := collectExpenses(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ExpenseRepo.ListAll: %w", err)
	}
	return expenses, total, nil
}

// Update overwrites the mutable fields of an expense.
func (r *sqliteExpenseRepo) Update(ctx context.Context, expense domain.Expense) (domain.Expense, error) {
	if expense.Currency == "" {
		expense.Currency = domain.DefaultCurrency
	}
	expense.Category = domain.NormalizeCategory(expense.Category)
	expense.UpdatedAt = time.Now().UTC()

	err := r.store.writeTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE expenses
			SET title = ?, amount = ?, currency = ?, category = ?,
			    date = ?, notes = ?, updated_at = ?
			WHERE id = ? AND trip_id = ?`,
			expense.Title, expense.Amount, expense.Currency,
			string(expense.Category), timeToDB(expense.Date), expense.Notes,
			timeToDB(expense.UpdatedAt),
			expense.ID.String(), expense.TripID.String(),
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Update: %w", domain.ErrNotFound)
		}
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Update: %w: %w", domain.ErrSaveFailed, err)
	}
	return r.GetByID(ctx, expense.TripID, expense.ID)
}

// Delete removes an expense scoped to its trip.
func (r *sqliteExpenseRepo) Delete(ctx context.Context, tripID, expenseID uuid.UUID) error {
	err := r.store.writeTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM expenses WHERE id = ? AND trip_id = ?`,
			expenseID.String(), tripID.String())
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("repo.ExpenseRepo.Delete: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("repo.ExpenseRepo.Delete: %w: %w", domain.ErrDeleteFailed, err)
	}
	return nil
}

// listExpensesByTrip is shared with TripRepo.GetByID so the trip aggregate
// and the expense list always load with identical ordering.
func listExpensesByTrip(ctx context.Context, db *sql.DB, tripID uuid.UUID) ([]domain.Expense, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE trip_id = ?
		ORDER BY date DESC, created_at DESC`, tripID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectExpenses(rows)
}

// scanExpense maps a single database row into a domain.Expense.
func scanExpense(s scanner) (domain.Expense, error) {
	var (
		e                domain.Expense
		id, tripID       string
		category         string
		date             string
		created, updated string
	)

	err := s.Scan(&id, &tripID, &e.Title, &e.Amount, &e.Currency, &category,
		&date, &e.Notes, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Expense{}, domain.ErrNotFound
		}
		return domain.Expense{}, err
	}

	if e.ID, err = uuid.Parse(id); err != nil {
		return domain.Expense{}, err
	}
	if e.TripID, err = uuid.Parse(tripID); err != nil {
		return domain.Expense{}, err
	}
	e.Category = domain.Category(category)
	if e.Date, err = timeFromDB(date); err != nil {
		return domain.Expense{}, err
	}
	if e.CreatedAt, err = timeFromDB(created); err != nil {
		return domain.Expense{}, err
	}
	if e.UpdatedAt, err = timeFromDB(updated); err != nil {
		return domain.Expense{}, err
	}
	return e, nil
}

// collectExpenses drains rows into a slice, propagating any scan error.
func collectExpenses(rows *sql.Rows) ([]domain.Expense, error) {
	var expenses []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return expenses, nil
}

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

// TripRepo defines the persistence operations for trips.
// The service and sync layers depend on this interface, not the SQLite
// implementation, so they can be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record.
	// A zero ID is replaced with a fresh UUID; CreatedAt/UpdatedAt are set.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a trip with its expenses loaded (date descending).
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// List returns all trips ordered by start_date descending, without
	// expenses loaded. Used by bulk sync and the list endpoint.
	List(ctx context.Context) ([]domain.Trip, error)

	// ListPaged returns one page of trips plus the total row count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int, error)

	// Update overwrites the mutable fields of an existing trip and returns
	// the updated record. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip and all of its expenses in one transaction.
	// Returns domain.ErrNotFound if the trip does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

type sqliteTripRepo struct {
	store *Store
}

// NewTripRepo constructs a TripRepo backed by the given Store.
func NewTripRepo(store *Store) TripRepo {
	return &sqliteTripRepo{store: store}
}

const tripColumns = `id, name, destination, start_date, end_date, notes,
	itinerary, is_favorite, is_completed, cover_image, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *sqliteTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}
	now := time.Now().UTC()
	trip.CreatedAt = now
	trip.UpdatedAt = now

	err := r.store.writeTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO trips (`+tripColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			trip.ID.String(), trip.Name, trip.Destination,
			timeToDB(trip.StartDate), timeToDB(trip.EndDate),
			trip.Notes, trip.Itinerary,
			trip.IsFavorite, trip.IsCompleted, trip.CoverImage,
			timeToDB(trip.CreatedAt), timeToDB(trip.UpdatedAt),
		)
		return err
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w: %w", domain.ErrSaveFailed, err)
	}
	trip.Expenses = nil
	return trip, nil
}

// GetByID retrieves a trip by primary key, with expenses loaded.
func (r *sqliteTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT `+tripColumns+` FROM trips WHERE id = ?`, id.String())

	trip, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}

	expenses, err := listExpensesByTrip(ctx, r.store.db, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	trip.Expenses = expenses
	return trip, nil
}

// List returns all trips ordered by start_date descending (most recent first).
func (r *sqliteTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT `+tripColumns+` FROM trips ORDER BY start_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	trips, err := collectTrips(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	return trips, nil
}

// ListPaged returns one page of trips plus the total trip count.
func (r *sqliteTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int, error) {
	var total int
	err := r.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trips`).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: count: %w", err)
	}

	rows, err := r.store.db.QueryContext(ctx, `
		SELECT `+tripColumns+` FROM trips
		ORDER BY start_date DESC
		LIMIT ? OFFSET ?`, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	trips, err := collectTrips(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	return trips, total, nil
}

// Update overwrites the mutable fields of a trip and returns the new record.
func (r *sqliteTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip.UpdatedAt = time.Now().UTC()

	err := r.store.writeTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE trips
			SET name = ?, destination = ?, start_date = ?, end_date = ?,
			    notes = ?, itinerary = ?, is_favorite = ?, is_completed = ?,
			    cover_image = ?, updated_at = ?
			WHERE id = ?`,
			trip.Name, trip.Destination,
			timeToDB(trip.StartDate), timeToDB(trip.EndDate),
			trip.Notes, trip.Itinerary,
			trip.IsFavorite, trip.IsCompleted,
			trip.CoverImage, timeToDB(trip.UpdatedAt),
			trip.ID.String(),
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
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", domain.ErrNotFound)
		}
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w: %w", domain.ErrSaveFailed, err)
	}
	return r.GetByID(ctx, trip.ID)
}

// Delete removes a trip and its owned expenses in a single transaction.
// The explicit expense delete mirrors the ON DELETE CASCADE constraint so
// the cascade does not depend on connection pragmas.
func (r *sqliteTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.store.writeTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM expenses WHERE trip_id = ?`, id.String()); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, id.String())
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
			return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("repo.TripRepo.Delete: %w: %w", domain.ErrDeleteFailed, err)
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows, allowing scanTrip to
// serve QueryRow and Query callers alike.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t                domain.Trip
		id               string
		start, end       string
		created, updated string
	)

	err := s.Scan(&id, &t.Name, &t.Destination, &start, &end, &t.Notes,
		&t.Itinerary, &t.IsFavorite, &t.IsCompleted, &t.CoverImage,
		&created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	if t.ID, err = uuid.Parse(id); err != nil {
		return domain.Trip{}, err
	}
	if t.StartDate, err = timeFromDB(start); err != nil {
		return domain.Trip{}, err
	}
	if t.EndDate, err = timeFromDB(end); err != nil {
		return domain.Trip{}, err
	}
	if t.CreatedAt, err = timeFromDB(created); err != nil {
		return domain.Trip{}, err
	}
	if t.UpdatedAt, err = timeFromDB(updated); err != nil {
		return domain.Trip{}, err
	}
	return t, nil
}

// collectTrips drains rows into a slice, propagating any scan error.
func collectTrips(rows *sql.Rows) ([]domain.Trip, error) {
	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trips, nil
}

// Package service contains the business logic for the Voyager app.
// Services validate input, enforce business rules, and orchestrate repo and
// sync calls. The ordering rule lives here: commit locally first, then — and
// only when an identity is signed in — push the affected subtree to the
// remote store. A failed push never fails the local operation; the local
// store is the source of truth and the remote side is best-effort.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Erfanur1/Voyager/internal/domain"
	"github.com/Erfanur1/Voyager/internal/repo"
)

// TripSyncer is the slice of the sync coordinator the trip service uses.
type TripSyncer interface {
	SyncTrip(ctx context.Context, trip domain.Trip) error
	DeleteTrip(ctx context.Context, tripID uuid.UUID) error
}

// IdentityChecker reports whether an anonymous identity is signed in.
type IdentityChecker interface {
	SignedIn() bool
}

// TripService implements business logic for trip operations.
type TripService struct {
	trips  repo.TripRepo
	syncer TripSyncer
	ident  IdentityChecker
	logger *slog.Logger
}

// NewTripService constructs a TripService. syncer and ident may be nil when
// running without a remote store (tests, local-only tooling).
func NewTripService(trips repo.TripRepo, syncer TripSyncer, ident IdentityChecker, logger *slog.Logger) *TripService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TripService{trips: trips, syncer: syncer, ident: ident, logger: logger}
}

// Create validates and persists a new trip, then pushes it remotely.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	s.pushTrip(ctx, created)
	return created, nil
}

// GetByID returns a single trip with its expenses loaded.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// List returns one page of trips plus the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int, error) {
	trips, total, err := s.trips.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Update validates and persists changes to an existing trip, then pushes it.
//
// Saving a trip whose fields are unchanged is a no-op: no write, no push,
// the stored record comes back as-is.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	existing, err := s.trips.GetByID(ctx, trip.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if tripUnchanged(existing, trip) {
		return existing, nil
	}

	updated, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	s.pushTrip(ctx, updated)
	return updated, nil
}

// Delete removes a trip and its expenses locally (one transaction), then
// clears the trip's documents from the remote store best-effort.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}

	if s.syncer == nil || s.ident == nil || !s.ident.SignedIn() {
		return nil
	}
	if err := s.syncer.DeleteTrip(ctx, id); err != nil {
		if errors.Is(err, domain.ErrPartialCleanup) {
			s.logger.Warn("remote cascade delete incomplete", "trip_id", id, "error", err)
		} else {
			s.logger.Warn("remote delete failed, documents may linger", "trip_id", id, "error", err)
		}
	}
	return nil
}

// pushTrip mirrors a just-saved trip to the remote store when signed in.
// Failures are logged once and swallowed.
func (s *TripService) pushTrip(ctx context.Context, trip domain.Trip) {
	if s.syncer == nil || s.ident == nil || !s.ident.SignedIn() {
		return
	}
	if err := s.syncer.SyncTrip(ctx, trip); err != nil {
		s.logger.Warn("trip push failed, will retry on next sync", "trip_id", trip.ID, "error", err)
	}
}

// validateTrip enforces business rules common to Create and Update.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - EndDate must not be before StartDate.
func validateTrip(trip domain.Trip) error {
	if strings.TrimSpace(trip.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if !trip.StartDate.IsZero() && !trip.EndDate.IsZero() && trip.EndDate.Before(trip.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	return nil
}

// tripUnchanged compares the caller-editable fields of two trips.
func tripUnchanged(a, b domain.Trip) bool {
	return a.Name == b.Name &&
		a.Destination == b.Destination &&
		a.StartDate.Equal(b.StartDate) &&
		a.EndDate.Equal(b.EndDate) &&
		a.Notes == b.Notes &&
		a.Itinerary == b.Itinerary &&
		a.IsFavorite == b.IsFavorite &&
		a.IsCompleted == b.IsCompleted &&
		bytes.Equal(a.CoverImage, b.CoverImage)
}

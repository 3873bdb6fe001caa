package service

import (
	"context"
	"fmt"

	"github.com/Erfanur1/Voyager/internal/domain"
	"github.com/Erfanur1/Voyager/internal/repo"
	"github.com/Erfanur1/Voyager/internal/sync"
)

// Coordinator is the slice of the sync coordinator the sync service uses.
type Coordinator interface {
	SyncAllTrips(ctx context.Context, trips []domain.Trip) error
	FetchTrips(ctx context.Context) ([]domain.Trip, error)
	State() sync.Snapshot
}

// SyncService exposes manual sync operations and the observable sync state
// to the presentation layer.
type SyncService struct {
	trips repo.TripRepo
	coord Coordinator
}

// NewSyncService constructs a SyncService.
func NewSyncService(trips repo.TripRepo, coord Coordinator) *SyncService {
	return &SyncService{trips: trips, coord: coord}
}

// SyncNow pushes every local trip to the remote store ("sync now" button).
// Errors pass through untouched so handlers can map the sync taxonomy
// (ErrNotAuthenticated, ErrSyncInFlight, ErrSyncFailed) to responses.
func (s *SyncService) SyncNow(ctx context.Context) error {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return fmt.Errorf("service.SyncService.SyncNow: %w", err)
	}
	return s.coord.SyncAllTrips(ctx, trips)
}

// Fetch returns the lightweight trip records stored remotely.
func (s *SyncService) Fetch(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.coord.FetchTrips(ctx)
	if err != nil {
		return nil, err
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, nil
}

// Status returns the current observable sync state.
func (s *SyncService) Status() sync.Snapshot {
	return s.coord.State()
}

package service

import (
	"context"
	"fmt"

	"github.com/Erfanur1/Voyager/internal/domain"
	"github.com/Erfanur1/Voyager/internal/repo"
)

// ExportService assembles a full flat export of all trips and expenses.
type ExportService struct {
	trips    repo.TripRepo
	expenses repo.ExpenseRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(trips repo.TripRepo, expenses repo.ExpenseRepo) *ExportService {
	return &ExportService{trips: trips, expenses: expenses}
}

// Export returns one ExportRow per expense across all trips.
// Trips with no expenses contribute one row with empty expense fields.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := []domain.ExportRow{}
	for _, trip := range trips {
		expenses, err := s.expenses.ListByTrip(ctx, trip.ID)
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Export: trip %s: %w", trip.ID, err)
		}

		base := domain.ExportRow{
			TripID:      trip.ID,
			TripName:    trip.Name,
			Destination: trip.Destination,
			TripStart:   trip.StartDate,
			TripEnd:     trip.EndDate,
		}

		if len(expenses) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, e := range expenses {
			row := base
			id := e.ID
			date := e.Date
			row.ExpenseID = &id
			row.ExpenseTitle = e.Title
			row.Amount = e.Amount
			row.Currency = e.Currency
			row.Category = e.Category
			row.ExpenseDate = &date
			row.ExpenseNotes = e.Notes
			rows = append(rows, row)
		}
	}
	return rows, nil
}

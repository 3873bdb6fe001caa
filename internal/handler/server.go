// Package handler implements the HTTP handlers for the Voyager API.
// All handlers are methods on Server. Methods are split into
// resource-specific files (trip.go, expense.go, sync.go, ...) but all share
// the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Erfanur1/Voyager/internal/country"
	"github.com/Erfanur1/Voyager/internal/currency"
	"github.com/Erfanur1/Voyager/internal/domain"
	"github.com/Erfanur1/Voyager/internal/sync"
	"github.com/Erfanur1/Voyager/internal/weather"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExpenseServicer defines the business operations the expense handlers
// depend on. Expenses are always addressed through their owning trip.
type ExpenseServicer interface {
	Create(ctx context.Context, expense domain.Expense) (domain.Expense, error)
	GetByID(ctx context.Context, tripID, expenseID uuid.UUID) (domain.Expense, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error)
	ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Expense, int, error)
	Update(ctx context.Context, expense domain.Expense) (domain.Expense, error)
	Delete(ctx context.Context, tripID, expenseID uuid.UUID) error
}

// SyncServicer exposes the manual sync operations and the observable state.
type SyncServicer interface {
	SyncNow(ctx context.Context) error
	Fetch(ctx context.Context) ([]domain.Trip, error)
	Status() sync.Snapshot
}

// Exporter produces the flat trips-with-expenses export.
type Exporter interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// WeatherLookup fetches current weather for a destination city.
type WeatherLookup interface {
	Fetch(ctx context.Context, city string) (weather.Report, error)
}

// CurrencyConverter converts an amount between two currency codes.
type CurrencyConverter interface {
	Convert(ctx context.Context, amount float64, from, to string) (currency.Conversion, error)
}

// CountryLookup fetches country metadata for a destination.
type CountryLookup interface {
	Lookup(ctx context.Context, destination string) (country.Info, error)
}

// Server holds the dependencies shared by all handlers.
// The lookup clients may be nil when the corresponding provider is not
// configured; their routes then answer 503.
type Server struct {
	trips     TripServicer
	expenses  ExpenseServicer
	syncs     SyncServicer
	export    Exporter
	weather   WeatherLookup
	currency  CurrencyConverter
	countries CountryLookup
	logger    *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, expenses ExpenseServicer, syncs SyncServicer, export Exporter,
	weather WeatherLookup, currency CurrencyConverter, countries CountryLookup, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		trips:     trips,
		expenses:  expenses,
		syncs:     syncs,
		export:    export,
		weather:   weather,
		currency:  currency,
		countries: countries,
		logger:    logger,
	}
}

// Routes returns the API route tree. Global middleware (request IDs,
// logging, CORS, body limits) is applied by the caller in main.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.CreateTrip)
		r.Get("/", s.ListTrips)
		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)
			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", s.CreateExpense)
				r.Get("/", s.ListExpenses)
				r.Route("/{expenseID}", func(r chi.Router) {
					r.Get("/", s.GetExpense)
					r.Put("/", s.UpdateExpense)
					r.Delete("/", s.DeleteExpense)
				})
			})
		})
	})
	r.Get("/expenses", s.ListAllExpenses)

	r.Route("/sync", func(r chi.Router) {
		r.Post("/", s.SyncNow)
		r.Get("/status", s.SyncStatus)
		r.Get("/trips", s.FetchRemoteTrips)
	})

	r.Get("/export", s.GetExport)

	r.Route("/lookup", func(r chi.Router) {
		r.Get("/weather", s.GetWeather)
		r.Get("/currency", s.ConvertCurrency)
		r.Get("/country", s.GetCountry)
	})

	return r
}

package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Erfanur1/Voyager/internal/domain"
)

// expenseRequest is the JSON body accepted by the expense write endpoints.
// The owning trip comes from the URL path, never from the body.
type expenseRequest struct {
	Title    string    `json:"title"`
	Amount   float64   `json:"amount"`
	Currency string    `json:"currency"`
	Category string    `json:"category"`
	Date     time.Time `json:"date"`
	Notes    string    `json:"notes"`
}

// expenseResponse is the JSON shape of an expense in responses.
type expenseResponse struct {
	ID        uuid.UUID       `json:"id"`
	TripID    uuid.UUID       `json:"tripId"`
	Title     string          `json:"title"`
	Amount    float64         `json:"amount"`
	Currency  string          `json:"currency"`
	Category  domain.Category `json:"category"`
	Date      time.Time       `json:"date"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// expenseListResponse is the envelope for GET /expenses.
type expenseListResponse struct {
	Data       []expenseResponse `json:"data"`
	Pagination pagination        `json:"pagination"`
}

// CreateExpense handles POST /trips/{tripID}/expenses.
// Returns 404 if the owning trip does not exist.
func (s *Server) CreateExpense(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	var req expenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := s.expenses.Create(r.Context(), expenseFromRequest(tripID, uuid.Nil, req))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, expenseToResponse(created))
}

// ListExpenses handles GET /trips/{tripID}/expenses.
func (s *Server) ListExpenses(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	expenses, err := s.expenses.ListByTrip(r.Context(), tripID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	data := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		data[i] = expenseToResponse(e)
	}
	writeJSON(w, http.StatusOK, data)
}

// ListAllExpenses handles GET /expenses, a paged view across all trips.
func (s *Server) ListAllExpenses(w http.ResponseWriter, r *http.Request) {
	params := paginationFromQuery(r)
	expenses, total, err := s.expenses.ListAll(r.Context(), params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	data := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		data[i] = expenseToResponse(e)
	}
	writeJSON(w, http.StatusOK, expenseListResponse{
		Data:       data,
		Pagination: pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// GetExpense handles GET /trips/{tripID}/expenses/{expenseID}.
func (s *Server) GetExpense(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	expenseID, ok := pathUUID(w, r, "expenseID")
	if !ok {
		return
	}
	e, err := s.expenses.GetByID(r.Context(), tripID, expenseID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expenseToResponse(e))
}

// UpdateExpense handles PUT /trips/{tripID}/expenses/{expenseID}.
func (s *Server) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	expenseID, ok := pathUUID(w, r, "expenseID")
	if !ok {
		return
	}
	var req expenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := s.expenses.Update(r.Context(), expenseFromRequest(tripID, expenseID, req))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expenseToResponse(updated))
}

// DeleteExpense handles DELETE /trips/{tripID}/expenses/{expenseID}.
func (s *Server) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	expenseID, ok := pathUUID(w, r, "expenseID")
	if !ok {
		return
	}
	if err := s.expenses.Delete(r.Context(), tripID, expenseID); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// expenseFromRequest converts a request body into a domain.Expense.
// id is uuid.Nil on create; the repo assigns one and applies currency and
// category defaults.
func expenseFromRequest(tripID, id uuid.UUID, req expenseRequest) domain.Expense {
	return domain.Expense{
		ID:       id,
		TripID:   tripID,
		Title:    req.Title,
		Amount:   req.Amount,
		Currency: req.Currency,
		Category: domain.Category(req.Category),
		Date:     req.Date,
		Notes:    req.Notes,
	}
}

// expenseToResponse converts a domain.Expense into its response shape.
func expenseToResponse(e domain.Expense) expenseResponse {
	return expenseResponse{
		ID:        e.ID,
		TripID:    e.TripID,
		Title:     e.Title,
		Amount:    e.Amount,
		Currency:  e.Currency,
		Category:  e.Category,
		Date:      e.Date,
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

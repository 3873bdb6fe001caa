package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Erfanur1/Voyager/internal/domain"
)

// tripRequest is the JSON body accepted by POST /trips and PUT /trips/{id}.
// Field names match the remote document schema so clients can reuse one
// serializer for both.
type tripRequest struct {
	Name        string    `json:"name"`
	Destination string    `json:"destination"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Notes       string    `json:"notes"`
	Itinerary   string    `json:"itinerary"`
	IsFavorite  bool      `json:"isFavorite"`
	IsCompleted bool      `json:"isCompleted"`
	CoverImage  []byte    `json:"coverImage,omitempty"`
}

// tripResponse is the JSON shape of a trip in responses. TotalExpenses and
// DurationDays are derived fields, recomputed on every read.
type tripResponse struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Destination   string            `json:"destination,omitempty"`
	StartDate     time.Time         `json:"startDate"`
	EndDate       time.Time         `json:"endDate"`
	Notes         string            `json:"notes,omitempty"`
	Itinerary     string            `json:"itinerary,omitempty"`
	IsFavorite    bool              `json:"isFavorite"`
	IsCompleted   bool              `json:"isCompleted"`
	CoverImage    []byte            `json:"coverImage,omitempty"`
	TotalExpenses float64           `json:"totalExpenses"`
	DurationDays  int               `json:"durationDays"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
	Expenses      []expenseResponse `json:"expenses,omitempty"`
}

// pagination echoes the effective paging parameters back to the client.
type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// tripListResponse is the envelope for GET /trips.
type tripListResponse struct {
	Data       []tripResponse `json:"data"`
	Pagination pagination     `json:"pagination"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req tripRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := s.trips.Create(r.Context(), tripFromRequest(uuid.Nil, req))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20,
// max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	params := paginationFromQuery(r)
	trips, total, err := s.trips.List(r.Context(), params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	data := make([]tripResponse, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, tripListResponse{
		Data:       data,
		Pagination: pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// GetTrip handles GET /trips/{tripID}. The response carries the full
// aggregate: the trip plus all of its expenses.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{tripID}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	var req tripRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := s.trips.Update(r.Context(), tripFromRequest(id, req))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{tripID}. Deleting a trip also deletes
// all of its expenses.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	if err := s.trips.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// pathUUID parses the named chi URL parameter as a UUID.
// A malformed ID can never name an existing resource, so it answers 404.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
		return uuid.Nil, false
	}
	return id, true
}

// paginationFromQuery reads ?page= and ?limit=, falling back to defaults on
// missing or malformed values.
func paginationFromQuery(r *http.Request) domain.PaginationParams {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return domain.NewPaginationParams(page, limit)
}

// tripFromRequest converts a request body into a domain.Trip.
// id is uuid.Nil on create; the repo assigns one.
func tripFromRequest(id uuid.UUID, req tripRequest) domain.Trip {
	return domain.Trip{
		ID:          id,
		Name:        req.Name,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Notes:       req.Notes,
		Itinerary:   req.Itinerary,
		IsFavorite:  req.IsFavorite,
		IsCompleted: req.IsCompleted,
		CoverImage:  req.CoverImage,
	}
}

// tripToResponse converts a domain.Trip into its response shape.
func tripToResponse(t domain.Trip) tripResponse {
	resp := tripResponse{
		ID:            t.ID,
		Name:          t.Name,
		Destination:   t.Destination,
		StartDate:     t.StartDate,
		EndDate:       t.EndDate,
		Notes:         t.Notes,
		Itinerary:     t.Itinerary,
		IsFavorite:    t.IsFavorite,
		IsCompleted:   t.IsCompleted,
		CoverImage:    t.CoverImage,
		TotalExpenses: t.TotalExpenses(),
		DurationDays:  t.DurationDays(),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	if len(t.Expenses) > 0 {
		resp.Expenses = make([]expenseResponse, len(t.Expenses))
		for i, e := range t.Expenses {
			resp.Expenses[i] = expenseToResponse(e)
		}
	}
	return resp
}

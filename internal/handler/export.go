package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Erfanur1/Voyager/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV
// export.
var csvHeaders = []string{
	"trip_id", "trip_name", "destination", "trip_start", "trip_end",
	"expense_id", "expense_title", "amount", "currency", "category",
	"expense_date", "expense_notes",
}

// exportRow is the JSON shape of one export line. Expense fields are null
// for trips without expenses.
type exportRow struct {
	TripID       uuid.UUID       `json:"tripId"`
	TripName     string          `json:"tripName"`
	Destination  string          `json:"destination,omitempty"`
	TripStart    time.Time       `json:"tripStart"`
	TripEnd      time.Time       `json:"tripEnd"`
	ExpenseID    *uuid.UUID      `json:"expenseId"`
	ExpenseTitle string          `json:"expenseTitle,omitempty"`
	Amount       float64         `json:"amount"`
	Currency     string          `json:"currency,omitempty"`
	Category     domain.Category `json:"category,omitempty"`
	ExpenseDate  *time.Time      `json:"expenseDate"`
	ExpenseNotes string          `json:"expenseNotes,omitempty"`
}

// GetExport handles GET /export.
// It returns a flat table of every trip and expense combination.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	rows, err := s.export.Export(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, rows)
		return
	}

	out := make([]exportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, domainRowToJSON(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes domain rows as CSV with a header line.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck — bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(domainRowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// domainRowToJSON maps a domain.ExportRow to its response shape.
func domainRowToJSON(r domain.ExportRow) exportRow {
	return exportRow{
		TripID:       r.TripID,
		TripName:     r.TripName,
		Destination:  r.Destination,
		TripStart:    r.TripStart,
		TripEnd:      r.TripEnd,
		ExpenseID:    r.ExpenseID,
		ExpenseTitle: r.ExpenseTitle,
		Amount:       r.Amount,
		Currency:     r.Currency,
		Category:     r.Category,
		ExpenseDate:  r.ExpenseDate,
		ExpenseNotes: r.ExpenseNotes,
	}
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Nil pointers encode as empty strings.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	expenseID := ""
	if r.ExpenseID != nil {
		expenseID = r.ExpenseID.String()
	}
	amount := ""
	if r.ExpenseID != nil {
		amount = strconv.FormatFloat(r.Amount, 'f', 2, 64)
	}
	return []string{
		r.TripID.String(),
		r.TripName,
		r.Destination,
		formatDate(r.TripStart),
		formatDate(r.TripEnd),
		expenseID,
		r.ExpenseTitle,
		amount,
		r.Currency,
		string(r.Category),
		formatOptionalTime(r.ExpenseDate),
		r.ExpenseNotes,
	}
}

// formatDate returns the "2006-01-02" representation of t, or "" for zero.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

// formatOptionalTime returns the RFC3339 representation of t, or "" if t is
// nil.
func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExportRow is one line of the flat trips-with-expenses export.
// Each expense contributes a row; a trip with no expenses contributes a
// single row with the expense fields left empty, so every trip appears in
// the export at least once.
type ExportRow struct {
	TripID       uuid.UUID
	TripName     string
	Destination  string
	TripStart    time.Time
	TripEnd      time.Time
	ExpenseID    *uuid.UUID
	ExpenseTitle string
	Amount       float64
	Currency     string
	Category     Category
	ExpenseDate  *time.Time
	ExpenseNotes string
}

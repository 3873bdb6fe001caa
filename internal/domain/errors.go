package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist locally. Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing name, end date before start date, negative
// amount). Handlers map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrSaveFailed wraps any local commit failure. The store rolls the
// transaction back before surfacing it, so no partial write is ever
// observable after this error.
var ErrSaveFailed = errors.New("save failed")

// ErrDeleteFailed wraps any local delete failure, with the same rollback
// guarantee as ErrSaveFailed.
var ErrDeleteFailed = errors.New("delete failed")

// ErrNotAuthenticated is returned by sync operations when no anonymous
// identity is signed in. No sync state is mutated when this is returned.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrSyncFailed is the single kind every failed remote write collapses to
// at the coordinator boundary. The underlying transport cause stays wrapped
// inside it, so errors.Is/As still reach the detail.
var ErrSyncFailed = errors.New("sync failed")

// ErrSyncInFlight is returned when a push operation is requested while a
// previous one is still running. The caller should retry after the current
// sync finishes rather than interleave writes.
var ErrSyncInFlight = errors.New("sync already in progress")

// ErrPartialCleanup is returned by the remote cascade delete when the trip
// document was removed but one or more expense documents could not be.
// The orphaned document IDs are carried in the error message; callers may
// treat the deletion as done and log the leftovers.
var ErrPartialCleanup = errors.New("partial remote cleanup")

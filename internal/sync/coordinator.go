// Package sync keeps the on-device trip graph mirrored to the per-user
// cloud document store.
//
// The coordinator pushes whole-trip subtrees (the trip document first, then
// its expense documents one at a time), so a partially failed push always
// leaves the remote trip document as the first-visible artifact, and every
// write is an idempotent merge-upsert keyed by the local UUID — retrying a
// failed push simply rewrites identical data.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	stdsync "sync"
	"time"

	"github.com/google/uuid"

	"github.com/Erfanur1/Voyager/internal/domain"
	"github.com/Erfanur1/Voyager/internal/identity"
	"github.com/Erfanur1/Voyager/internal/remote"
)

// ExpenseSource loads the expenses owned by a trip. repo.ExpenseRepo
// satisfies it.
type ExpenseSource interface {
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error)
}

// DocumentStore is the slice of the remote client the coordinator uses.
// remote.Client satisfies it; tests inject a scripted fake.
type DocumentStore interface {
	Upsert(ctx context.Context, path string, doc any) error
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, path string) ([]remote.Document, error)
	Query(ctx context.Context, path, field, value string) ([]remote.Document, error)
}

// IdentityProvider exposes the current anonymous identity.
// identity.Provider satisfies it.
type IdentityProvider interface {
	CurrentIdentity() (identity.Identity, bool)
	SignedIn() bool
}

// Coordinator orchestrates all remote sync operations and owns the
// observable (signedIn, syncing, lastSyncTime) state.
//
// Push operations (SyncTrip, SyncAllTrips) are serialized through a
// single-slot guard: a push requested while another is in flight is
// rejected with domain.ErrSyncInFlight instead of interleaving writes.
// DeleteTrip takes the same guard but waits its turn, since remote cleanup
// must not be droppable.
type Coordinator struct {
	expenses ExpenseSource
	docs     DocumentStore
	ident    IdentityProvider
	logger   *slog.Logger
	now      func() time.Time

	pushMu stdsync.Mutex
	state  *syncState
}

// NewCoordinator wires a Coordinator from its collaborators.
func NewCoordinator(expenses ExpenseSource, docs DocumentStore, ident IdentityProvider, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		expenses: expenses,
		docs:     docs,
		ident:    ident,
		logger:   logger,
		now:      time.Now,
		state:    newSyncState(ident.SignedIn),
	}
}

// State returns the current observable sync state.
func (c *Coordinator) State() Snapshot {
	return c.state.snapshot()
}

// Subscribe returns a channel receiving a Snapshot after every state
// change. Slow readers miss intermediate snapshots rather than blocking
// sync operations.
func (c *Coordinator) Subscribe() <-chan Snapshot {
	return c.state.subscribe()
}

// SyncTrip pushes one trip and all of its expenses to the remote store.
//
// The trip document is written first, then each expense document in
// ascending ID order, one at a time. On failure, documents already written
// by this call stay in place — upserts are idempotent, so retrying the whole
// trip is safe — and the cause comes back wrapped in domain.ErrSyncFailed.
// LastSyncTime advances only when every write succeeded.
func (c *Coordinator) SyncTrip(ctx context.Context, trip domain.Trip) error {
	id, ok := c.ident.CurrentIdentity()
	if !ok {
		return fmt.Errorf("sync.Coordinator.SyncTrip: %w", domain.ErrNotAuthenticated)
	}
	if !c.pushMu.TryLock() {
		return fmt.Errorf("sync.Coordinator.SyncTrip: %w", domain.ErrSyncInFlight)
	}
	defer c.pushMu.Unlock()

	timer := time.Now()
	c.state.setSyncing(true)
	defer c.state.setSyncing(false)

	if err := c.pushTrip(ctx, id.UID, trip); err != nil {
		syncOps.WithLabelValues("sync_trip", "failure").Inc()
		return fmt.Errorf("sync.Coordinator.SyncTrip: %w: %w", domain.ErrSyncFailed, err)
	}

	c.state.markSynced(c.now())
	syncOps.WithLabelValues("sync_trip", "success").Inc()
	syncDuration.WithLabelValues("sync_trip").Observe(time.Since(timer).Seconds())
	c.logger.Info("trip synced", "trip_id", trip.ID, "name", trip.Name)
	return nil
}

// SyncAllTrips pushes every given trip sequentially under one syncing
// window, so the UI indicator does not flicker between trips. The first
// trip that fails stops the run; earlier trips stay fully synced and
// LastSyncTime is not advanced.
func (c *Coordinator) SyncAllTrips(ctx context.Context, trips []domain.Trip) error {
	id, ok := c.ident.CurrentIdentity()
	if !ok {
		return fmt.Errorf("sync.Coordinator.SyncAllTrips: %w", domain.ErrNotAuthenticated)
	}
	if !c.pushMu.TryLock() {
		return fmt.Errorf("sync.Coordinator.SyncAllTrips: %w", domain.ErrSyncInFlight)
	}
	defer c.pushMu.Unlock()

	timer := time.Now()
	c.state.setSyncing(true)
	defer c.state.setSyncing(false)

	for _, trip := range trips {
		if err := c.pushTrip(ctx, id.UID, trip); err != nil {
			syncOps.WithLabelValues("sync_all", "failure").Inc()
			return fmt.Errorf("sync.Coordinator.SyncAllTrips: trip %s: %w: %w",
				trip.ID, domain.ErrSyncFailed, err)
		}
	}

	c.state.markSynced(c.now())
	syncOps.WithLabelValues("sync_all", "success").Inc()
	syncDuration.WithLabelValues("sync_all").Observe(time.Since(timer).Seconds())
	c.logger.Info("all trips synced", "count", len(trips))
	return nil
}

// pushTrip writes one trip document followed by its expense documents.
// Expenses are pushed one at a time in ascending ID order: the bounded
// fan-out keeps failure attribution exact (expense N failed, 1..N-1 are
// durably upserted) at the cost of throughput.
func (c *Coordinator) pushTrip(ctx context.Context, uid string, trip domain.Trip) error {
	now := c.now()

	path := remote.TripPath(uid, trip.ID.String())
	if err := c.docs.Upsert(ctx, path, remote.ToTripDoc(trip, now)); err != nil {
		return fmt.Errorf("upsert trip document: %w", err)
	}

	expenses, err := c.expenses.ListByTrip(ctx, trip.ID)
	if err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}
	sort.Slice(expenses, func(i, j int) bool {
		return expenses[i].ID.String() < expenses[j].ID.String()
	})

	for _, e := range expenses {
		path := remote.ExpensePath(uid, e.ID.String())
		if err := c.docs.Upsert(ctx, path, remote.ToExpenseDoc(e, now)); err != nil {
			return fmt.Errorf("upsert expense document %s: %w", e.ID, err)
		}
	}
	return nil
}

// DeleteTrip removes a trip's documents from the remote store: first the
// trip document, then every expense document whose tripId matches.
//
// The two phases are not transactional. A trip-document failure is a hard
// error (nothing was cleaned up, retry later). Expense-document failures
// are accumulated instead of aborting the loop, and come back wrapped in
// domain.ErrPartialCleanup naming the orphaned documents — the trip itself
// is gone, so callers may log the orphans and move on.
func (c *Coordinator) DeleteTrip(ctx context.Context, tripID uuid.UUID) error {
	id, ok := c.ident.CurrentIdentity()
	if !ok {
		return fmt.Errorf("sync.Coordinator.DeleteTrip: %w", domain.ErrNotAuthenticated)
	}
	c.pushMu.Lock()
	defer c.pushMu.Unlock()

	uid := id.UID
	if err := c.docs.Delete(ctx, remote.TripPath(uid, tripID.String())); err != nil {
		syncOps.WithLabelValues("delete_trip", "failure").Inc()
		return fmt.Errorf("sync.Coordinator.DeleteTrip: %w: %w", domain.ErrSyncFailed, err)
	}

	docs, err := c.docs.Query(ctx, remote.ExpenseCollection(uid), "tripId", tripID.String())
	if err != nil {
		syncOps.WithLabelValues("delete_trip", "partial").Inc()
		return fmt.Errorf("sync.Coordinator.DeleteTrip: %w: query expenses: %w",
			domain.ErrPartialCleanup, err)
	}

	var causes []error
	var orphans []string
	for _, doc := range docs {
		if err := c.docs.Delete(ctx, remote.ExpensePath(uid, doc.ID)); err != nil {
			causes = append(causes, err)
			orphans = append(orphans, doc.ID)
		}
	}
	if len(causes) > 0 {
		orphanedDocs.Add(float64(len(orphans)))
		syncOps.WithLabelValues("delete_trip", "partial").Inc()
		c.logger.Warn("cascade delete left orphaned expense documents",
			"trip_id", tripID, "orphans", orphans)
		return fmt.Errorf("sync.Coordinator.DeleteTrip: %w: expenses %v: %w",
			domain.ErrPartialCleanup, orphans, errors.Join(causes...))
	}

	syncOps.WithLabelValues("delete_trip", "success").Inc()
	c.logger.Info("trip deleted remotely", "trip_id", tripID, "expenses", len(docs))
	return nil
}

// FetchTrips lists all trip documents under the current identity and maps
// each into a lightweight trip record. A document that fails to decode is
// skipped with a log line — one malformed record must not block retrieval
// of the rest.
func (c *Coordinator) FetchTrips(ctx context.Context) ([]domain.Trip, error) {
	id, ok := c.ident.CurrentIdentity()
	if !ok {
		return nil, fmt.Errorf("sync.Coordinator.FetchTrips: %w", domain.ErrNotAuthenticated)
	}

	docs, err := c.docs.List(ctx, remote.TripCollection(id.UID))
	if err != nil {
		syncOps.WithLabelValues("fetch_trips", "failure").Inc()
		return nil, fmt.Errorf("sync.Coordinator.FetchTrips: %w: %w", domain.ErrSyncFailed, err)
	}

	trips := make([]domain.Trip, 0, len(docs))
	for _, doc := range docs {
		var td remote.TripDoc
		if err := json.Unmarshal(doc.Data, &td); err != nil {
			c.logger.Warn("skipping malformed trip document", "doc_id", doc.ID, "error", err)
			continue
		}
		trip, err := remote.FromTripDoc(doc.ID, td)
		if err != nil {
			c.logger.Warn("skipping trip document with bad id", "doc_id", doc.ID, "error", err)
			continue
		}
		trips = append(trips, trip)
	}

	syncOps.WithLabelValues("fetch_trips", "success").Inc()
	return trips, nil
}

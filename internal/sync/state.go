package sync

import (
	stdsync "sync"
	"time"
)

// Snapshot is the observable sync-state triple read by the presentation
// layer. LastSyncTime is zero when no sync has ever succeeded.
type Snapshot struct {
	SignedIn     bool
	Syncing      bool
	LastSyncTime time.Time
}

// syncState owns the mutable flags behind Snapshot. It is the only place
// they are written, and every write broadcasts the new snapshot to
// subscribers so nothing reads shared flags directly.
type syncState struct {
	signedIn func() bool // queried live from the identity provider

	mu       stdsync.Mutex
	syncing  bool
	lastSync time.Time
	subs     []chan Snapshot
}

func newSyncState(signedIn func() bool) *syncState {
	return &syncState{signedIn: signedIn}
}

func (s *syncState) snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *syncState) snapshotLocked() Snapshot {
	return Snapshot{
		SignedIn:     s.signedIn(),
		Syncing:      s.syncing,
		LastSyncTime: s.lastSync,
	}
}

// setSyncing flips the in-flight flag and notifies subscribers.
func (s *syncState) setSyncing(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncing = v
	s.broadcastLocked()
}

// markSynced records a fully successful sync.
func (s *syncState) markSynced(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSync = t
	s.broadcastLocked()
}

// subscribe returns a channel that receives a Snapshot after every state
// change. The channel is buffered; a slow subscriber misses intermediate
// snapshots rather than blocking the coordinator.
func (s *syncState) subscribe() <-chan Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Snapshot, 8)
	s.subs = append(s.subs, ch)
	return ch
}

func (s *syncState) broadcastLocked() {
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

package handler

import (
	"net/http"
	"time"
)

// syncStatusResponse is the JSON shape of GET /sync/status.
// LastSyncTime is null until the first fully successful push.
type syncStatusResponse struct {
	SignedIn     bool       `json:"signedIn"`
	Syncing      bool       `json:"syncing"`
	LastSyncTime *time.Time `json:"lastSyncTime"`
}

// SyncNow handles POST /sync: push every local trip to the remote store.
// Maps the sync error taxonomy onto statuses: 409 when no identity is
// signed in, 429 when a sync is already running, 502 when the remote store
// rejected a write.
func (s *Server) SyncNow(w http.ResponseWriter, r *http.Request) {
	if err := s.syncs.SyncNow(r.Context()); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SyncStatus handles GET /sync/status.
func (s *Server) SyncStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.syncs.Status()
	resp := syncStatusResponse{SignedIn: snap.SignedIn, Syncing: snap.Syncing}
	if !snap.LastSyncTime.IsZero() {
		t := snap.LastSyncTime
		resp.LastSyncTime = &t
	}
	writeJSON(w, http.StatusOK, resp)
}

// FetchRemoteTrips handles GET /sync/trips: the lightweight trip records
// stored remotely, without expenses or cover images.
func (s *Server) FetchRemoteTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.syncs.Fetch(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	data := make([]tripResponse, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, data)
}

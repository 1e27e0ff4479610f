package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/wardwatch/wardwatch/pkg/polling"
)

// loadAggregate resolves the ?source= parameter and returns that source's
// last good aggregate. A missing aggregate is the stale-but-available
// policy's end state: nothing has ever been fetched.
func (s *Server) loadAggregate(w http.ResponseWriter, r *http.Request) (*polling.Aggregate, bool) {
	name := r.URL.Query().Get("source")
	if name == "" {
		name = DefaultSource
	}

	cell, ok := s.Cells[name]
	if !ok {
		http.Error(w, "unknown source", http.StatusNotFound)
		return nil, false
	}

	agg, err := cell.Load()
	if err != nil {
		if errors.Is(err, polling.ErrNoSnapshot) {
			http.Error(w, "no data fetched yet", http.StatusServiceUnavailable)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return nil, false
	}
	return agg, true
}

func (s *Server) handleTiles(w http.ResponseWriter, r *http.Request) {
	agg, ok := s.loadAggregate(w, r)
	if !ok {
		return
	}
	writeJSON(w, agg.Tiles)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	agg, ok := s.loadAggregate(w, r)
	if !ok {
		return
	}
	writeJSON(w, agg.Timeline)
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	agg, ok := s.loadAggregate(w, r)
	if !ok {
		return
	}

	// The default view is the precomputed top slice; an explicit k cuts
	// the full ranking instead, so k above the default still works.
	top := agg.Top
	if kStr := r.URL.Query().Get("k"); kStr != "" {
		k, err := strconv.Atoi(kStr)
		if err != nil || k < 0 {
			http.Error(w, "invalid k", http.StatusBadRequest)
			return
		}
		top = agg.Ranking
		if k < len(top) {
			top = top[:k]
		}
	}
	writeJSON(w, top)
}

func (s *Server) handleWard(w http.ResponseWriter, r *http.Request) {
	agg, ok := s.loadAggregate(w, r)
	if !ok {
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "missing key", http.StatusBadRequest)
		return
	}
	rec, ok := agg.Latest[key]
	if !ok {
		http.Error(w, "no reconciled record for ward", http.StatusNotFound)
		return
	}
	writeJSON(w, rec)
}

// SourceStatus is one source's freshness as seen by the API.
type SourceStatus struct {
	Source    string    `json:"source"`
	HasData   bool      `json:"hasData"`
	FetchedAt time.Time `json:"fetchedAt,omitzero"`
	Day       string    `json:"day,omitempty"`
	RawRows   int       `json:"rawRows"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.Cells))
	for name := range s.Cells {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]SourceStatus, 0, len(names))
	for _, name := range names {
		st := SourceStatus{Source: name}
		if agg, err := s.Cells[name].Load(); err == nil {
			st.HasData = true
			st.FetchedAt = agg.FetchedAt
			st.Day = agg.Day
			st.RawRows = agg.RawRows
		}
		out = append(out, st)
	}
	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

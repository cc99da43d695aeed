// Package catalog keeps the most recent fetched catalog per source in
// memory. Only the current snapshot is held; historical snapshots are
// deliberately not persisted.
package catalog

import (
	"sync"
	"time"

	"github.com/signalsfoundry/leo-catalog/model"
)

// EventType indicates what kind of change happened in the store.
type EventType int

const (
	EventSnapshotUpdated EventType = iota
)

// Event is emitted to subscribers when a snapshot is refreshed.
type Event struct {
	Type     EventType
	Snapshot Snapshot
}

// Snapshot is one fetched-and-parsed catalog.
type Snapshot struct {
	Source    string // group name or source URL
	FetchedAt time.Time
	Raw       string
	Records   []model.ElementRecord
}

// Age returns how old the snapshot is relative to now.
func (s Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// MetricsRecorder receives catalog counts whenever the store changes, so
// gauges track store mutations directly.
type MetricsRecorder interface {
	SetCatalogRecords(n int)
	SetCatalogMatches(n int)
}

// Store is an in-memory, thread-safe snapshot store keyed by source.
type Store struct {
	mu sync.RWMutex

	snapshots map[string]Snapshot
	recorder  MetricsRecorder
	subs      []func(Event)
}

// Option configures a Store.
type Option func(*Store)

// WithMetricsRecorder wires gauge updates into store mutations.
func WithMetricsRecorder(r MetricsRecorder) Option {
	return func(s *Store) { s.recorder = r }
}

// NewStore constructs an empty snapshot store.
func NewStore(opts ...Option) *Store {
	s := &Store{snapshots: make(map[string]Snapshot)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put replaces the snapshot for its source and notifies subscribers.
func (s *Store) Put(snap Snapshot) {
	s.mu.Lock()
	s.snapshots[snap.Source] = snap
	subs := append([]func(Event){}, s.subs...)
	recorder := s.recorder
	s.mu.Unlock()

	if recorder != nil {
		recorder.SetCatalogRecords(len(snap.Records))
	}

	event := Event{Type: EventSnapshotUpdated, Snapshot: snap}
	// Notify subscribers outside the lock to avoid deadlocks.
	for _, sub := range subs {
		sub(event)
	}
}

// Get returns the snapshot for source, if present.
func (s *Store) Get(source string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[source]
	return snap, ok
}

// Fresh returns the snapshot for source only if it is younger than maxAge.
func (s *Store) Fresh(source string, now time.Time, maxAge time.Duration) (Snapshot, bool) {
	snap, ok := s.Get(source)
	if !ok || maxAge <= 0 || snap.Age(now) > maxAge {
		return Snapshot{}, false
	}
	return snap, true
}

// Sources returns a snapshot slice of all stored source keys.
func (s *Store) Sources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]string, 0, len(s.snapshots))
	for src := range s.snapshots {
		res = append(res, src)
	}
	return res
}

// RecordMatches reports the match count of the latest filter run to the
// metrics recorder.
func (s *Store) RecordMatches(matches int) {
	s.mu.RLock()
	recorder := s.recorder
	s.mu.RUnlock()

	if recorder == nil {
		return
	}
	recorder.SetCatalogMatches(matches)
}

// Subscribe registers a callback for store events. It returns an
// unsubscribe function.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
	idx := len(s.subs) - 1

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < 0 || idx >= len(s.subs) {
			return
		}
		s.subs = append(s.subs[:idx], s.subs[idx+1:]...)
		idx = -1
	}
}

// Package history persists recent search queries on the primary store.
package history

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/starford/sonar/internal/storage"
)

// FileName is the document holding the history.
const FileName = "search_history.json"

// DefaultSize caps the number of remembered queries.
const DefaultSize = 50

// Record is one remembered query.
type Record struct {
	Query string `json:"query"`
}

// Entry is a Record with its sort key.
type Entry struct {
	Key   string
	Query string
}

// Store reads and writes the history document.
type Store struct {
	store storage.Provider
	size  int
	now   func() time.Time

	mu sync.Mutex
}

// New creates a history Store. size <= 0 means DefaultSize.
func New(store storage.Provider, size int) *Store {
	if size <= 0 {
		size = DefaultSize
	}
	return &Store{store: store, size: size, now: time.Now}
}

// SetSize changes the cap applied by later Adds. size <= 0 means
// DefaultSize.
func (s *Store) SetSize(size int) {
	if size <= 0 {
		size = DefaultSize
	}
	s.mu.Lock()
	s.size = size
	s.mu.Unlock()
}

// Get returns the raw key to record mapping.
func (s *Store) Get() (map[string]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Entries returns the history sorted by key, most recent first. Keys are
// compared as strings.
func (s *Store) Entries() ([]Entry, error) {
	records, err := s.Get()
	if err != nil {
		return nil, err
	}
	return sortedEntries(records), nil
}

// Add remembers query as the most recent search. An existing identical
// query is moved to the front and the oldest entries beyond the size cap
// are dropped.
func (s *Store) Add(query string) error {
	if query == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	for k, r := range records {
		if r.Query == query {
			delete(records, k)
		}
	}
	records[newKey(s.now())] = Record{Query: query}

	if len(records) > s.size {
		entries := sortedEntries(records)
		for _, e := range entries[s.size:] {
			delete(records, e.Key)
		}
	}
	return s.save(records)
}

// Remove deletes every record whose query equals query exactly.
func (s *Store) Remove(query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	removed := false
	for k, r := range records {
		if r.Query == query {
			delete(records, k)
			removed = true
		}
	}
	if !removed {
		return nil
	}
	return s.save(records)
}

// Clear forgets all queries.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(map[string]Record{})
}

func (s *Store) load() (map[string]Record, error) {
	records := map[string]Record{}
	if err := storage.ReadJSON(s.store, FileName, &records); err != nil {
		return nil, fmt.Errorf("history: load: %w", err)
	}
	return records, nil
}

func (s *Store) save(records map[string]Record) error {
	if err := storage.WriteJSON(s.store, FileName, records); err != nil {
		return fmt.Errorf("history: save: %w", err)
	}
	return nil
}

// newKey formats t as fixed-width nanoseconds so string order and time
// order agree.
func newKey(t time.Time) string {
	return fmt.Sprintf("%020d", t.UnixNano())
}

func sortedEntries(records map[string]Record) []Entry {
	out := make([]Entry, 0, len(records))
	for k, r := range records {
		out = append(out, Entry{Key: k, Query: r.Query})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key > out[j].Key })
	return out
}

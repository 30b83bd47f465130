// Package chainstore keeps every processed system's raw posterior draws and
// derived sequences in memory and checkpoints them as full snapshots.
package chainstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"EclipseCast/internal/domain"
	"EclipseCast/internal/ports"
)

// Store maps system identifiers to chain entries.
// Upsert and Flush are safe for concurrent use.
type Store struct {
	archive ports.ChainArchive

	mu      sync.RWMutex
	entries map[string]domain.ChainEntry
	flushes int
}

// New creates an empty store backed by archive.
func New(archive ports.ChainArchive) *Store {
	return &Store{
		archive: archive,
		entries: map[string]domain.ChainEntry{},
	}
}

// Load replaces the in-memory state with the archive's snapshot.
func (s *Store) Load(ctx context.Context) error {
	if s.archive == nil {
		return nil
	}

	entries, err := s.archive.Load(ctx)
	if err != nil {
		return fmt.Errorf("load chains: %w", err)
	}
	if entries == nil {
		entries = map[string]domain.ChainEntry{}
	}
	for name, entry := range entries {
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("load chains: system %s: %w", name, err)
		}
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// Upsert inserts or replaces one system's entry as a unit.
func (s *Store) Upsert(name string, entry domain.ChainEntry) error {
	if name == "" {
		return fmt.Errorf("upsert chain: empty system name")
	}
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("upsert chain %s: %w", name, err)
	}

	stored := entry.Clone()
	s.mu.Lock()
	s.entries[name] = stored
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the entry for name.
func (s *Store) Get(name string) (domain.ChainEntry, bool) {
	s.mu.RLock()
	entry, ok := s.entries[name]
	s.mu.RUnlock()
	if !ok {
		return domain.ChainEntry{}, false
	}
	return entry.Clone(), true
}

// Has reports whether name has a stored entry.
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[name]
	return ok
}

// Len returns the number of stored systems.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Names lists stored identifiers in lexical order.
func (s *Store) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	s.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Flush writes the whole mapping to the archive, overwriting the previous snapshot.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.RLock()
	snapshot := make(map[string]domain.ChainEntry, len(s.entries))
	for name, entry := range s.entries {
		// entries are replaced, never mutated in place, so sharing slices is safe
		snapshot[name] = entry
	}
	s.mu.RUnlock()

	if s.archive != nil {
		if err := s.archive.Save(ctx, snapshot); err != nil {
			return fmt.Errorf("flush chains: %w", err)
		}
	}

	s.mu.Lock()
	s.flushes++
	s.mu.Unlock()
	return nil
}

// Flushes reports how many successful flushes this store has performed.
func (s *Store) Flushes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flushes
}

package calendar

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/turtacn/PrazoCerto/pkg/errors"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

// Store is the read side of calendar data. Implementations must be safe for
// concurrent use.
type Store interface {
	// Holidays returns every entry matching court whose date lies in [from, to].
	Holidays(ctx context.Context, court Court, from, to common.Date) ([]Entry, error)
	// Suspensions returns every period matching court.
	Suspensions(ctx context.Context, court Court) ([]SuspensionPeriod, error)
	// Version changes whenever the underlying data changes.
	Version(ctx context.Context) (string, error)
}

// Writer is the administrative side of calendar data.
type Writer interface {
	AddEntry(ctx context.Context, e Entry) error
	AddSuspension(ctx context.Context, p SuspensionPeriod) error
}

// ReadWriter combines Store and Writer.
type ReadWriter interface {
	Store
	Writer
}

// ─────────────────────────────────────────────────────────────────────────────
// In-memory implementation
// ─────────────────────────────────────────────────────────────────────────────

type entryKey struct {
	date  common.Date
	scope string
}

// MemoryStore keeps calendar data in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	entries     map[entryKey]Entry
	suspensions []SuspensionPeriod
	version     uint64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[entryKey]Entry)}
}

// AddEntry registers e. A second entry for the same (date, scope key) is a
// Conflict error.
func (s *MemoryStore) AddEntry(_ context.Context, e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	key := entryKey{date: e.Date, scope: e.ScopeKey()}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.entries[key]; ok {
		return errors.New(errors.ErrCodeDuplicateEntry, "calendar entry already registered").
			WithDetail(fmt.Sprintf("%s %s (%s)", e.Date, key.scope, existing.Name))
	}
	s.entries[key] = e
	s.version++
	return nil
}

// AddSuspension registers p after validating it. Adding a period identical
// to one already held is a no-op.
func (s *MemoryStore) AddSuspension(_ context.Context, p SuspensionPeriod) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.suspensions {
		if existing == p {
			return nil
		}
	}
	s.suspensions = append(s.suspensions, p)
	s.version++
	return nil
}

// Holidays implements Store.
func (s *MemoryStore) Holidays(_ context.Context, court Court, from, to common.Date) ([]Entry, error) {
	s.mu.RLock()
	out := make([]Entry, 0, 16)
	for _, e := range s.entries {
		if e.Date.Between(from, to) && e.Matches(court) {
			out = append(out, e)
		}
	}
	s.mu.RUnlock()
	SortEntries(out)
	return out, nil
}

// Suspensions implements Store.
func (s *MemoryStore) Suspensions(_ context.Context, court Court) ([]SuspensionPeriod, error) {
	s.mu.RLock()
	out := make([]SuspensionPeriod, 0, len(s.suspensions))
	for _, p := range s.suspensions {
		if p.Matches(court) {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()
	SortSuspensions(out)
	return out, nil
}

// Version implements Store.
func (s *MemoryStore) Version(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("mem-%d", s.version), nil
}

// Len returns the number of entries and suspension periods held.
func (s *MemoryStore) Len() (entries, suspensions int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), len(s.suspensions)
}

// SortEntries orders entries by date, then scope key.
func SortEntries(es []Entry) {
	sort.SliceStable(es, func(i, j int) bool {
		if !es[i].Date.Equal(es[j].Date) {
			return es[i].Date.Before(es[j].Date)
		}
		return es[i].ScopeKey() < es[j].ScopeKey()
	})
}

// SortSuspensions orders periods by start date, then kind.
func SortSuspensions(ps []SuspensionPeriod) {
	sort.SliceStable(ps, func(i, j int) bool {
		if !ps[i].Start.Equal(ps[j].Start) {
			return ps[i].Start.Before(ps[j].Start)
		}
		return ps[i].Kind < ps[j].Kind
	})
}

//Personal.AI order the ending

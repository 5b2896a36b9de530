package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/turtacn/PrazoCerto/pkg/errors"
)

// Catalog is the read interface used by the computation layer.
type Catalog interface {
	// GetByCode returns CodeCatalogNotFound on miss; callers then fall back
	// to Manual.
	GetByCode(code string) (Entry, error)
	Lookup(code string) (Entry, bool)
	Search(q Query) []Entry
	List() []Entry
}

// Source supplies catalog entries from external storage (YAML, Postgres).
type Source interface {
	LoadEntries(ctx context.Context) ([]Entry, error)
}

// Query filters Search. Zero fields match everything.
type Query struct {
	// Text is matched token by token, accent and case insensitive, against
	// code, title, article, trigger and keywords.
	Text     string
	Statute  string
	Category string
	Class    Class
	Mode     Mode
	Limit    int
}

// ─────────────────────────────────────────────────────────────────────────────
// In-memory implementation
// ─────────────────────────────────────────────────────────────────────────────

type indexed struct {
	entry  Entry
	tokens map[string]struct{}
}

// InMemoryCatalog is an immutable-per-generation catalog. Reload swaps the
// whole table atomically.
type InMemoryCatalog struct {
	mu      sync.RWMutex
	entries map[string]indexed
	codes   []string
}

// New builds a catalog from entries. Invalid entries and duplicate codes are
// rejected.
func New(entries []Entry) (*InMemoryCatalog, error) {
	c := &InMemoryCatalog{}
	if err := c.Reload(entries); err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns the catalog built from the built-in seed.
func Default() *InMemoryCatalog {
	c, err := New(SeedEntries())
	if err != nil {
		panic("catalog: invalid built-in seed: " + err.Error())
	}
	return c
}

// Reload replaces every entry. On error the previous generation is kept.
func (c *InMemoryCatalog) Reload(entries []Entry) error {
	table := make(map[string]indexed, len(entries))
	codes := make([]string, 0, len(entries))
	for _, e := range entries {
		e.Code = NormalizeCode(e.Code)
		if err := e.Validate(); err != nil {
			return err
		}
		if _, dup := table[e.Code]; dup {
			return errors.New(errors.ErrCodeCatalogDuplicate, "duplicate catalog code").WithDetail(e.Code)
		}
		table[e.Code] = indexed{entry: e, tokens: tokensOf(e)}
		codes = append(codes, e.Code)
	}
	sort.Strings(codes)

	c.mu.Lock()
	c.entries, c.codes = table, codes
	c.mu.Unlock()
	return nil
}

// Len returns the number of entries.
func (c *InMemoryCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.codes)
}

// GetByCode implements Catalog.
func (c *InMemoryCatalog) GetByCode(code string) (Entry, error) {
	e, ok := c.Lookup(code)
	if !ok {
		return Entry{}, errors.New(errors.CodeCatalogNotFound, "catalog entry not found").WithDetail(code)
	}
	return e, nil
}

// Lookup implements Catalog.
func (c *InMemoryCatalog) Lookup(code string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ix, ok := c.entries[NormalizeCode(code)]
	if !ok {
		return Entry{}, false
	}
	return ix.entry, true
}

// List implements Catalog. Entries are ordered by code.
func (c *InMemoryCatalog) List() []Entry {
	return c.Search(Query{})
}

// Search implements Catalog. Results are ordered by code.
func (c *InMemoryCatalog) Search(q Query) []Entry {
	terms := tokenize(q.Text)

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, 0, 8)
	for _, code := range c.codes {
		ix := c.entries[code]
		if !matches(ix, q, terms) {
			continue
		}
		out = append(out, ix.entry)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out
}

func matches(ix indexed, q Query, terms []string) bool {
	e := ix.entry
	if q.Statute != "" && fold(q.Statute) != fold(e.Statute) {
		return false
	}
	if q.Category != "" && !strings.EqualFold(q.Category, e.Category) {
		return false
	}
	if q.Class != "" && q.Class != e.Class {
		return false
	}
	if q.Mode != "" && q.Mode != e.Mode {
		return false
	}
	for _, t := range terms {
		if _, ok := ix.tokens[t]; ok {
			continue
		}
		found := false
		for tok := range ix.tokens {
			if strings.HasPrefix(tok, t) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ─────────────────────────────────────────────────────────────────────────────
// Text folding
// ─────────────────────────────────────────────────────────────────────────────

// fold lower-cases s and strips diacritics ("Contestação" -> "contestacao").
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

func tokenize(s string) []string {
	return strings.FieldsFunc(fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func tokensOf(e Entry) map[string]struct{} {
	set := make(map[string]struct{})
	parts := append([]string{e.Code, e.Title, e.Article, e.Trigger, e.Statute, e.Category}, e.Keywords...)
	for _, p := range parts {
		for _, tok := range tokenize(p) {
			set[tok] = struct{}{}
		}
	}
	// Articles are written "1.003"; also index the undotted form.
	for _, tok := range tokenize(strings.ReplaceAll(e.Article, ".", "")) {
		set[tok] = struct{}{}
	}
	return set
}

//Personal.AI order the ending

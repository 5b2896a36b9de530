package seed

import (
	"context"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/PrazoCerto/internal/domain/catalog"
	"github.com/turtacn/PrazoCerto/pkg/errors"
)

type catalogFile struct {
	Entries []catalog.Entry `yaml:"entries"`
}

// ParseCatalog decodes a catalog file. Every entry is validated.
func ParseCatalog(r io.Reader) ([]catalog.Entry, error) {
	var doc catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogInvalidEntry, "decoding catalog file")
	}
	for i := range doc.Entries {
		doc.Entries[i].Code = catalog.NormalizeCode(doc.Entries[i].Code)
		if err := doc.Entries[i].Validate(); err != nil {
			return nil, err
		}
	}
	return doc.Entries, nil
}

// CatalogSource is a catalog.Source reading the built-in entries overlaid
// with an optional YAML file. File entries replace built-ins sharing a code.
type CatalogSource struct {
	path string
}

// NewCatalogSource returns a source for path. An empty path yields the
// built-in entries only.
func NewCatalogSource(path string) *CatalogSource {
	return &CatalogSource{path: path}
}

// LoadEntries implements catalog.Source. The file is re-read on every call so
// that a reload picks up edits.
func (s *CatalogSource) LoadEntries(_ context.Context) ([]catalog.Entry, error) {
	base := catalog.SeedEntries()
	if s.path == "" {
		return base, nil
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogInvalidEntry, "opening catalog file").WithDetail(s.path)
	}
	defer f.Close()
	overlay, err := ParseCatalog(f)
	if err != nil {
		return nil, err
	}
	return merge(base, overlay), nil
}

func merge(base, overlay []catalog.Entry) []catalog.Entry {
	byCode := make(map[string]catalog.Entry, len(base)+len(overlay))
	for _, e := range base {
		byCode[catalog.NormalizeCode(e.Code)] = e
	}
	for _, e := range overlay {
		byCode[e.Code] = e
	}
	out := make([]catalog.Entry, 0, len(byCode))
	for _, e := range byCode {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

var _ catalog.Source = (*CatalogSource)(nil)

//Personal.AI order the ending

package seed

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/errors"
)

// CourtDoc is one court in a courts file. Courts already known to the
// registry are replaced.
type CourtDoc struct {
	calendar.Court `yaml:",inline"`
	Aliases        []string `yaml:"aliases"`
}

type courtsFile struct {
	Courts []CourtDoc `yaml:"courts"`
}

// ParseCourts decodes a courts file.
func ParseCourts(r io.Reader) ([]CourtDoc, error) {
	var doc courtsFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "decoding courts file")
	}
	for _, c := range doc.Courts {
		if calendar.NormalizeCode(c.Code) == "" {
			return nil, errors.InvalidParam("court code is required").WithDetail(c.Name)
		}
	}
	return doc.Courts, nil
}

// RegisterCourts adds every court in docs to reg together with its aliases.
func RegisterCourts(reg *calendar.InMemoryCourtRegistry, docs []CourtDoc) {
	for _, c := range docs {
		reg.Register(c.Court)
		for _, a := range c.Aliases {
			reg.AddAlias(a, c.Code)
		}
	}
}

// LoadCourtsFile reads path into reg and returns the number of courts
// registered.
func LoadCourtsFile(path string, reg *calendar.InMemoryCourtRegistry, log logging.Logger) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeValidation, "reading courts file").WithDetail(path)
	}
	docs, err := ParseCourts(bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	RegisterCourts(reg, docs)
	log.Info("courts loaded", logging.String("path", path), logging.Int("courts", len(docs)))
	return len(docs), nil
}

//Personal.AI order the ending

// Package catalog holds the authored question catalog: a base set and an
// advanced supplement that is only drawn from in hard mode.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/vytor/phishdefense/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is immutable once loaded.
type Catalog struct {
	Base     []models.Question `yaml:"base"`
	Advanced []models.Question `yaml:"advanced"`
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile reads a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Load returns the file catalog when path is set, the embedded one otherwise.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that ids are unique across both sets and that every
// question has the fields a front-end needs. All problems are reported.
func (c *Catalog) Validate() error {
	var errs []error
	seen := make(map[string]string)

	check := func(set string, i int, q models.Question) {
		where := fmt.Sprintf("%s[%d]", set, i)
		if strings.TrimSpace(q.ID) == "" {
			errs = append(errs, fmt.Errorf("%s: id is required", where))
		} else if prev, dup := seen[q.ID]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate id %q (first seen at %s)", where, q.ID, prev))
		} else {
			seen[q.ID] = where
		}
		if strings.TrimSpace(q.Kind) == "" {
			errs = append(errs, fmt.Errorf("%s: kind is required", where))
		}
		if strings.TrimSpace(q.Prompt) == "" {
			errs = append(errs, fmt.Errorf("%s: prompt is required", where))
		}
	}

	for i, q := range c.Base {
		check("base", i, q)
	}
	for i, q := range c.Advanced {
		check("advanced", i, q)
	}
	return errors.Join(errs...)
}

// Candidates returns a fresh slice of the questions eligible for a round:
// base, followed by advanced when hard is set.
func (c *Catalog) Candidates(hard bool) []models.Question {
	out := make([]models.Question, 0, c.Size(hard))
	out = append(out, c.Base...)
	if hard {
		out = append(out, c.Advanced...)
	}
	return out
}

// Size is the number of candidates for the given mode.
func (c *Catalog) Size(hard bool) int {
	n := len(c.Base)
	if hard {
		n += len(c.Advanced)
	}
	return n
}

// Lookup finds a question by id in either sequence.
func (c *Catalog) Lookup(id string) (models.Question, bool) {
	for _, q := range c.Base {
		if q.ID == id {
			return q, true
		}
	}
	for _, q := range c.Advanced {
		if q.ID == id {
			return q, true
		}
	}
	return models.Question{}, false
}

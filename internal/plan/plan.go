// Package plan loads training plan documents.
package plan

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/pacer/internal/model"
)

//go:embed plans/*.yaml
var bundledFS embed.FS

// ErrNotFound reports an unknown plan path.
var ErrNotFound = errors.New("plan not found")

// Decode reads one YAML plan document and normalizes activity fields.
func Decode(r io.Reader) (model.Plan, error) {
	var p model.Plan
	if err := yaml.NewDecoder(r).Decode(&p); err != nil {
		return model.Plan{}, fmt.Errorf("failed to decode plan: %w", err)
	}
	p.Path = strings.TrimSpace(p.Path)
	if p.Path == "" {
		return model.Plan{}, fmt.Errorf("plan path is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		p.Name = p.Path
	}
	for i := range p.Days {
		for j := range p.Days[i].Activities {
			act := &p.Days[i].Activities[j]
			act.Type = strings.ToLower(strings.TrimSpace(act.Type))
			act.Units = strings.ToLower(strings.TrimSpace(act.Units))
			if act.Units == "" {
				act.Units = model.UnitsKm
			}
			if act.Units != model.UnitsKm && act.Units != model.UnitsMin {
				return model.Plan{}, fmt.Errorf("plan %s day %d: unknown units %q", p.Path, i, act.Units)
			}
			if act.Distance < 0 {
				return model.Plan{}, fmt.Errorf("plan %s day %d: negative distance", p.Path, i)
			}
		}
	}
	return p, nil
}

// LoadFile reads a plan document from disk.
func LoadFile(path string) (model.Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Plan{}, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close for read-only plan file.
			_ = cerr
		}
	}()
	p, err := Decode(f)
	if err != nil {
		return model.Plan{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Catalog indexes plans by path.
type Catalog struct {
	plans  []model.Plan
	byPath map[string]int
}

// NewCatalog builds a catalog; duplicate paths are rejected.
func NewCatalog(plans ...model.Plan) (*Catalog, error) {
	c := &Catalog{byPath: map[string]int{}}
	for _, p := range plans {
		if err := c.Add(p); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Bundled returns a catalog of the plans shipped with the binary.
func Bundled() (*Catalog, error) {
	entries, err := fs.ReadDir(bundledFS, "plans")
	if err != nil {
		return nil, fmt.Errorf("failed to read bundled plans: %w", err)
	}
	c := &Catalog{byPath: map[string]int{}}
	for _, entry := range entries {
		f, err := bundledFS.Open("plans/" + entry.Name())
		if err != nil {
			return nil, err
		}
		p, err := Decode(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		if err := c.Add(p); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// LoadDir adds every *.yaml plan in dir. A missing directory is not an error.
func (c *Catalog) LoadDir(dir string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return err
	}
	sort.Strings(matches)
	for _, path := range matches {
		p, err := LoadFile(path)
		if err != nil {
			return err
		}
		if err := c.Add(p); err != nil {
			return err
		}
	}
	return nil
}

// Add registers a plan.
func (c *Catalog) Add(p model.Plan) error {
	if _, ok := c.byPath[p.Path]; ok {
		return fmt.Errorf("duplicate plan path %q", p.Path)
	}
	c.byPath[p.Path] = len(c.plans)
	c.plans = append(c.plans, p)
	return nil
}

// Get returns the plan stored under path.
func (c *Catalog) Get(path string) (model.Plan, error) {
	i, ok := c.byPath[path]
	if !ok {
		return model.Plan{}, fmt.Errorf("%w: %q", ErrNotFound, path)
	}
	return c.plans[i], nil
}

// List returns every plan sorted by path.
func (c *Catalog) List() []model.Plan {
	out := append([]model.Plan(nil), c.plans...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out
}

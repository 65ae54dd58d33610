// Package layouts loads fixed atom placements ("puzzles") for Black Box
// from YAML files. A layout may list probes with their expected results,
// which Verify checks against the ray engine.
package layouts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/vovakirdan/tui-blackbox/internal/games/blackbox/engine"
)

// ErrInvalidLayout is returned for layout files that do not describe a
// playable board.
var ErrInvalidLayout = errors.New("layouts: invalid layout")

// Position is a board cell in row/column coordinates.
type Position struct {
	Row int `yaml:"row"`
	Col int `yaml:"col"`
}

// Probe is a ray fired at In that is expected to come out at Out
// (engine.Absorbed for absorption).
type Probe struct {
	In  int `yaml:"in"`
	Out int `yaml:"out"`
}

// Layout is a fixed atom placement.
type Layout struct {
	ID       string
	Name     string
	Atoms    []Position
	Probes   []Probe
	Metadata map[string]string
	FilePath string
}

func (l Layout) validate() error {
	seen := make(map[Position]bool, len(l.Atoms))
	for _, a := range l.Atoms {
		if _, ok := engine.ID(a.Row, a.Col); !ok {
			return fmt.Errorf("%w: %s: atom (%d, %d) is off the board", ErrInvalidLayout, l.ID, a.Row, a.Col)
		}
		if seen[a] {
			return fmt.Errorf("%w: %s: duplicate atom (%d, %d)", ErrInvalidLayout, l.ID, a.Row, a.Col)
		}
		seen[a] = true
	}
	for _, p := range l.Probes {
		if p.In < 1 || p.In > engine.PerimeterSize {
			return fmt.Errorf("%w: %s: probe input %d out of range", ErrInvalidLayout, l.ID, p.In)
		}
	}
	return nil
}

// Apply places the layout's atoms on b.
func (l Layout) Apply(b *engine.Board) error {
	for _, a := range l.Atoms {
		if err := b.SetAtom(a.Row, a.Col); err != nil {
			return fmt.Errorf("layout %s: %w", l.ID, err)
		}
	}
	return nil
}

// Board returns a new board holding the layout's atoms.
func (l Layout) Board() (*engine.Board, error) {
	b := engine.NewBoard()
	if err := l.Apply(b); err != nil {
		return nil, err
	}
	return b, nil
}

// FromBoard captures the atoms of b, and the markers recorded on it as
// probes, in a layout.
func FromBoard(id, name string, b *engine.Board) Layout {
	l := Layout{ID: id, Name: name}
	for _, atom := range b.Atoms() {
		row, col := engine.Position(atom)
		l.Atoms = append(l.Atoms, Position{Row: row, Col: col})
	}
	for _, m := range b.Markers() {
		l.Probes = append(l.Probes, Probe{In: m.Input, Out: m.Output})
	}
	return l
}

// Mismatch is a probe whose traced output differs from the expected one.
type Mismatch struct {
	Probe
	Got int
}

func (m Mismatch) String() string {
	return fmt.Sprintf("ray %d: expected %d, got %d", m.In, m.Out, m.Got)
}

// Verify traces every probe on a fresh board and returns those whose output
// does not match.
func (l Layout) Verify() ([]Mismatch, error) {
	b, err := l.Board()
	if err != nil {
		return nil, err
	}

	var mismatches []Mismatch
	for _, p := range l.Probes {
		res, err := engine.Trace(b, p.In)
		if err != nil {
			return nil, fmt.Errorf("layout %s: %w", l.ID, err)
		}
		if res.Output != p.Out {
			mismatches = append(mismatches, Mismatch{Probe: p, Got: res.Output})
		}
	}
	return mismatches, nil
}

// Loader loads layouts from a directory tree.
type Loader struct {
	Root string
}

// NewLoader creates a new layout loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively loads every layout file under Root, sorted by ID.
// Files that fail to parse are skipped.
func (l *Loader) LoadAll() ([]Layout, error) {
	var all []Layout

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(filepath.Ext(path)) {
			return nil
		}

		layout, err := LoadFile(path)
		if err != nil {
			return nil
		}
		all = append(all, layout)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].ID < all[j].ID
	})
	return all, nil
}

// LoadByID loads the layout with the given ID.
func (l *Loader) LoadByID(id string) (Layout, error) {
	all, err := l.LoadAll()
	if err != nil {
		return Layout{}, err
	}
	for _, layout := range all {
		if layout.ID == id {
			return layout, nil
		}
	}
	return Layout{}, fmt.Errorf("layout not found: %s", id)
}

// ListIDs returns all layout IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	all, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(all))
	for i, layout := range all {
		ids[i] = layout.ID
	}
	return ids, nil
}

// LoadFile loads a single layout file.
func LoadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("reading file %s: %w", path, err)
	}
	if !isSupportedExtension(filepath.Ext(path)) {
		return Layout{}, fmt.Errorf("unsupported extension: %s", filepath.Ext(path))
	}

	layout, err := ParseYAML(data)
	if err != nil {
		return Layout{}, fmt.Errorf("parsing file %s: %w", path, err)
	}
	layout.FilePath = path
	return layout, nil
}

func isSupportedExtension(ext string) bool {
	return slices.Contains(FormatExtensions(), strings.ToLower(ext))
}

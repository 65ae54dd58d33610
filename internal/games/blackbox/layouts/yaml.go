package layouts

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlLayout is the on-disk shape of a layout file:
//
//	id: classic-01
//	name: Two atoms
//	atoms:
//	  - {row: 2, col: 0}
//	  - {row: 4, col: 4}
//	probes:
//	  - {in: 15, out: 50}
//	  - {in: 11, out: -1}
type yamlLayout struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Atoms    []Position        `yaml:"atoms"`
	Probes   []Probe           `yaml:"probes,omitempty"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// ParseYAML parses a layout file. The atoms are checked against the board
// shape; the probes are not traced (see Layout.Verify).
func ParseYAML(data []byte) (Layout, error) {
	var yl yamlLayout
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Layout{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	if yl.ID == "" {
		return Layout{}, fmt.Errorf("%w: missing id", ErrInvalidLayout)
	}
	if len(yl.Atoms) == 0 {
		return Layout{}, fmt.Errorf("%w: %s has no atoms", ErrInvalidLayout, yl.ID)
	}

	l := Layout{
		ID:       yl.ID,
		Name:     yl.Name,
		Atoms:    yl.Atoms,
		Probes:   yl.Probes,
		Metadata: yl.Metadata,
	}
	if l.Name == "" {
		l.Name = l.ID
	}
	if err := l.validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// MarshalYAML encodes a layout in the file format read by ParseYAML.
func (l Layout) MarshalYAML() (any, error) {
	return yamlLayout{
		ID:       l.ID,
		Name:     l.Name,
		Atoms:    l.Atoms,
		Probes:   l.Probes,
		Metadata: l.Metadata,
	}, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}

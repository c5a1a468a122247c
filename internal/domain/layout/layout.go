// Package layout describes where each ranked team is drawn on the template.
//
// A Table is immutable configuration: it is decoded once at startup from the
// embedded default or from a YAML file and never changes afterwards. Its
// length bounds how many teams are rendered.
package layout

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/okian/scoreboard/internal/domain/model"
)

//go:embed default_layout.yaml
var defaultLayout []byte

// Align is the horizontal alignment of a name inside its box.
type Align string

// Alignments.
const (
	AlignCenter Align = "center"
	AlignLeft   Align = "left"
)

// Point is a literal pixel anchor, decoded from [x, y].
type Point struct {
	X, Y int
}

// UnmarshalYAML decodes a two element sequence.
func (p *Point) UnmarshalYAML(n *yaml.Node) error {
	var v []int
	if err := n.Decode(&v); err != nil {
		return err
	}
	if len(v) != 2 {
		return fmt.Errorf("%w: point needs 2 values at line %d, got %d", ErrInvalidLayout, n.Line, len(v))
	}
	p.X, p.Y = v[0], v[1]
	return nil
}

// Box is a bounding rectangle, decoded from [x1, y1, x2, y2].
type Box struct {
	X1, Y1, X2, Y2 int
}

// UnmarshalYAML decodes a four element sequence.
func (b *Box) UnmarshalYAML(n *yaml.Node) error {
	var v []int
	if err := n.Decode(&v); err != nil {
		return err
	}
	if len(v) != 4 {
		return fmt.Errorf("%w: box needs 4 values at line %d, got %d", ErrInvalidLayout, n.Line, len(v))
	}
	b.X1, b.Y1, b.X2, b.Y2 = v[0], v[1], v[2], v[3]
	return nil
}

// Width of the box.
func (b Box) Width() int { return b.X2 - b.X1 }

// Height of the box.
func (b Box) Height() int { return b.Y2 - b.Y1 }

// Anchor places a stat value: centred in Box when set, else at At.
type Anchor struct {
	At  Point `yaml:"at"`
	Box *Box  `yaml:"box"`
}

// Logo places a team logo scaled to a Size x Size square.
type Logo struct {
	At   Point `yaml:"at"`
	Box  *Box  `yaml:"box"`
	Size int   `yaml:"size"`
}

// Text places the team name.
type Text struct {
	At    Point `yaml:"at"`
	Box   *Box  `yaml:"box"`
	Size  int   `yaml:"size"`
	Align Align `yaml:"align"`
}

// Stats holds one anchor per stat column.
type Stats struct {
	Matches   Anchor `yaml:"matches"`
	Booyahs   Anchor `yaml:"booyahs"`
	Elims     Anchor `yaml:"elims"`
	Placement Anchor `yaml:"placement"`
	Total     Anchor `yaml:"total"`
}

// Slot is the placement descriptor for one ranking position.
type Slot struct {
	Logo    Logo  `yaml:"logo"`
	Name    Text  `yaml:"name"`
	NumSize int   `yaml:"num_size"`
	Bold    bool  `yaml:"bold"` // all stats bold; reserved for the featured slot
	Stats   Stats `yaml:"stats"`
}

// Anchor returns the placement of stat s.
func (s Slot) Anchor(stat model.Stat) Anchor {
	switch stat {
	case model.StatMatches:
		return s.Stats.Matches
	case model.StatBooyahs:
		return s.Stats.Booyahs
	case model.StatElims:
		return s.Stats.Elims
	case model.StatPlacement:
		return s.Stats.Placement
	}
	return s.Stats.Total
}

// BoldStat reports whether stat is drawn with the bold face in this slot.
// Totals are always bold.
func (s Slot) BoldStat(stat model.Stat) bool {
	return s.Bold || stat == model.StatTotal
}

// Table is the ordered slot sequence, rank 1 first.
type Table []Slot

// Defaults fill sizes a slot leaves at zero.
type Defaults struct {
	FontSize int
	LogoSize int
}

type document struct {
	Slots []Slot `yaml:"slots"`
}

// Default decodes the embedded layout.
func Default(d Defaults) (Table, error) {
	return Parse(defaultLayout, d)
}

// Load decodes the layout at path, or the embedded one when path is empty.
func Load(path string, d Defaults) (Table, error) {
	if path == "" {
		return Default(d)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadLayout, err)
	}
	return Parse(data, d)
}

// Parse decodes and validates a YAML layout document. Unknown keys are
// rejected so a misspelt field cannot silently drop a box.
func Parse(data []byte, d Defaults) (Table, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrLoadLayout, err)
	}
	if len(doc.Slots) == 0 {
		return nil, fmt.Errorf("%w: no slots", ErrInvalidLayout)
	}
	t := Table(doc.Slots)
	for i := range t {
		s := &t[i]
		if s.Logo.Size == 0 {
			s.Logo.Size = d.LogoSize
		}
		if s.Name.Size == 0 {
			s.Name.Size = d.FontSize
		}
		if s.NumSize == 0 {
			s.NumSize = d.FontSize
		}
		if s.Name.Align == "" {
			s.Name.Align = AlignCenter
		}
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("slot %d: %w", i+1, err)
		}
	}
	return t, nil
}

func (s Slot) validate() error {
	if s.Logo.Size <= 0 || s.Name.Size <= 0 || s.NumSize <= 0 {
		return fmt.Errorf("%w: sizes must be positive", ErrInvalidLayout)
	}
	if s.Name.Align != AlignCenter && s.Name.Align != AlignLeft {
		return fmt.Errorf("%w: unknown align %q", ErrInvalidLayout, s.Name.Align)
	}
	boxes := []*Box{s.Logo.Box, s.Name.Box}
	for _, stat := range model.Stats {
		boxes = append(boxes, s.Anchor(stat).Box)
	}
	for _, b := range boxes {
		if b != nil && (b.Width() < 0 || b.Height() < 0) {
			return fmt.Errorf("%w: inverted box %v", ErrInvalidLayout, *b)
		}
	}
	return nil
}

// Package palette holds the label colors the stylization service understands.
package palette

import (
	_ "embed"
	"fmt"
	"image/color"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed colors.yaml
var colorsYAML []byte

// Color is a named RGB label color.
type Color struct {
	Name string   `json:"name"`
	RGB  [3]uint8 `json:"rgb"`
}

// Hex returns the color in #rrggbb form.
func (c Color) Hex() string {
	return ConvertToHex(c.RGB)
}

// RGBA returns the opaque color.RGBA value.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.RGB[0], G: c.RGB[1], B: c.RGB[2], A: 0xff}
}

// Palette is an ordered set of label colors.
type Palette struct {
	colors []Color
	byName map[string]Color
}

type document struct {
	Labels []struct {
		Name string `yaml:"name"`
		RGB  []int  `yaml:"rgb"`
	} `yaml:"labels"`
}

// Default returns the embedded palette. It panics if the embedded document is invalid.
func Default() *Palette {
	p, err := Parse(colorsYAML)
	if err != nil {
		panic(fmt.Sprintf("palette: embedded colors: %v", err))
	}
	return p
}

// Parse decodes a palette document.
func Parse(data []byte) (*Palette, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse palette: %w", err)
	}
	if len(doc.Labels) == 0 {
		return nil, fmt.Errorf("palette has no labels")
	}

	p := &Palette{byName: make(map[string]Color, len(doc.Labels))}
	for _, l := range doc.Labels {
		if l.Name == "" {
			return nil, fmt.Errorf("palette label without name")
		}
		if _, dup := p.byName[l.Name]; dup {
			return nil, fmt.Errorf("duplicate palette label %q", l.Name)
		}
		if len(l.RGB) != 3 {
			return nil, fmt.Errorf("palette label %q: want 3 channels, got %d", l.Name, len(l.RGB))
		}
		c := Color{Name: l.Name}
		for i, v := range l.RGB {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("palette label %q: channel %d out of range", l.Name, v)
			}
			c.RGB[i] = uint8(v)
		}
		p.byName[c.Name] = c
		p.colors = append(p.colors, c)
	}
	return p, nil
}

// Lookup returns the color registered under name.
func (p *Palette) Lookup(name string) (Color, bool) {
	c, ok := p.byName[name]
	return c, ok
}

// MustLookup is Lookup for labels the application depends on.
func (p *Palette) MustLookup(name string) Color {
	c, ok := p.byName[name]
	if !ok {
		panic(fmt.Sprintf("palette: missing label %q", name))
	}
	return c
}

// Colors returns the labels in document order.
func (p *Palette) Colors() []Color {
	return append([]Color(nil), p.colors...)
}

// Names returns the label names sorted alphabetically.
func (p *Palette) Names() []string {
	names := make([]string, 0, len(p.colors))
	for _, c := range p.colors {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// Hex maps every label name to its #rrggbb value, as used by the drawing toolbox.
func (p *Palette) Hex() map[string]string {
	out := make(map[string]string, len(p.colors))
	for _, c := range p.colors {
		out[c.Name] = c.Hex()
	}
	return out
}

// ConvertToHex converts an RGB triple into #rrggbb.
func ConvertToHex(rgb [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
}

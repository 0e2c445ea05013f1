package stylize

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed styles.yaml
var stylesYAML []byte

// ErrUnknownStyle is returned for a style name missing from the catalog.
var ErrUnknownStyle = errors.New("unknown style")

// Style is a named style number of the stylization service.
type Style struct {
	Name   string `yaml:"name" json:"name"`
	Number int    `yaml:"number" json:"number"`
}

// Catalog is the ordered list of styles with a default.
type Catalog struct {
	Default string  `yaml:"default" json:"default"`
	Styles  []Style `yaml:"styles" json:"styles"`
}

// DefaultCatalog returns the embedded style catalog.
func DefaultCatalog() *Catalog {
	var c Catalog
	if err := yaml.Unmarshal(stylesYAML, &c); err != nil {
		panic(fmt.Sprintf("stylize: embedded styles: %v", err))
	}
	return &c
}

// Number returns the style number registered under name.
func (c *Catalog) Number(name string) (int, bool) {
	for _, s := range c.Styles {
		if s.Name == name {
			return s.Number, true
		}
	}
	return 0, false
}

// Resolve maps style names to Styles, preserving order. An empty selection
// resolves to the default style.
func (c *Catalog) Resolve(names []string) ([]Style, error) {
	if len(names) == 0 {
		names = []string{c.Default}
	}

	out := make([]Style, 0, len(names))
	for _, name := range names {
		n, ok := c.Number(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, name)
		}
		out = append(out, Style{Name: name, Number: n})
	}
	return out, nil
}

package render

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sakif/genfolio/internal/profile"
)

//go:embed templates.yaml
var builtinCatalog []byte

// Layouts a template may use. Each has a matching templates/<layout>.html.
const (
	LayoutStacked = "stacked"
	LayoutSidebar = "sidebar"
	LayoutGrid    = "grid"
)

var knownLayouts = map[string]bool{
	LayoutStacked: true,
	LayoutSidebar: true,
	LayoutGrid:    true,
}

// Theme is the handful of values a layout reads to style itself.
type Theme struct {
	Accent     string `yaml:"accent" json:"accent"`
	Background string `yaml:"background" json:"background"`
	Text       string `yaml:"text" json:"text"`
	Font       string `yaml:"font" json:"font"`
}

// Template is one entry of the template catalog.
type Template struct {
	ID               string `yaml:"id" json:"id"`
	Name             string `yaml:"name" json:"name"`
	Description      string `yaml:"description" json:"description"`
	Layout           string `yaml:"layout" json:"layout"`
	Theme            Theme  `yaml:"theme" json:"theme"`
	ContactThreshold int    `yaml:"contactThreshold" json:"contactThreshold"`
}

// Policy returns the visibility policy this template renders with.
func (t Template) Policy() profile.Policy {
	return profile.Policy{ContactThreshold: max(1, t.ContactThreshold)}
}

// Catalog is the closed set of templates a profile can select.
type Catalog struct {
	Default   string     `yaml:"default" json:"default"`
	Templates []Template `yaml:"templates" json:"templates"`

	byID map[string]int
}

// ParseCatalog decodes and checks a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("render: parsing catalog: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadCatalog reads a catalog file, or returns the built-in catalog when
// path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return ParseCatalog(builtinCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("render: reading catalog: %w", err)
	}
	return ParseCatalog(data)
}

// MustBuiltinCatalog returns the embedded catalog and panics if it is broken.
func MustBuiltinCatalog() *Catalog {
	c, err := ParseCatalog(builtinCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) index() error {
	if len(c.Templates) == 0 {
		return errors.New("render: catalog has no templates")
	}
	c.byID = make(map[string]int, len(c.Templates))
	for i, t := range c.Templates {
		if t.ID == "" {
			return fmt.Errorf("render: template #%d has no id", i)
		}
		if _, dup := c.byID[t.ID]; dup {
			return fmt.Errorf("render: duplicate template id %q", t.ID)
		}
		if !knownLayouts[t.Layout] {
			return fmt.Errorf("render: template %q: unknown layout %q", t.ID, t.Layout)
		}
		c.byID[t.ID] = i
	}
	if c.Default == "" {
		c.Default = c.Templates[0].ID
	}
	if _, ok := c.byID[c.Default]; !ok {
		return fmt.Errorf("render: default template %q is not in the catalog", c.Default)
	}
	return nil
}

// Has reports whether id names a template. It satisfies profile.TemplateSet.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Lookup returns the template with the given id.
func (c *Catalog) Lookup(id string) (Template, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Template{}, false
	}
	return c.Templates[i], true
}

// Resolve returns the template for id, falling back to the default one.
// The boolean is false when the fallback was used.
func (c *Catalog) Resolve(id string) (Template, bool) {
	if t, ok := c.Lookup(id); ok {
		return t, true
	}
	t, _ := c.Lookup(c.Default)
	return t, false
}

// IDs returns every template id in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.Templates))
	for i, t := range c.Templates {
		ids[i] = t.ID
	}
	return ids
}

package config

import (
	"fmt"
	"os"

	"github.com/andybalholm/cascadia"
	yaml "gopkg.in/yaml.v3"
)

// Selectors maps each logical listing field to the CSS pattern that locates it
// inside a results page. Patterns other than Card and Pagination are matched
// inside a single card.
type Selectors struct {
	Card         string `yaml:"card"`
	Title        string `yaml:"title"`
	Price        string `yaml:"price"`
	LocationDate string `yaml:"location_date"`
	Condition    string `yaml:"condition"`
	Featured     string `yaml:"featured"`
	Delivery     string `yaml:"delivery"`
	SafetyBadge  string `yaml:"safety_badge"`
	Link         string `yaml:"link"`
	Image        string `yaml:"image"`
	Pagination   string `yaml:"pagination"`

	IDAttr    string `yaml:"id_attr"`
	LinkAttr  string `yaml:"link_attr"`
	ImageAttr string `yaml:"image_attr"`
}

// DefaultSelectors returns the patterns matching the current OLX results markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Card:         "div[data-cy='l-card']",
		Title:        "h6.css-1wxaaza",
		Price:        "p.css-13afqrm",
		LocationDate: "p.css-1mwdrlh",
		Condition:    "span.css-3lkihg",
		Featured:     "div[data-testid='adCard-featured']",
		Delivery:     "div[data-testid='card-delivery-badge']",
		SafetyBadge:  "img[alt='Safety badge']",
		Link:         "a",
		Image:        "img",
		Pagination:   "li[data-testid='pagination-list-item']",

		IDAttr:    "id",
		LinkAttr:  "href",
		ImageAttr: "src",
	}
}

// LoadSelectors reads a YAML selector file and overlays it on the defaults.
// Keys missing from the file keep their default pattern.
func LoadSelectors(path string) (Selectors, error) {
	sel := DefaultSelectors()
	if path == "" {
		return sel, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return sel, fmt.Errorf("selectors: read %q: %w", path, err)
	}
	var file Selectors
	if err := yaml.Unmarshal(b, &file); err != nil {
		return sel, fmt.Errorf("selectors: parse yaml: %w", err)
	}
	sel.overlay(file)
	if err := sel.Validate(); err != nil {
		return sel, err
	}
	return sel, nil
}

func (s *Selectors) overlay(o Selectors) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&s.Card, o.Card)
	set(&s.Title, o.Title)
	set(&s.Price, o.Price)
	set(&s.LocationDate, o.LocationDate)
	set(&s.Condition, o.Condition)
	set(&s.Featured, o.Featured)
	set(&s.Delivery, o.Delivery)
	set(&s.SafetyBadge, o.SafetyBadge)
	set(&s.Link, o.Link)
	set(&s.Image, o.Image)
	set(&s.Pagination, o.Pagination)
	set(&s.IDAttr, o.IDAttr)
	set(&s.LinkAttr, o.LinkAttr)
	set(&s.ImageAttr, o.ImageAttr)
}

// Validate compiles every pattern so a broken selector file fails at startup
// instead of silently matching nothing.
func (s Selectors) Validate() error {
	patterns := []struct {
		name, value string
	}{
		{"card", s.Card},
		{"title", s.Title},
		{"price", s.Price},
		{"location_date", s.LocationDate},
		{"condition", s.Condition},
		{"featured", s.Featured},
		{"delivery", s.Delivery},
		{"safety_badge", s.SafetyBadge},
		{"link", s.Link},
		{"image", s.Image},
		{"pagination", s.Pagination},
	}
	for _, p := range patterns {
		if p.value == "" {
			return fmt.Errorf("selectors: %s is empty", p.name)
		}
		if _, err := cascadia.Compile(p.value); err != nil {
			return fmt.Errorf("selectors: %s %q: %w", p.name, p.value, err)
		}
	}
	return nil
}

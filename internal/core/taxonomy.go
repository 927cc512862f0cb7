package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Category is one entry of the spending taxonomy with its display metadata.
type Category struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// Taxonomy is an ordered, immutable list of categories. Order matters: the
// category breakdown is emitted in taxonomy order.
type Taxonomy struct {
	categories []Category
	index      map[string]int
}

var ErrEmptyTaxonomy = errors.New("taxonomy has no categories")

// DefaultCategories is the category table shipped with the application.
func DefaultCategories() []Category {
	return []Category{
		{Key: "purchases", Name: "Compras", Icon: "shopping-bag", Color: "#5636D3"},
		{Key: "food", Name: "Alimentação", Icon: "coffee", Color: "#FF872C"},
		{Key: "salary", Name: "Salário", Icon: "dollar-sign", Color: "#12A454"},
		{Key: "car", Name: "Carro", Icon: "crosshair", Color: "#E83F5B"},
		{Key: "leisure", Name: "Lazer", Icon: "heart", Color: "#26195C"},
		{Key: "studies", Name: "Estudos", Icon: "book", Color: "#9C001A"},
	}
}

// NewTaxonomy validates and indexes the given categories.
func NewTaxonomy(categories []Category) (*Taxonomy, error) {
	if len(categories) == 0 {
		return nil, ErrEmptyTaxonomy
	}
	t := &Taxonomy{
		categories: make([]Category, 0, len(categories)),
		index:      make(map[string]int, len(categories)),
	}
	for i, c := range categories {
		c.Key = strings.TrimSpace(c.Key)
		if c.Key == "" {
			return nil, fmt.Errorf("category %d: empty key", i)
		}
		if _, dup := t.index[c.Key]; dup {
			return nil, fmt.Errorf("category %d: duplicate key %q", i, c.Key)
		}
		if strings.TrimSpace(c.Name) == "" {
			c.Name = c.Key
		}
		t.index[c.Key] = len(t.categories)
		t.categories = append(t.categories, c)
	}
	return t, nil
}

// DefaultTaxonomy returns the taxonomy built from DefaultCategories.
func DefaultTaxonomy() *Taxonomy {
	t, err := NewTaxonomy(DefaultCategories())
	if err != nil {
		panic(err)
	}
	return t
}

// LoadTaxonomyFile reads a JSON array of categories from path.
func LoadTaxonomyFile(path string) (*Taxonomy, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy file: %w", err)
	}
	var cats []Category
	if err := json.Unmarshal(b, &cats); err != nil {
		return nil, fmt.Errorf("parse taxonomy file: %w", err)
	}
	return NewTaxonomy(cats)
}

// Categories returns a copy of the categories in taxonomy order.
func (t *Taxonomy) Categories() []Category {
	return append([]Category(nil), t.categories...)
}

// Lookup finds a category by key.
func (t *Taxonomy) Lookup(key string) (Category, bool) {
	i, ok := t.index[key]
	if !ok {
		return Category{}, false
	}
	return t.categories[i], true
}

// Len returns the number of categories.
func (t *Taxonomy) Len() int {
	return len(t.categories)
}

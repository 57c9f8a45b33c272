package floor

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/appetiteclub/tableside/pkg/enums/category"
)

//go:embed menu.json
var menuFS embed.FS

// CurrencySymbol is the only currency the floor prices in.
const CurrencySymbol = "₹"

// MenuItem is a dish or drink offered on the fixed menu.
type MenuItem struct {
	ID       int    `json:"id" bson:"id"`
	Name     string `json:"name" bson:"name"`
	Price    int64  `json:"price" bson:"price"`
	Category string `json:"category" bson:"category"`
}

type menuDocument struct {
	Items []MenuItem `json:"items"`
}

// Catalog is the immutable menu loaded once at startup.
type Catalog struct {
	items map[int]MenuItem
	order []int
}

// DefaultCatalog returns the embedded menu.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(menuFS, "menu.json")
}

func LoadCatalog(fsys fs.FS, name string) (*Catalog, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(raw) == 0 {
		return nil, errors.New("menu file is empty")
	}

	var doc menuDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode menu file: %w", err)
	}
	return NewCatalog(doc.Items)
}

func NewCatalog(items []MenuItem) (*Catalog, error) {
	if len(items) == 0 {
		return nil, errors.New("menu does not contain items")
	}

	c := &Catalog{items: make(map[int]MenuItem, len(items))}
	for _, item := range items {
		if errs := ValidateMenuItem(item); len(errs) > 0 {
			return nil, fmt.Errorf("menu item %d: %s", item.ID, strings.Join(errs, ", "))
		}
		if _, dup := c.items[item.ID]; dup {
			return nil, fmt.Errorf("duplicate menu item id %d", item.ID)
		}
		c.items[item.ID] = item
		c.order = append(c.order, item.ID)
	}
	return c, nil
}

func ValidateMenuItem(item MenuItem) []string {
	var errs []string

	if item.ID <= 0 {
		errs = append(errs, "id must be positive")
	}
	if strings.TrimSpace(item.Name) == "" {
		errs = append(errs, "name is required")
	}
	if item.Price < 0 {
		errs = append(errs, "price cannot be negative")
	}
	if category.ByName(item.Category) == nil {
		errs = append(errs, "unknown category")
	}

	return errs
}

func (c *Catalog) Get(id int) (MenuItem, bool) {
	item, ok := c.items[id]
	return item, ok
}

// Items returns the menu in file order.
func (c *Catalog) Items() []MenuItem {
	result := make([]MenuItem, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.items[id])
	}
	return result
}

type MenuSection struct {
	Category string     `json:"category"`
	Label    string     `json:"label"`
	Items    []MenuItem `json:"items"`
}

// Sections groups the menu by category in display order.
func (c *Catalog) Sections() []MenuSection {
	sections := make([]MenuSection, 0, len(category.All))
	for _, cat := range category.All {
		section := MenuSection{Category: cat.Code(), Label: cat.Label(), Items: []MenuItem{}}
		for _, item := range c.Items() {
			if item.Category == cat.Code() {
				section.Items = append(section.Items, item)
			}
		}
		sections = append(sections, section)
	}
	return sections
}

// LineItem is a grouped view of repeated menu entries.
type LineItem struct {
	MenuItem `bson:",inline"`
	Quantity int `json:"quantity" bson:"quantity"`
}

func (l LineItem) Total() int64 {
	return l.Price * int64(l.Quantity)
}

// GroupItems folds repeated entries into lines ordered by menu item id.
// The first occurrence of an id provides the name and price of the line.
func GroupItems(items []MenuItem) []LineItem {
	index := make(map[int]int)
	lines := make([]LineItem, 0)
	for _, item := range items {
		if i, ok := index[item.ID]; ok {
			lines[i].Quantity++
			continue
		}
		index[item.ID] = len(lines)
		lines = append(lines, LineItem{MenuItem: item, Quantity: 1})
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].ID < lines[j].ID
	})
	return lines
}

func LinesTotal(lines []LineItem) int64 {
	var total int64
	for _, l := range lines {
		total += l.Total()
	}
	return total
}

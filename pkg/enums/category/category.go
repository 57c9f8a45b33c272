package category

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Category struct {
	Name string
}

func (c Category) Code() string {
	return c.Name
}

func (c Category) Label() string {
	return cases.Title(language.English).String(c.Name)
}

type Enum struct {
	Starters Category
	Main     Category
	Drinks   Category
	Desserts Category
}

var Categories = Enum{
	Starters: Category{Name: "starters"},
	Main:     Category{Name: "main"},
	Drinks:   Category{Name: "drinks"},
	Desserts: Category{Name: "desserts"},
}

// All keeps the menu display order.
var All = []Category{
	Categories.Starters,
	Categories.Main,
	Categories.Drinks,
	Categories.Desserts,
}

// ByName returns the category for a given name, or nil if not found
func ByName(name string) *Category {
	for _, c := range All {
		if c.Name == name {
			return &c
		}
	}
	return nil
}

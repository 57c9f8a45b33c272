package orderstatus

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Status struct {
	Name string
}

func (s Status) Code() string {
	return s.Name
}

func (s Status) Label() string {
	return cases.Title(language.English).String(s.Name)
}

// Next returns the status that follows s in the kitchen lifecycle.
// Served is terminal and reports false.
func (s Status) Next() (Status, bool) {
	for i, st := range All {
		if st.Name == s.Name && i+1 < len(All) {
			return All[i+1], true
		}
	}
	return Status{}, false
}

// CanAdvanceTo reports whether target is exactly one step ahead of s.
func (s Status) CanAdvanceTo(target Status) bool {
	next, ok := s.Next()
	return ok && next.Name == target.Name
}

type Enum struct {
	Pending   Status
	Preparing Status
	Ready     Status
	Served    Status
}

var Statuses = Enum{
	Pending:   Status{Name: "pending"},
	Preparing: Status{Name: "preparing"},
	Ready:     Status{Name: "ready"},
	Served:    Status{Name: "served"},
}

// All lists the statuses in lifecycle order.
var All = []Status{
	Statuses.Pending,
	Statuses.Preparing,
	Statuses.Ready,
	Statuses.Served,
}

// FilterAll is the pass-through kitchen filter. It is not a status.
const FilterAll = "all"

// ByName returns the status for a given name, or nil if not found
func ByName(name string) *Status {
	for _, s := range All {
		if s.Name == name {
			return &s
		}
	}
	return nil
}

package domain

import "maps"

const inactiveSuffix = " (inactive)"

// A FilterOption is one selectable value of a filter field.
type FilterOption struct {
	ID     string
	Title  string
	Active bool
}

// Label returns the display label. Inactive options stay selectable.
func (o FilterOption) Label() string {
	if o.Active {
		return o.Title
	}
	return o.Title + inactiveSuffix
}

// A FilterSet maps a product field name to the selected option value.
// An empty value means "no constraint" and is still sent to the API.
type FilterSet map[string]string

// Merge returns a copy of the set with entry applied on top of it.
func (s FilterSet) Merge(entry FilterSet) FilterSet {
	merged := make(FilterSet, len(s)+len(entry))
	maps.Copy(merged, s)
	maps.Copy(merged, entry)
	return merged
}

func (s FilterSet) Clone() FilterSet {
	return s.Merge(nil)
}

// A FilterField names one filter control: the product field it
// constrains and its display title.
type FilterField struct {
	Field string
	Title string
}

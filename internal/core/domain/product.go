package domain

import "strings"

type (
	// A Product is the catalog view-model projected from a raw API record.
	// It is never mutated after construction.
	Product struct {
		ID           string
		Title        string
		Brand        string
		SKU          string
		Category     string
		Types        []ProductType
		Active       bool
		Discontinued bool
		Piece        bool
		DateAdded    string
		ImageURL     string
		EditURL      string
	}

	ProductType struct {
		Title string
	}
)

// TypesLine returns type titles joined by comma.
func (p Product) TypesLine() string {
	titles := make([]string, len(p.Types))
	for i := range p.Types {
		titles[i] = p.Types[i].Title
	}
	return strings.Join(titles, ",")
}

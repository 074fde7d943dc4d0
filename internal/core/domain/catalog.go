package domain

import "slices"

// CatalogState is owned by the catalog root for the lifetime of a session.
type CatalogState struct {
	Items    []Product
	Count    int
	Page     int
	Filters  FilterSet
	Loading  bool
	Finished bool
}

// NewCatalogState returns the state of a catalog whose first page is about
// to be requested.
func NewCatalogState() CatalogState {
	return CatalogState{
		Page:    FirstPage,
		Loading: true,
		Filters: FilterSet{},
	}
}

// Clone returns a copy that shares nothing mutable with s.
func (s CatalogState) Clone() CatalogState {
	c := s
	c.Items = slices.Clone(s.Items)
	c.Filters = s.Filters.Clone()
	return c
}

// A ProductsQuery is a products request built from the catalog state.
// Seq orders requests issued by one catalog.
type ProductsQuery struct {
	Seq     uint64
	Kind    FetchKind
	Page    int
	Filters FilterSet
}

// A ProductsPage is a successful products response.
type ProductsPage struct {
	Products []Product
	Count    int
}

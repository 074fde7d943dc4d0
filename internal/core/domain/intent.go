package domain

// FetchKind tells how a products response is merged into the result set.
type FetchKind string

const (
	// KindPagination appends the fetched products.
	KindPagination FetchKind = "pagination"
	// KindFilter replaces the result set with the fetched products.
	KindFilter FetchKind = "filter"
)

const FirstPage = 1

// An Intent is a typed message a child control sends to the catalog root.
type Intent interface {
	Kind() FetchKind
	Page() int
	Entry() FilterSet
}

var (
	_ Intent = FilterChanged{}
	_ Intent = PageRequested{}
)

// FilterChanged is emitted by a filter control on every selection change.
// It always restarts pagination.
type FilterChanged struct {
	Field string
	Value string
}

func (FilterChanged) Kind() FetchKind { return KindFilter }

func (FilterChanged) Page() int { return FirstPage }

func (e FilterChanged) Entry() FilterSet {
	return FilterSet{e.Field: e.Value}
}

// PageRequested is emitted by the pager control.
type PageRequested struct {
	Next int
}

func (PageRequested) Kind() FetchKind { return KindPagination }

func (e PageRequested) Page() int { return e.Next }

func (PageRequested) Entry() FilterSet { return nil }

// NextPage returns the page the pager requests after page.
func NextPage(page int) int {
	return page + 1
}

package port

import (
	"context"

	"github.com/niksmo/visual-catalog/internal/core/domain"
	"github.com/niksmo/visual-catalog/internal/core/render"
)

type ProductsFetcher interface {
	FetchProducts(context.Context, domain.ProductsQuery) (domain.ProductsPage, error)
}

type OptionsFetcher interface {
	FetchOptions(ctx context.Context, field string) ([]domain.FilterOption, error)
}

type InteractionsProducer interface {
	ProduceInteraction(context.Context, domain.Interaction) error
}

type InteractionsRecorder interface {
	Record(context.Context, domain.Intent, domain.FilterSet)
}

// CatalogDriver is what inbound adapters use to drive the catalog root.
type CatalogDriver interface {
	Begin(kind domain.FetchKind, page int, entry domain.FilterSet) domain.ProductsQuery
	Fetch(context.Context, domain.ProductsQuery) (domain.ProductsPage, error)
	Apply(domain.ProductsQuery, domain.ProductsPage) bool
	Fail(domain.ProductsQuery, error)
	Dispatch(context.Context, domain.Intent) (domain.ProductsQuery, error)
	State() domain.CatalogState
}

type OptionsLoader interface {
	LoadOptions(ctx context.Context, field string) []domain.FilterOption
}

// FilterBoard holds the filter controls of a headless front.
type FilterBoard interface {
	Options(field string) ([]domain.FilterOption, error)
	Select(field, value string) error
	Controls() []render.FilterControl
}

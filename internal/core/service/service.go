package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/niksmo/visual-catalog/internal/core/domain"
	"github.com/niksmo/visual-catalog/internal/core/port"
)

var _ port.CatalogDriver = (*Catalog)(nil)

// ErrStaleResponse is returned by FetchProducts when a newer request was
// issued while this one was in flight.
var ErrStaleResponse = errors.New("stale products response")

// A Catalog is the root of the catalog view. All state mutations go
// through Begin and Apply.
type Catalog struct {
	productsFetcher port.ProductsFetcher

	mu      sync.Mutex
	state   domain.CatalogState
	lastSeq uint64
}

func NewCatalog(productsFetcher port.ProductsFetcher) *Catalog {
	return &Catalog{
		productsFetcher: productsFetcher,
		state:           domain.NewCatalogState(),
	}
}

// Mount loads the unfiltered first page.
func (c *Catalog) Mount(ctx context.Context) error {
	const op = "Catalog.Mount"

	_, err := c.FetchProducts(ctx, domain.KindPagination, domain.FirstPage, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Dispatch runs the fetch described by a control intent and returns the
// query it issued.
func (c *Catalog) Dispatch(
	ctx context.Context, intent domain.Intent,
) (domain.ProductsQuery, error) {
	return c.FetchProducts(ctx, intent.Kind(), intent.Page(), intent.Entry())
}

// FetchProducts begins a request, waits for the response and applies it.
// The issued query is returned even when the fetch fails.
func (c *Catalog) FetchProducts(
	ctx context.Context, kind domain.FetchKind, page int, entry domain.FilterSet,
) (domain.ProductsQuery, error) {
	const op = "Catalog.FetchProducts"

	q := c.Begin(kind, page, entry)

	p, err := c.Fetch(ctx, q)
	if err != nil {
		c.Fail(q, err)
		return q, fmt.Errorf("%s: %w", op, err)
	}

	if !c.Apply(q, p) {
		return q, fmt.Errorf("%s: %w", op, ErrStaleResponse)
	}
	return q, nil
}

// Begin marks the catalog as loading, moves it to page and merges entry
// into the active filters. The returned query carries a fresh sequence
// number. Nothing done here is rolled back if the request fails.
func (c *Catalog) Begin(
	kind domain.FetchKind, page int, entry domain.FilterSet,
) domain.ProductsQuery {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Loading = true
	c.state.Page = page
	c.state.Filters = c.state.Filters.Merge(entry)
	c.lastSeq++

	return domain.ProductsQuery{
		Seq:     c.lastSeq,
		Kind:    kind,
		Page:    page,
		Filters: c.state.Filters.Clone(),
	}
}

// Fetch performs the request only; it does not touch the state.
func (c *Catalog) Fetch(
	ctx context.Context, q domain.ProductsQuery,
) (domain.ProductsPage, error) {
	const op = "Catalog.Fetch"

	if err := ctx.Err(); err != nil {
		return domain.ProductsPage{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := c.productsFetcher.FetchProducts(ctx, q)
	if err != nil {
		return domain.ProductsPage{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// Apply merges a successful response into the state. Responses to any
// request other than the latest one are dropped and Apply returns false.
func (c *Catalog) Apply(q domain.ProductsQuery, p domain.ProductsPage) bool {
	const op = "Catalog.Apply"
	log := slog.With("op", op)

	c.mu.Lock()
	defer c.mu.Unlock()

	if q.Seq != c.lastSeq {
		log.Warn(
			"dropped stale response",
			"seq", q.Seq, "lastSeq", c.lastSeq, "kind", q.Kind, "page", q.Page,
		)
		return false
	}

	switch q.Kind {
	case domain.KindPagination:
		c.state.Items = append(c.state.Items, p.Products...)
	case domain.KindFilter:
		c.state.Items = append([]domain.Product(nil), p.Products...)
	}

	c.state.Count = p.Count
	c.state.Loading = false
	c.state.Finished = len(c.state.Items) == c.state.Count

	log.Debug(
		"applied products",
		"kind", q.Kind, "page", q.Page,
		"nProducts", len(p.Products), "count", p.Count,
	)
	return true
}

// Fail records a failed request. The catalog stays in the loading state.
func (c *Catalog) Fail(q domain.ProductsQuery, err error) {
	const op = "Catalog.Fail"
	log := slog.With("op", op)

	log.Error(
		"failed to fetch products",
		"seq", q.Seq, "kind", q.Kind, "page", q.Page, "err", err,
	)
}

// State returns a copy of the current catalog state.
func (c *Catalog) State() domain.CatalogState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

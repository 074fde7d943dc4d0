package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/niksmo/visual-catalog/internal/core/domain"
	"github.com/niksmo/visual-catalog/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type MockProductsFetcher struct {
	mock.Mock
}

func (f *MockProductsFetcher) FetchProducts(
	ctx context.Context, q domain.ProductsQuery,
) (domain.ProductsPage, error) {
	args := f.Called(ctx, q)
	return args.Get(0).(domain.ProductsPage), args.Error(1)
}

func product(id string) domain.Product {
	return domain.Product{ID: id, Title: "title-" + id}
}

func products(ids ...string) []domain.Product {
	ps := make([]domain.Product, len(ids))
	for i, id := range ids {
		ps[i] = product(id)
	}
	return ps
}

func queryMatcher(kind domain.FetchKind, page int, filters domain.FilterSet) any {
	return mock.MatchedBy(func(q domain.ProductsQuery) bool {
		return q.Kind == kind && q.Page == page &&
			assert.ObjectsAreEqual(filters, q.Filters)
	})
}

func dispatch(t *testing.T, c *service.Catalog, intent domain.Intent) {
	t.Helper()
	_, err := c.Dispatch(t.Context(), intent)
	require.NoError(t, err)
}

func TestCatalogMount(t *testing.T) {
	fetcher := new(MockProductsFetcher)
	fetcher.On(
		"FetchProducts", mock.Anything,
		queryMatcher(domain.KindPagination, 1, domain.FilterSet{}),
	).Return(domain.ProductsPage{Products: products("p1", "p2"), Count: 5}, nil)

	c := service.NewCatalog(fetcher)
	require.NoError(t, c.Mount(t.Context()))

	s := c.State()
	assert.Equal(t, products("p1", "p2"), s.Items)
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 1, s.Page)
	assert.False(t, s.Loading)
	assert.False(t, s.Finished)
	fetcher.AssertExpectations(t)
}

func TestCatalogLoadMore(t *testing.T) {
	fetcher := new(MockProductsFetcher)
	fetcher.On(
		"FetchProducts", mock.Anything,
		queryMatcher(domain.KindPagination, 1, domain.FilterSet{}),
	).Return(domain.ProductsPage{Products: products("p1", "p2"), Count: 5}, nil)
	fetcher.On(
		"FetchProducts", mock.Anything,
		queryMatcher(domain.KindPagination, 2, domain.FilterSet{}),
	).Return(domain.ProductsPage{Products: products("p3", "p4", "p5"), Count: 5}, nil)

	c := service.NewCatalog(fetcher)
	require.NoError(t, c.Mount(t.Context()))

	next := domain.PageRequested{Next: domain.NextPage(c.State().Page)}
	dispatch(t, c, next)

	s := c.State()
	assert.Equal(t, products("p1", "p2", "p3", "p4", "p5"), s.Items)
	assert.Equal(t, 2, s.Page)
	assert.True(t, s.Finished)
	assert.False(t, s.Loading)
}

func TestCatalogFilterReplacesAndResetsPage(t *testing.T) {
	fetcher := new(MockProductsFetcher)
	fetcher.On(
		"FetchProducts", mock.Anything,
		mock.MatchedBy(func(q domain.ProductsQuery) bool {
			return q.Kind == domain.KindPagination
		}),
	).Return(domain.ProductsPage{Products: products("a", "b"), Count: 9}, nil)
	fetcher.On(
		"FetchProducts", mock.Anything,
		queryMatcher(domain.KindFilter, 1, domain.FilterSet{"brand": "Acme"}),
	).Return(domain.ProductsPage{Products: products("acme1"), Count: 1}, nil)

	c := service.NewCatalog(fetcher)
	require.NoError(t, c.Mount(t.Context()))
	dispatch(t, c, domain.PageRequested{Next: 2})
	dispatch(t, c, domain.PageRequested{Next: 3})
	require.Equal(t, 3, c.State().Page)
	require.Len(t, c.State().Items, 6)

	_, err := c.Dispatch(t.Context(), domain.FilterChanged{Field: "brand", Value: "Acme"})
	require.NoError(t, err)

	s := c.State()
	assert.Equal(t, products("acme1"), s.Items)
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, domain.FilterSet{"brand": "Acme"}, s.Filters)
	assert.True(t, s.Finished)
}

func TestCatalogFiltersLaterOverwriteEarlier(t *testing.T) {
	fetcher := new(MockProductsFetcher)
	fetcher.On("FetchProducts", mock.Anything, mock.Anything).
		Return(domain.ProductsPage{}, nil)

	c := service.NewCatalog(fetcher)

	events := []domain.FilterChanged{
		{Field: "brand", Value: "Acme"},
		{Field: "category", Value: "Tools"},
		{Field: "brand", Value: "Globex"},
		{Field: "active", Value: "1"},
		{Field: "category", Value: "Garden"},
	}
	for _, e := range events {
		dispatch(t, c, e)
	}

	want := domain.FilterSet{"brand": "Globex", "category": "Garden", "active": "1"}
	assert.Equal(t, want, c.State().Filters)

	last := fetcher.Calls[len(fetcher.Calls)-1].Arguments.Get(1).(domain.ProductsQuery)
	assert.Equal(t, want, last.Filters)
	assert.Equal(t, 1, last.Page)
}

func TestCatalogEmptyValueClearsConstraint(t *testing.T) {
	fetcher := new(MockProductsFetcher)
	fetcher.On("FetchProducts", mock.Anything, mock.Anything).
		Return(domain.ProductsPage{}, nil)

	c := service.NewCatalog(fetcher)
	dispatch(t, c, domain.FilterChanged{Field: "brand", Value: "Acme"})
	dispatch(t, c, domain.FilterChanged{Field: "brand", Value: ""})

	assert.Equal(t, domain.FilterSet{"brand": ""}, c.State().Filters)
}

func TestCatalogZeroCountIsFinished(t *testing.T) {
	fetcher := new(MockProductsFetcher)
	fetcher.On("FetchProducts", mock.Anything, mock.Anything).
		Return(domain.ProductsPage{Count: 0}, nil)

	c := service.NewCatalog(fetcher)
	require.NoError(t, c.Mount(t.Context()))

	s := c.State()
	assert.Empty(t, s.Items)
	assert.True(t, s.Finished)
}

func TestCatalogFailureKeepsLoading(t *testing.T) {
	fetchErr := errors.New("connection refused")
	fetcher := new(MockProductsFetcher)
	fetcher.On(
		"FetchProducts", mock.Anything,
		queryMatcher(domain.KindPagination, 1, domain.FilterSet{}),
	).Return(domain.ProductsPage{Products: products("p1"), Count: 4}, nil)
	fetcher.On(
		"FetchProducts", mock.Anything,
		queryMatcher(domain.KindFilter, 1, domain.FilterSet{"brand": "Acme"}),
	).Return(domain.ProductsPage{}, fetchErr)

	c := service.NewCatalog(fetcher)
	require.NoError(t, c.Mount(t.Context()))

	_, err := c.Dispatch(t.Context(), domain.FilterChanged{Field: "brand", Value: "Acme"})
	require.Error(t, err)
	assert.ErrorIs(t, err, fetchErr)

	s := c.State()
	assert.True(t, s.Loading)
	assert.Equal(t, products("p1"), s.Items)
	assert.Equal(t, domain.FilterSet{"brand": "Acme"}, s.Filters)
	assert.Equal(t, 1, s.Page)
}

func TestCatalogDispatchReturnsIssuedQuery(t *testing.T) {
	fetchErr := errors.New("connection refused")
	fetcher := new(MockProductsFetcher)
	fetcher.On(
		"FetchProducts", mock.Anything,
		queryMatcher(domain.KindFilter, 1, domain.FilterSet{"brand": "Acme"}),
	).Return(domain.ProductsPage{Products: products("acme1"), Count: 1}, nil)
	fetcher.On(
		"FetchProducts", mock.Anything,
		queryMatcher(domain.KindFilter, 1, domain.FilterSet{"brand": "Acme", "category": "Tools"}),
	).Return(domain.ProductsPage{}, fetchErr)

	c := service.NewCatalog(fetcher)

	q, err := c.Dispatch(t.Context(), domain.FilterChanged{Field: "brand", Value: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, domain.KindFilter, q.Kind)
	assert.Equal(t, domain.FilterSet{"brand": "Acme"}, q.Filters)

	q, err = c.Dispatch(t.Context(), domain.FilterChanged{Field: "category", Value: "Tools"})
	require.ErrorIs(t, err, fetchErr)
	assert.Equal(t, domain.FilterSet{"brand": "Acme", "category": "Tools"}, q.Filters)
	assert.Equal(t, uint64(2), q.Seq)
}

func TestCatalogCanceledContext(t *testing.T) {
	fetcher := new(MockProductsFetcher)
	c := service.NewCatalog(fetcher)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := c.Mount(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, c.State().Loading)
	fetcher.AssertNotCalled(t, "FetchProducts", mock.Anything, mock.Anything)
}

func TestCatalogDropsStaleResponse(t *testing.T) {
	c := service.NewCatalog(new(MockProductsFetcher))

	q1 := c.Begin(domain.KindPagination, 1, nil)
	require.True(t, c.Apply(q1, domain.ProductsPage{Products: products("p1"), Count: 3}))

	pageQ := c.Begin(domain.KindPagination, 2, nil)
	filterQ := c.Begin(domain.KindFilter, 1, domain.FilterSet{"brand": "Acme"})
	assert.Greater(t, filterQ.Seq, pageQ.Seq)

	require.True(t, c.Apply(filterQ, domain.ProductsPage{Products: products("acme1"), Count: 1}))
	assert.False(t, c.Apply(pageQ, domain.ProductsPage{Products: products("p2"), Count: 3}))

	s := c.State()
	assert.Equal(t, products("acme1"), s.Items)
	assert.Equal(t, 1, s.Count)
	assert.True(t, s.Finished)
}

func TestCatalogStaleResponseKeepsLoading(t *testing.T) {
	c := service.NewCatalog(new(MockProductsFetcher))

	first := c.Begin(domain.KindPagination, 1, nil)
	c.Begin(domain.KindFilter, 1, domain.FilterSet{"category": "Tools"})

	assert.False(t, c.Apply(first, domain.ProductsPage{Products: products("p1"), Count: 1}))
	assert.True(t, c.State().Loading)
	assert.Empty(t, c.State().Items)
}

func TestCatalogStateIsACopy(t *testing.T) {
	c := service.NewCatalog(new(MockProductsFetcher))
	q := c.Begin(domain.KindFilter, 1, domain.FilterSet{"brand": "Acme"})
	c.Apply(q, domain.ProductsPage{Products: products("p1"), Count: 1})

	s := c.State()
	s.Items[0].Title = "changed"
	s.Filters["brand"] = "changed"

	assert.Equal(t, "title-p1", c.State().Items[0].Title)
	assert.Equal(t, "Acme", c.State().Filters["brand"])
}

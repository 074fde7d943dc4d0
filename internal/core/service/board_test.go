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
)

var boardFields = []domain.FilterField{
	{Field: "brand", Title: "Brand"},
	{Field: "category", Title: "Category"},
}

func newLoadedBoard(t *testing.T) *service.FilterBoard {
	t.Helper()

	fetcher := new(MockOptionsFetcher)
	fetcher.On("FetchOptions", mock.Anything, "brand").Return(
		[]domain.FilterOption{
			{ID: "1", Title: "Acme", Active: true},
			{ID: "2", Title: "Globex"},
		}, nil,
	)
	fetcher.On("FetchOptions", mock.Anything, "category").
		Return(nil, errors.New("unsuccessful response"))

	board := service.NewFilterBoard(service.NewFilters(fetcher), boardFields)
	require.NoError(t, board.Load(t.Context()))
	fetcher.AssertExpectations(t)
	return board
}

func TestFilterBoardLoad(t *testing.T) {
	board := newLoadedBoard(t)

	controls := board.Controls()
	require.Len(t, controls, 2)
	assert.Equal(t, "brand", controls[0].Field)
	assert.Equal(t, "Brand", controls[0].Title)
	assert.Len(t, controls[0].Options, 2)
	assert.Equal(t, "category", controls[1].Field)
	assert.Empty(t, controls[1].Options)
}

func TestFilterBoardLoadCanceled(t *testing.T) {
	fetcher := new(MockOptionsFetcher)
	board := service.NewFilterBoard(service.NewFilters(fetcher), boardFields)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := board.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	fetcher.AssertNotCalled(t, "FetchOptions", mock.Anything, mock.Anything)
}

func TestFilterBoardOptions(t *testing.T) {
	board := newLoadedBoard(t)

	options, err := board.Options("brand")
	require.NoError(t, err)
	assert.Equal(t, "Globex (inactive)", options[1].Label())

	_, err = board.Options("color")
	assert.ErrorIs(t, err, service.ErrUnknownField)
}

func TestFilterBoardSelect(t *testing.T) {
	board := newLoadedBoard(t)

	require.NoError(t, board.Select("brand", "2"))
	assert.Equal(t, "2", board.Controls()[0].Selected)

	require.NoError(t, board.Select("brand", ""))
	assert.Empty(t, board.Controls()[0].Selected)

	assert.ErrorIs(t, board.Select("brand", "9"), service.ErrUnknownOption)
	assert.ErrorIs(t, board.Select("color", "1"), service.ErrUnknownField)
	assert.ErrorIs(t, board.Select("category", "1"), service.ErrUnknownOption)
}

func TestFilterBoardControlsIsACopy(t *testing.T) {
	board := newLoadedBoard(t)

	controls := board.Controls()
	controls[0].Selected = "1"
	controls[0].Options[0].Title = "changed"

	fresh := board.Controls()
	assert.Empty(t, fresh[0].Selected)
	assert.Equal(t, "Acme", fresh[0].Options[0].Title)
}

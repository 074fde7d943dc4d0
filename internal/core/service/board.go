package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/niksmo/visual-catalog/internal/core/domain"
	"github.com/niksmo/visual-catalog/internal/core/port"
	"github.com/niksmo/visual-catalog/internal/core/render"
)

var _ port.FilterBoard = (*FilterBoard)(nil)

var (
	ErrUnknownField  = errors.New("unknown filter field")
	ErrUnknownOption = errors.New("unknown filter option")
)

// FilterBoard keeps the options and selected values of every filter
// control when no UI toolkit holds them.
type FilterBoard struct {
	loader port.OptionsLoader

	mu       sync.RWMutex
	controls []render.FilterControl
}

func NewFilterBoard(
	loader port.OptionsLoader, fields []domain.FilterField,
) *FilterBoard {
	controls := make([]render.FilterControl, len(fields))
	for i, f := range fields {
		controls[i] = render.FilterControl{Field: f.Field, Title: f.Title}
	}
	return &FilterBoard{loader: loader, controls: controls}
}

// Load fetches the options of all controls concurrently. Controls whose
// options fail to load stay empty.
func (b *FilterBoard) Load(ctx context.Context) error {
	const op = "FilterBoard.Load"
	log := slog.With("op", op)

	b.mu.RLock()
	fields := make([]string, len(b.controls))
	for i, c := range b.controls {
		fields[i] = c.Field
	}
	b.mu.RUnlock()

	loaded := make([][]domain.FilterOption, len(fields))
	g, gCtx := errgroup.WithContext(ctx)
	for i, field := range fields {
		g.Go(func() error {
			loaded[i] = b.loader.LoadOptions(gCtx, field)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	b.mu.Lock()
	for i := range b.controls {
		b.controls[i].Options = loaded[i]
	}
	b.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("filter options loaded", "nControls", len(fields))
	return nil
}

// Options returns the options of field.
func (b *FilterBoard) Options(field string) ([]domain.FilterOption, error) {
	const op = "FilterBoard.Options"

	b.mu.RLock()
	defer b.mu.RUnlock()

	i := b.index(field)
	if i < 0 {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownField, field)
	}
	return slices.Clone(b.controls[i].Options), nil
}

// Select sets the selected value of field. The empty value is always
// accepted and clears the selection.
func (b *FilterBoard) Select(field, value string) error {
	const op = "FilterBoard.Select"

	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.index(field)
	if i < 0 {
		return fmt.Errorf("%s: %w: %q", op, ErrUnknownField, field)
	}

	if value != "" {
		known := slices.ContainsFunc(
			b.controls[i].Options,
			func(o domain.FilterOption) bool { return o.ID == value },
		)
		if !known {
			return fmt.Errorf("%s: %w: %q", op, ErrUnknownOption, value)
		}
	}

	b.controls[i].Selected = value
	return nil
}

// Controls returns a copy of the controls in their configured order.
func (b *FilterBoard) Controls() []render.FilterControl {
	b.mu.RLock()
	defer b.mu.RUnlock()

	controls := make([]render.FilterControl, len(b.controls))
	for i, c := range b.controls {
		c.Options = slices.Clone(c.Options)
		controls[i] = c
	}
	return controls
}

func (b *FilterBoard) index(field string) int {
	return slices.IndexFunc(
		b.controls,
		func(c render.FilterControl) bool { return c.Field == field },
	)
}

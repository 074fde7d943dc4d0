package service

import (
	"context"
	"log/slog"

	"github.com/niksmo/visual-catalog/internal/core/domain"
	"github.com/niksmo/visual-catalog/internal/core/port"
)

var _ port.OptionsLoader = (*Filters)(nil)

// Filters loads the selectable options of filter controls.
type Filters struct {
	optionsFetcher port.OptionsFetcher
}

func NewFilters(optionsFetcher port.OptionsFetcher) Filters {
	return Filters{optionsFetcher}
}

// LoadOptions returns the options of field. Any failure is logged and
// yields no options; it is never retried.
func (f Filters) LoadOptions(
	ctx context.Context, field string,
) []domain.FilterOption {
	const op = "Filters.LoadOptions"
	log := slog.With("op", op, "field", field)

	if err := ctx.Err(); err != nil {
		log.Warn("context is done", "err", err)
		return nil
	}

	options, err := f.optionsFetcher.FetchOptions(ctx, field)
	if err != nil {
		log.Error("failed to fetch filter options", "err", err)
		return nil
	}

	log.Debug("loaded", "nOptions", len(options))
	return options
}

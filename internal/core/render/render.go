// Package render turns the catalog state into a description of what the
// catalog view and its child controls show. It knows nothing about the
// UI toolkit drawing it.
package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/niksmo/visual-catalog/internal/core/domain"
)

const (
	LabelLoading  = "Loading..."
	LabelLoadMore = "Load More"
	EmptyOption   = "--"
)

var printer = message.NewPrinter(language.English)

type (
	View struct {
		Filters    []FilterProps `json:"filters"`
		CountLabel string        `json:"countLabel"`
		Products   []ProductCard `json:"products"`
		Pager      PagerProps    `json:"pager"`
	}

	FilterProps struct {
		Field    string        `json:"field"`
		Title    string        `json:"title"`
		Options  []OptionProps `json:"options"`
		Selected string        `json:"selected"`
	}

	OptionProps struct {
		Value string `json:"value"`
		Label string `json:"label"`
	}

	ProductCard struct {
		ID           string `json:"id"`
		Title        string `json:"title"`
		Brand        string `json:"brand"`
		SKU          string `json:"sku"`
		Category     string `json:"category"`
		Types        string `json:"types"`
		Active       bool   `json:"active"`
		Discontinued bool   `json:"discontinued"`
		Piece        bool   `json:"piece"`
		Added        string `json:"added"`
		ImageURL     string `json:"imageUrl"`
		EditURL      string `json:"editUrl"`
	}

	PagerProps struct {
		NextPage int    `json:"nextPage"`
		Label    string `json:"label"`
		Disabled bool   `json:"disabled"`
		Hidden   bool   `json:"hidden"`
	}
)

// A FilterControl is the local state of one filter control.
type FilterControl struct {
	Field    string
	Title    string
	Options  []domain.FilterOption
	Selected string
}

// Render describes the catalog view for state and the given filter controls.
func Render(state domain.CatalogState, controls []FilterControl) View {
	return View{
		Filters:    Filters(controls),
		CountLabel: CountLabel(state.Count),
		Products:   Products(state.Items),
		Pager:      Pager(state),
	}
}

func Filters(controls []FilterControl) []FilterProps {
	props := make([]FilterProps, len(controls))
	for i, c := range controls {
		props[i] = Filter(c)
	}
	return props
}

// Filter describes one filter control. The first option is always the
// empty "no constraint" entry.
func Filter(c FilterControl) FilterProps {
	options := make([]OptionProps, 0, len(c.Options)+1)
	options = append(options, OptionProps{Value: "", Label: EmptyOption})
	for _, o := range c.Options {
		options = append(options, OptionProps{Value: o.ID, Label: o.Label()})
	}
	return FilterProps{
		Field:    c.Field,
		Title:    c.Title,
		Options:  options,
		Selected: c.Selected,
	}
}

func CountLabel(count int) string {
	return printer.Sprintf("%d Results", count)
}

func Products(ps []domain.Product) []ProductCard {
	cards := make([]ProductCard, len(ps))
	for i, p := range ps {
		cards[i] = ProductCard{
			ID:           p.ID,
			Title:        p.Title,
			Brand:        p.Brand,
			SKU:          p.SKU,
			Category:     p.Category,
			Types:        p.TypesLine(),
			Active:       p.Active,
			Discontinued: p.Discontinued,
			Piece:        p.Piece,
			Added:        "Added: " + p.DateAdded,
			ImageURL:     p.ImageURL,
			EditURL:      p.EditURL,
		}
	}
	return cards
}

func Pager(state domain.CatalogState) PagerProps {
	label := LabelLoadMore
	if state.Loading {
		label = LabelLoading
	}
	return PagerProps{
		NextPage: domain.NextPage(state.Page),
		Label:    label,
		Disabled: state.Loading,
		Hidden:   state.Finished,
	}
}

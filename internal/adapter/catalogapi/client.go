package catalogapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/niksmo/visual-catalog/internal/core/domain"
	"github.com/niksmo/visual-catalog/internal/core/port"
)

var (
	_ port.ProductsFetcher = (*Client)(nil)
	_ port.OptionsFetcher  = (*Client)(nil)
)

var (
	ErrUnsuccessful     = errors.New("unsuccessful response status")
	ErrUnexpectedStatus = errors.New("unexpected http status")
	ErrNoOptionsURL     = errors.New("no options url for field")
)

type ClientOpt func(*clientOpts) error

type clientOpts struct {
	httpClient   *http.Client
	productsURL  *url.URL
	optionsURL   *url.URL
	fieldOptions map[string]*url.URL
	timeout      time.Duration
}

func ProductsURLOpt(rawURL string) ClientOpt {
	return func(o *clientOpts) error {
		u, err := parseURL(rawURL)
		if err != nil {
			return fmt.Errorf("products url: %w", err)
		}
		o.productsURL = u
		return nil
	}
}

func OptionsURLOpt(rawURL string) ClientOpt {
	return func(o *clientOpts) error {
		u, err := parseURL(rawURL)
		if err != nil {
			return fmt.Errorf("options url: %w", err)
		}
		o.optionsURL = u
		return nil
	}
}

// FieldOptionsURLOpt overrides the options url of a single filter field.
func FieldOptionsURLOpt(field, rawURL string) ClientOpt {
	return func(o *clientOpts) error {
		u, err := parseURL(rawURL)
		if err != nil {
			return fmt.Errorf("%s options url: %w", field, err)
		}
		if o.fieldOptions == nil {
			o.fieldOptions = make(map[string]*url.URL)
		}
		o.fieldOptions[field] = u
		return nil
	}
}

func HTTPClientOpt(c *http.Client) ClientOpt {
	return func(o *clientOpts) error {
		if c == nil {
			return errors.New("http client is nil")
		}
		o.httpClient = c
		return nil
	}
}

// TimeoutOpt bounds every request. Zero means no timeout.
func TimeoutOpt(d time.Duration) ClientOpt {
	return func(o *clientOpts) error {
		if d < 0 {
			return errors.New("negative timeout")
		}
		o.timeout = d
		return nil
	}
}

func parseURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("absolute url required: %q", rawURL)
	}
	return u, nil
}

// A Client talks to the remote product and filter options endpoints.
type Client struct {
	httpClient   *http.Client
	productsURL  *url.URL
	optionsURL   *url.URL
	fieldOptions map[string]*url.URL
	timeout      time.Duration
}

func NewClient(opts ...ClientOpt) (Client, error) {
	const op = "NewClient"

	options := clientOpts{httpClient: http.DefaultClient}
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return Client{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	if options.productsURL == nil {
		return Client{}, fmt.Errorf("%s: products url is required", op)
	}

	return Client{
		httpClient:   options.httpClient,
		productsURL:  options.productsURL,
		optionsURL:   options.optionsURL,
		fieldOptions: options.fieldOptions,
		timeout:      options.timeout,
	}, nil
}

func (c Client) FetchOptions(
	ctx context.Context, field string,
) ([]domain.FilterOption, error) {
	const op = "Client.FetchOptions"

	u := c.optionsURL
	if fu, ok := c.fieldOptions[field]; ok {
		u = fu
	}
	if u == nil {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrNoOptionsURL, field)
	}

	var res optionsResponse
	if err := c.getJSON(ctx, u.String(), &res); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !res.Status {
		return nil, fmt.Errorf("%s: %w", op, ErrUnsuccessful)
	}

	return c.optionsToDomain(res.Options), nil
}

func (c Client) FetchProducts(
	ctx context.Context, q domain.ProductsQuery,
) (domain.ProductsPage, error) {
	const op = "Client.FetchProducts"

	reqURL, err := c.productsRequestURL(q)
	if err != nil {
		return domain.ProductsPage{}, fmt.Errorf("%s: %w", op, err)
	}

	var res productsResponse
	if err := c.getJSON(ctx, reqURL, &res); err != nil {
		return domain.ProductsPage{}, fmt.Errorf("%s: %w", op, err)
	}

	if !res.Status {
		return domain.ProductsPage{}, fmt.Errorf("%s: %w", op, ErrUnsuccessful)
	}

	return domain.ProductsPage{
		Products: c.productsToDomain(res.Products),
		Count:    res.Count,
	}, nil
}

func (c Client) productsRequestURL(q domain.ProductsQuery) (string, error) {
	filters := q.Filters
	if filters == nil {
		filters = domain.FilterSet{}
	}

	filtersJSON, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}

	u := *c.productsURL
	params := u.Query()
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("filters", string(filtersJSON))
	u.RawQuery = params.Encode()
	return u.String(), nil
}

func (c Client) getJSON(ctx context.Context, rawURL string, v any) error {
	log := slog.With("op", "Client.getJSON", "url", rawURL)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			log.Error("failed to close response body", "err", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}

	log.Debug("fetched")
	return nil
}

func (Client) optionsToDomain(vs []option) []domain.FilterOption {
	options := make([]domain.FilterOption, len(vs))
	for i, v := range vs {
		options[i] = domain.FilterOption{
			ID:     string(v.ID),
			Title:  v.Title,
			Active: bool(v.Active),
		}
	}
	return options
}

func (Client) productsToDomain(vs []rawProduct) []domain.Product {
	ps := make([]domain.Product, len(vs))
	for i, v := range vs {
		p := domain.Product{
			ID:           string(v.ID),
			Title:        v.Title,
			Brand:        v.Brand,
			SKU:          v.SKU,
			Category:     v.Category,
			Active:       bool(v.Active),
			Discontinued: bool(v.Discontinued),
			Piece:        bool(v.Piece),
			DateAdded:    v.DateAddedFull,
			ImageURL:     v.Image.URL,
			EditURL:      v.EditURL,
		}

		p.Types = make([]domain.ProductType, len(v.Types))
		for j := range v.Types {
			p.Types[j].Title = v.Types[j].Title
		}
		ps[i] = p
	}
	return ps
}

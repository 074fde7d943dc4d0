package catalogapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type (
	optionsResponse struct {
		Status  flag     `json:"status"`
		Options []option `json:"options"`
	}

	option struct {
		ID     flexString `json:"id"`
		Title  string     `json:"title"`
		Active flag       `json:"active"`
	}
)

type (
	productsResponse struct {
		Status   flag         `json:"status"`
		Products []rawProduct `json:"products"`
		Count    int          `json:"count"`
	}

	rawProduct struct {
		ID            flexString       `json:"id"`
		Title         string           `json:"title"`
		Brand         string           `json:"brand"`
		SKU           string           `json:"sku"`
		Category      string           `json:"category"`
		Types         []rawProductType `json:"types"`
		Active        flag             `json:"active"`
		Discontinued  flag             `json:"discontinued"`
		Piece         flag             `json:"piece"`
		DateAddedFull string           `json:"dateAddedFull"`
		Image         rawImage         `json:"image"`
		EditURL       string           `json:"editUrl"`
	}

	rawProductType struct {
		Title string `json:"title"`
	}

	rawImage struct {
		URL string `json:"url"`
	}
)

// A flag is a boolean the API may send as true/false, 0/1 or "0"/"1".
type flag bool

func (f *flag) UnmarshalJSON(data []byte) error {
	const op = "flag.UnmarshalJSON"

	s := string(bytes.Trim(data, `"`))
	switch s {
	case "true", "1":
		*f = true
	case "false", "0", "", "null":
		*f = false
	default:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%s: invalid flag %s", op, data)
		}
		*f = n != 0
	}
	return nil
}

// A flexString accepts a JSON string or number.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	const op = "flexString.UnmarshalJSON"

	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		*s = flexString(v)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	*s = flexString(n.String())
	return nil
}

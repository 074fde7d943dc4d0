package httphandler

type FilterRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type PageRequest struct {
	Page int `json:"page"`
}

type Option struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
	Label  string `json:"label"`
}

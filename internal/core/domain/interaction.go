package domain

import "time"

// An Interaction records one user intent for analytics.
type Interaction struct {
	ID         string
	SessionID  string
	Kind       FetchKind
	Page       int
	Field      string
	Value      string
	Filters    FilterSet
	OccurredAt time.Time
}

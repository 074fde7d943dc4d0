package schema

import (
	"time"

	"github.com/hamba/avro/v2"
)

const InteractionSchemaTextV1 = `{
	"type": "record",
	"namespace": "catalog",
	"name": "interaction",
	"fields" : [
		{"name": "id", "type": "string"},
		{"name": "session_id", "type": "string"},
		{"name": "kind", "type": "string"},
		{"name": "page", "type": "long"},
		{"name": "field", "type": "string"},
		{"name": "value", "type": "string"},
		{"name": "filters", "type": {"type": "map", "values": "string"}},
		{"name": "occurred_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type InteractionV1 struct {
	ID         string            `avro:"id"`
	SessionID  string            `avro:"session_id"`
	Kind       string            `avro:"kind"`
	Page       int               `avro:"page"`
	Field      string            `avro:"field"`
	Value      string            `avro:"value"`
	Filters    map[string]string `avro:"filters"`
	OccurredAt time.Time         `avro:"occurred_at"`
}

// InteractionV1Avro panics if the schema text is invalid.
func InteractionV1Avro() avro.Schema {
	return avro.MustParse(InteractionSchemaTextV1)
}

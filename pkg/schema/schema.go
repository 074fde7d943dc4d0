package schema

import (
	"context"
	"fmt"

	"github.com/hamba/avro/v2"
	"github.com/twmb/franz-go/pkg/sr"
)

func AvroEncodeFn(s avro.Schema) func(v any) ([]byte, error) {
	return func(v any) ([]byte, error) {
		return avro.Marshal(s, v)
	}
}

func AvroDecodeFn(s avro.Schema) func([]byte, any) error {
	return func(data []byte, v any) error {
		return avro.Unmarshal(s, data, v)
	}
}

// SchemaIdentifier returns the registry id of a schema under subject.
type SchemaIdentifier interface {
	DetermineID(ctx context.Context, subject, avroSchemaText string) (int, error)
}

var _ SchemaIdentifier = RegistryIdentifier{}

// RegistryIdentifier registers schemas in a schema registry. Registering
// an already known schema returns its existing id.
type RegistryIdentifier struct {
	client *sr.Client
}

// NewRegistryIdentifier connects to the registry at urls. extra is
// appended to the client options, for example [sr.DialTLSConfig].
func NewRegistryIdentifier(
	urls []string, extra ...sr.ClientOpt,
) (RegistryIdentifier, error) {
	const op = "NewRegistryIdentifier"

	client, err := sr.NewClient(append([]sr.ClientOpt{sr.URLs(urls...)}, extra...)...)
	if err != nil {
		return RegistryIdentifier{}, fmt.Errorf("%s: %w", op, err)
	}
	return RegistryIdentifier{client}, nil
}

func (ri RegistryIdentifier) DetermineID(
	ctx context.Context, subject, avroSchemaText string,
) (int, error) {
	const op = "RegistryIdentifier.DetermineID"

	ss, err := ri.client.CreateSchema(ctx, subject, sr.Schema{
		Schema: avroSchemaText,
		Type:   sr.TypeAvro,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return ss.ID, nil
}

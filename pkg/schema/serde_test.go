package schema_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/niksmo/visual-catalog/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSchemaIdentifier struct {
	mock.Mock
}

func (c *MockSchemaIdentifier) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (id int, err error) {
	args := c.Called(ctx, subject, avroSchemaText)
	return args.Int(0), args.Error(1)
}

func TestSerdeInteractionV1(t *testing.T) {
	const subject = "catalog-interactions-value"

	t.Run("NoOpts", func(t *testing.T) {
		_, err := schema.NewSerdeInteractionV1(t.Context())
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("OneOpt", func(t *testing.T) {
		_, err := schema.NewSerdeInteractionV1(
			t.Context(),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("InvalidOpt", func(t *testing.T) {
		_, err := schema.NewSerdeInteractionV1(
			t.Context(),
			schema.SubjectOpt(""),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		require.Error(t, err)
	})

	t.Run("IdentifierError", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		wantErr := errors.New("registry is unavailable")
		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.InteractionSchemaTextV1,
		).Return(0, wantErr)

		_, err := schema.NewSerdeInteractionV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("EncodeDecode", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.InteractionSchemaTextV1,
		).Return(7, nil)

		serde, err := schema.NewSerdeInteractionV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.NoError(t, err)
		schemaIdentifier.AssertExpectations(t)

		value1 := schema.InteractionV1{
			ID:         "testID",
			SessionID:  "testSessionID",
			Kind:       "filter",
			Page:       1,
			Field:      "brand",
			Value:      "1",
			Filters:    map[string]string{"brand": "1"},
			OccurredAt: time.UnixMilli(1772368215250).UTC(),
		}

		encoded, err := serde.Encode(value1)
		require.NoError(t, err)
		require.Greater(t, len(encoded), 5)
		assert.Equal(t, byte(0), encoded[0], "magic byte")
		assert.Equal(t, []byte{0, 0, 0, 7}, encoded[1:5], "schema id")

		var value2 schema.InteractionV1
		require.NoError(t, serde.Decode(encoded, &value2))
		assert.True(t, value1.OccurredAt.Equal(value2.OccurredAt))
		value2.OccurredAt = value1.OccurredAt
		assert.Equal(t, value1, value2)
	})
}

func TestRegistryIdentifier(t *testing.T) {
	const subject = "catalog-interactions-value"

	var gotSchema string
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Schema string `json:"schema"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				gotSchema = body.Schema
			}
			w.Header().Set("Content-Type", "application/vnd.schemaregistry.v1+json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"subject": subject,
				"version": 1,
				"id":      42,
				"schema":  schema.InteractionSchemaTextV1,
			})
		},
	))
	defer srv.Close()

	ri, err := schema.NewRegistryIdentifier([]string{srv.URL})
	require.NoError(t, err)

	id, err := ri.DetermineID(t.Context(), subject, schema.InteractionSchemaTextV1)
	require.NoError(t, err)
	assert.Equal(t, 42, id)
	assert.Equal(t, schema.InteractionSchemaTextV1, gotSchema)
}

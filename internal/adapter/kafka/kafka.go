package kafka

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/niksmo/visual-catalog/internal/core/domain"
	"github.com/niksmo/visual-catalog/pkg/schema"
)

var (
	ErrTooFewOpts = errors.New("too few options")
)

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type TopicCreator interface {
	CreateTopics(
		ctx context.Context,
		partitions int32,
		replicationFactor int16,
		configs map[string]*string,
		topics ...string,
	) (kadm.CreateTopicResponses, error)
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func interactionToSchemaV1(v domain.Interaction) (s schema.InteractionV1) {
	s.ID = v.ID
	s.SessionID = v.SessionID
	s.Kind = string(v.Kind)
	s.Page = v.Page
	s.Field = v.Field
	s.Value = v.Value
	s.Filters = maps.Clone(v.Filters)
	s.OccurredAt = v.OccurredAt
	return
}

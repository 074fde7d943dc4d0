package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/visual-catalog/internal/core/domain"
	"github.com/niksmo/visual-catalog/internal/core/port"
)

var _ port.InteractionsRecorder = (*Interactions)(nil)

// Interactions hands user intents to the analytics producer. A zero
// producer disables recording.
type Interactions struct {
	producer  port.InteractionsProducer
	sessionID string
	now       func() time.Time
}

func NewInteractions(producer port.InteractionsProducer) Interactions {
	return Interactions{
		producer:  producer,
		sessionID: uuid.NewString(),
		now:       time.Now,
	}
}

func (s Interactions) SessionID() string {
	return s.sessionID
}

// Record publishes intent together with the filters active after it.
// Failures are logged only.
func (s Interactions) Record(
	ctx context.Context, intent domain.Intent, filters domain.FilterSet,
) {
	const op = "Interactions.Record"
	log := slog.With("op", op)

	if s.producer == nil {
		return
	}

	v := s.makeInteraction(intent, filters)
	if err := s.producer.ProduceInteraction(ctx, v); err != nil {
		log.Error("failed to produce interaction", "err", err)
		return
	}
	log.Debug("recorded", "kind", v.Kind, "page", v.Page)
}

func (s Interactions) makeInteraction(
	intent domain.Intent, filters domain.FilterSet,
) domain.Interaction {
	v := domain.Interaction{
		ID:         uuid.NewString(),
		SessionID:  s.sessionID,
		Kind:       intent.Kind(),
		Page:       intent.Page(),
		Filters:    filters.Clone(),
		OccurredAt: s.now().UTC(),
	}
	if fc, ok := intent.(domain.FilterChanged); ok {
		v.Field = fc.Field
		v.Value = fc.Value
	}
	return v
}

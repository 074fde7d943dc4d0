package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/niksmo/visual-catalog/internal/core/domain"
	"github.com/niksmo/visual-catalog/internal/core/port"
	"github.com/niksmo/visual-catalog/pkg/retry"
)

const (
	defaultProduceAttempts = 3
	defaultProduceDelay    = 100 * time.Millisecond

	kindHeader = "kind"
)

var _ port.InteractionsProducer = InteractionsProducer{}

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
	retry   retry.RetryConfig
}

// SeedBrokersOpt connects a new client to the brokers. Records go to
// topic once all in-sync replicas acknowledge them. extra is appended to
// the client options, for example [kgo.DialTLSConfig].
func SeedBrokersOpt(
	ctx context.Context, seedBrokers []string, topic string, extra ...kgo.Opt,
) ProducerOpt {
	return func(opts *producerOpts) error {
		kgoOpts := []kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
		}
		cl, err := kgo.NewClient(append(kgoOpts, extra...)...)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

func ProducerClientOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		if cl == nil {
			return errors.New("producer client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

// RetryOpt overrides the attempts and backoff of produce calls. Only
// retriable broker errors are retried.
func RetryOpt(attempts int, backoff retry.Backoff) ProducerOpt {
	return func(opts *producerOpts) error {
		if attempts < 1 {
			return errors.New("attempts must be positive")
		}
		opts.retry.MaxAttempts = attempts
		opts.retry.Backoff = backoff
		return nil
	}
}

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
	retry    retry.RetryConfig
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(ctx context.Context, rs ...*kgo.Record) error {
	const op = "produce"
	log := slog.With("op", makeOp(p.opPrefix, op))

	attempt := 0
	err := retry.Do(ctx, p.retry, func() error {
		attempt++
		err := p.cl.ProduceSync(ctx, rs...).FirstErr()
		if err != nil && kerr.IsRetriable(err) {
			log.Warn("retriable produce error", "attempt", attempt, "err", err)
		}
		return err
	})
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

// An InteractionsProducer produces [domain.Interaction] keyed by session.
type InteractionsProducer struct {
	producer producer
	encoder  Encoder
	opPrefix string
}

func NewInteractionsProducer(
	opts ...ProducerOpt,
) (InteractionsProducer, error) {
	const op = "NewInteractionsProducer"

	options := producerOpts{
		retry: retry.RetryConfig{
			MaxAttempts: defaultProduceAttempts,
			Backoff:     retry.ExponentialBackoff(defaultProduceDelay),
		},
	}
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return InteractionsProducer{}, opErr(err, op)
		}
	}
	if options.cl == nil || options.encoder == nil {
		if options.cl != nil {
			options.cl.Close()
		}
		return InteractionsProducer{}, opErr(ErrTooFewOpts, op)
	}
	options.retry.ShouldRetry = kerr.IsRetriable

	opPrefix := "InteractionsProducer"
	p := producer{
		opPrefix: opPrefix,
		cl:       options.cl,
		retry:    options.retry,
	}

	return InteractionsProducer{
		producer: p,
		encoder:  options.encoder,
		opPrefix: opPrefix,
	}, nil
}

func (p InteractionsProducer) Close() {
	p.producer.close()
}

func (p InteractionsProducer) ProduceInteraction(
	ctx context.Context, v domain.Interaction,
) error {
	const op = "ProduceInteraction"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(v)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	if err := p.producer.produce(ctx, r); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

func (p InteractionsProducer) createRecord(
	v domain.Interaction,
) (*kgo.Record, error) {
	const op = "createRecord"

	b, err := p.encoder.Encode(interactionToSchemaV1(v))
	if err != nil {
		return nil, opErr(err, p.opPrefix, op)
	}

	return &kgo.Record{
		Key:   []byte(v.SessionID),
		Value: b,
		Headers: []kgo.RecordHeader{
			{Key: kindHeader, Value: []byte(v.Kind)},
		},
		Timestamp: v.OccurredAt,
	}, nil
}

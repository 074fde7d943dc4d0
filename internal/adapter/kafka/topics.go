package kafka

import (
	"context"
	"errors"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kerr"
)

const (
	cleanupPolicyDelete = "delete"
	minInSyncReplicas   = "1"
)

type TopicSpec struct {
	Name              string
	Partitions        int32
	ReplicationFactor int16
}

// TopicResult reports the outcome for one topic.
type TopicResult struct {
	Topic   string
	Created bool
	Err     error
}

// MakeTopics creates the topics with the delete cleanup policy. A topic
// that already exists is not an error.
func MakeTopics(
	ctx context.Context, cl TopicCreator, spec TopicSpec,
) ([]TopicResult, error) {
	const op = "MakeTopics"
	log := slog.With("op", op)

	cleanupPolicy := cleanupPolicyDelete
	minISR := minInSyncReplicas
	configs := map[string]*string{
		"cleanup.policy":      &cleanupPolicy,
		"min.insync.replicas": &minISR,
	}

	responses, err := cl.CreateTopics(
		ctx, spec.Partitions, spec.ReplicationFactor, configs, spec.Name,
	)
	if err != nil {
		return nil, opErr(err, op)
	}

	var (
		results []TopicResult
		errs    []error
	)
	for _, res := range responses.Sorted() {
		switch {
		case res.Err == nil:
			log.Info("topic created", "topic", res.Topic)
			results = append(results, TopicResult{Topic: res.Topic, Created: true})
		case errors.Is(res.Err, kerr.TopicAlreadyExists):
			log.Info("topic already exists", "topic", res.Topic)
			results = append(results, TopicResult{Topic: res.Topic})
		default:
			log.Error("failed to create topic", "topic", res.Topic, "err", res.Err)
			results = append(results, TopicResult{Topic: res.Topic, Err: res.Err})
			errs = append(errs, res.Err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return results, opErr(err, op)
	}
	return results, nil
}

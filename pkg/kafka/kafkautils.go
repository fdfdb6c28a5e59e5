package kafkautils

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

type KafkaConfig struct {
	BootstrapServers string
	Topics           []TopicConfig
}

type TopicConfig struct {
	Topic             string
	NumPartitions     int
	ReplicationFactor int
	Retention         time.Duration // zero keeps the broker default
}

func (t TopicConfig) spec() kafka.TopicSpecification {
	cfg := map[string]string{"cleanup.policy": "delete"}
	if t.Retention > 0 {
		cfg["retention.ms"] = fmt.Sprintf("%d", t.Retention.Milliseconds())
	}
	replication := t.ReplicationFactor
	if replication < 1 {
		replication = 1
	}
	return kafka.TopicSpecification{
		Topic:             t.Topic,
		NumPartitions:     t.NumPartitions,
		ReplicationFactor: replication,
		Config:            cfg,
	}
}

// InitKafkaTopics creates the configured topics, treating "already exists" as success.
// Broker errors are retried with exponential backoff for up to maxElapsed.
func InitKafkaTopics(ctx context.Context, logger *zap.Logger, cnf KafkaConfig, maxElapsed time.Duration) error {
	admin, err := kafka.NewAdminClient(&kafka.ConfigMap{"bootstrap.servers": cnf.BootstrapServers})
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer admin.Close()

	topics := make([]kafka.TopicSpecification, 0, len(cnf.Topics))
	for _, t := range cnf.Topics {
		topics = append(topics, t.spec())
	}

	operation := func() error {
		results, err := admin.CreateTopics(ctx, topics, kafka.SetAdminOperationTimeout(30*time.Second))
		if err != nil {
			return fmt.Errorf("failed to create topics: %w", err)
		}
		for _, result := range results {
			switch result.Error.Code() {
			case kafka.ErrNoError:
				logger.Info("kafka topic created", zap.String("topic", result.Topic))
			case kafka.ErrTopicAlreadyExists:
				logger.Debug("kafka topic exists", zap.String("topic", result.Topic))
			default:
				return fmt.Errorf("kafka topic %s creation failed: %v", result.Topic, result.Error)
			}
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxElapsed
	return backoff.Retry(operation, backoff.WithContext(b, ctx))
}

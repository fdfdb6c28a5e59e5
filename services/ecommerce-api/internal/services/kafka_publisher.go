package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	kafkautils "github.com/nimeshabuddhika/ecommerce-data-api/pkg/kafka"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/views"
	"github.com/nimeshabuddhika/ecommerce-data-api/services/ecommerce-api/configs"
	"github.com/nimeshabuddhika/ecommerce-data-api/services/ecommerce-api/internal/observability"
	"go.uber.org/zap"
)

// EventPublisher emits domain events once the corresponding write has committed.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event views.OrderCreatedEvent) error
	Close()
}

type KafkaPublisherImpl struct {
	logger   *zap.Logger
	producer *kafka.Producer
	topic    string
}

// NewKafkaPublisher creates the order topic if needed and starts a producer.
func NewKafkaPublisher(ctx context.Context, logger *zap.Logger, cnf *configs.Config) (EventPublisher, error) {
	topicConfig := kafkautils.KafkaConfig{
		BootstrapServers: cnf.KafkaBrokers,
		Topics: []kafkautils.TopicConfig{
			{
				Topic:             cnf.KafkaOrderTopic,
				NumPartitions:     cnf.KafkaPartition,
				ReplicationFactor: 1,
				Retention:         cnf.KafkaRetention,
			},
		},
	}
	if err := kafkautils.InitKafkaTopics(ctx, logger, topicConfig, time.Minute); err != nil {
		return nil, err
	}

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  cnf.KafkaBrokers,
		"acks":               "all",
		"enable.idempotence": "true",
		"linger.ms":          5,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("kafka producer created successfully", zap.String("brokers", cnf.KafkaBrokers))
	go handleDeliveryReports(logger, p)
	return &KafkaPublisherImpl{
		logger:   logger,
		producer: p,
		topic:    cnf.KafkaOrderTopic,
	}, nil
}

// PublishOrderCreated enqueues the event keyed by order ID, so every event of
// one order lands on the same partition. Delivery is reported asynchronously.
func (k *KafkaPublisherImpl) PublishOrderCreated(_ context.Context, event views.OrderCreatedEvent) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	err = k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &k.topic, Partition: kafka.PartitionAny},
		Key:            []byte(strconv.FormatInt(event.OrderID, 10)),
		Value:          msgBytes,
		Headers:        []kafka.Header{{Key: "trace_id", Value: []byte(event.TraceID)}},
	}, nil)
	if err != nil {
		observability.EventsPublished.WithLabelValues(k.topic, "error").Inc()
		return err
	}
	observability.EventsPublished.WithLabelValues(k.topic, "queued").Inc()
	return nil
}

func (k *KafkaPublisherImpl) Close() {
	if remaining := k.producer.Flush(5000); remaining > 0 {
		k.logger.Warn("kafka producer closed with undelivered messages", zap.Int("remaining", remaining))
	}
	k.producer.Close()
}

func handleDeliveryReports(logger *zap.Logger, p *kafka.Producer) {
	for e := range p.Events() {
		if ev, ok := e.(*kafka.Message); ok && ev.TopicPartition.Error != nil {
			topic := ""
			if ev.TopicPartition.Topic != nil {
				topic = *ev.TopicPartition.Topic
			}
			observability.EventsPublished.WithLabelValues(topic, "failed").Inc()
			logger.Error("failed to publish message", zap.String("topic", topic), zap.Error(ev.TopicPartition.Error))
		}
	}
}

// NoopPublisher drops events; used when no Kafka brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(context.Context, views.OrderCreatedEvent) error { return nil }
func (NoopPublisher) Close()                                                            {}

// internal/notify/kafka.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/Phermidex/zenithCrypto/internal/domain"
)

const produceTimeout = 5 * time.Second

// Producer is the part of *kgo.Client the Kafka sink needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaSink publishes committed entries as JSON, keyed by user so one user's
// events stay ordered within a partition.
type KafkaSink struct {
	producer Producer
	topic    string
}

// NewKafkaSink creates a KafkaSink on an existing producer.
func NewKafkaSink(producer Producer, topic string) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic}
}

// NewKafkaClient creates a franz-go client for the given brokers.
func NewKafkaClient(brokers []string) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID("zenith-ledger"),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.ProducerLinger(10*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}
	return client, nil
}

func (s *KafkaSink) TransactionCommitted(ctx context.Context, record *domain.TransactionRecord) error {
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction %s: %w", record.ID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, produceTimeout)
	defer cancel()

	result := s.producer.ProduceSync(ctx, &kgo.Record{
		Topic: s.topic,
		Key:   []byte(record.UserID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte("transaction." + string(record.Kind))},
			{Key: "transaction_id", Value: []byte(record.ID)},
		},
	})
	if err := result.FirstErr(); err != nil {
		return fmt.Errorf("failed to publish transaction %s: %w", record.ID, err)
	}
	return nil
}

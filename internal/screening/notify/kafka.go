package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"lexscreen/internal/screening/models"
)

const DefaultTopic = "screening.records"

// Kafka publishes one Event per record, keyed by screening id so duplicates
// of the same run land on one partition.
type Kafka struct {
	client *kgo.Client
	topic  string
}

// NewKafkaClient builds a producer client for the given brokers.
func NewKafkaClient(brokers []string, clientID string) (*kgo.Client, error) {
	if len(brokers) == 0 {
		return nil, errors.New("at least one kafka broker is required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return client, nil
}

func NewKafka(client *kgo.Client, topic string) *Kafka {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Kafka{client: client, topic: topic}
}

// Send blocks until the broker acknowledges the record.
func (k *Kafka) Send(ctx context.Context, record *models.Record) error {
	value, err := json.Marshal(NewEvent(record))
	if err != nil {
		return fmt.Errorf("marshal screening event: %w", err)
	}
	msg := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(record.ScreeningID.String()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "variant", Value: []byte(record.Variant)},
			{Key: "risk_level", Value: []byte(record.Classification.Risk)},
		},
	}
	if err := k.client.ProduceSync(ctx, msg).FirstErr(); err != nil {
		return fmt.Errorf("publish screening event: %w", err)
	}
	return nil
}

// EnsureTopic creates the topic if it does not exist yet.
func EnsureTopic(ctx context.Context, client *kgo.Client, topic string, partitions int32, replicas int16) error {
	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopic(ctx, partitions, replicas, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, resp.Err)
	}
	return nil
}

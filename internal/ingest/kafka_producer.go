package ingest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/example/omnipath/internal/models"
)

// Event kinds carried on the ingest topic.
const (
	KindCrowdReport = "crowd-report"
	KindSOS         = "sos"
)

// Envelope wraps a domain event for the stream.
type Envelope struct {
	Kind      string          `json:"kind"`
	Key       string          `json:"key"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// KafkaProducer publishes domain events keyed by entity so downstream
// consumers see per-entity ordering.
type KafkaProducer struct {
	writer *kafka.Writer
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	w := kafka.NewWriter(kafka.WriterConfig{Brokers: brokers, Topic: topic, Balancer: &kafka.LeastBytes{}})
	return &KafkaProducer{writer: w}
}

func (k *KafkaProducer) PublishCrowdReport(stationID string, sample *models.CrowdSample) error {
	return k.publish(KindCrowdReport, stationID, sample)
}

func (k *KafkaProducer) PublishSOS(caseID string, c *models.SOSCase) error {
	return k.publish(KindSOS, caseID, c)
}

func (k *KafkaProducer) publish(kind, key string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	env := Envelope{Kind: kind, Key: key, Timestamp: time.Now(), Payload: raw}
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return k.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: b})
}

func (k *KafkaProducer) Close() error {
	if k.writer == nil {
		return nil
	}
	return k.writer.Close()
}

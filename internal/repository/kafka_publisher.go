package repository

import (
	"context"

	"BottomScan/internal/domain/models"
	"BottomScan/internal/domain/repository"
	pkgkafka "BottomScan/pkg/kafka"
)

// KafkaAlertPublisher fans sent alerts out to a Kafka topic, keyed by
// symbol so one symbol's alerts stay ordered on a single partition.
type KafkaAlertPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaAlertPublisher(producer *pkgkafka.Producer, topic string) *KafkaAlertPublisher {
	if topic == "" {
		topic = "bottomscan.alerts"
	}
	return &KafkaAlertPublisher{producer: producer, topic: topic}
}

func (p *KafkaAlertPublisher) Publish(ctx context.Context, res *models.ScanCycleResult) error {
	return p.producer.Publish(ctx, p.topic, []byte(res.Symbol), res)
}

// PublishMessage sends an arbitrary payload to an arbitrary topic with no
// key. Satisfies logger.Publisher so aggregated error logs can ride the
// same producer.
func (p *KafkaAlertPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

func (p *KafkaAlertPublisher) Close() error {
	return p.producer.Close()
}

var _ repository.AlertPublisher = (*KafkaAlertPublisher)(nil)

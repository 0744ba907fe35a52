package events

import (
	"context"
	"encoding/binary"
	"encoding/json"

	"poll-service/internal/config"
	"poll-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes accepted votes to a Kafka topic. Messages are keyed
// by user id so one voter's events stay ordered within a partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(cfg *config.KafkaConfig) *KafkaPublisher {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) PublishVote(ctx context.Context, msg models.VoteMessage) error {
	value, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(msg.UserID))

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

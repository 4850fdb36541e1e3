package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/logger"
)

// MessageWriter is the subset of *kafka.Writer the publisher uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher sends every refresh overview to a topic, keyed by cycle id
type KafkaPublisher struct {
	writer MessageWriter
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return NewKafkaPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.LeastBytes{},
	}, topic)
}

func NewKafkaPublisherWithWriter(writer MessageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, topic: topic}
}

// Publish implements port.SnapshotSink
func (p *KafkaPublisher) Publish(ctx context.Context, overview domain.Overview) error {
	msg, err := EncodeOverview(overview)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.ErrorContext(ctx, "Publisher: Failed to write cycle %s to %s: %v", overview.CycleID, p.topic, err)
		return err
	}
	logger.DebugContext(ctx, "Publisher: Cycle %s written to %s", overview.CycleID, p.topic)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// EncodeOverview builds the message for one overview
func EncodeOverview(overview domain.Overview) (kafka.Message, error) {
	data, err := json.Marshal(overview)
	if err != nil {
		return kafka.Message{}, err
	}
	ts := overview.GeneratedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return kafka.Message{
		Key:   []byte(overview.CycleID),
		Value: data,
		Time:  ts,
	}, nil
}

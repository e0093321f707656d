package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/okunev/spotbooking/config"
	"github.com/segmentio/kafka-go"
)

const (
	defaultHeartbeat      = 3 * time.Second
	defaultSessionTimeout = 30 * time.Second
)

// Consumer reads reservation events for one topic as part of a consumer
// group and hands decoded events to a handler.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(cfg config.KafkaConfig, topic string) *Consumer {
	return &Consumer{reader: kafka.NewReader(readerConfig(cfg, topic))}
}

func readerConfig(cfg config.KafkaConfig, topic string) kafka.ReaderConfig {
	heartbeat := time.Duration(cfg.HeartbeatSeconds) * time.Second
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	session := time.Duration(cfg.SessionTimeoutSeconds) * time.Second
	if session <= 0 {
		session = defaultSessionTimeout
	}
	return kafka.ReaderConfig{
		Brokers:           cfg.Brokers,
		GroupID:           cfg.GroupID,
		Topic:             topic,
		HeartbeatInterval: heartbeat,
		SessionTimeout:    session,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume blocks reading reservation events until the context is canceled or
// the handler fails. An undecodable payload is logged and skipped so one bad
// message cannot wedge the group.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, ReservationEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		event, err := decodeEvent(msg.Value)
		if err != nil {
			log.Printf("skipping undecodable message on %s at offset %d: %v", msg.Topic, msg.Offset, err)
			continue
		}
		if err := handler(ctx, event); err != nil {
			return err
		}
	}
}

func decodeEvent(value []byte) (ReservationEvent, error) {
	var event ReservationEvent
	err := json.Unmarshal(value, &event)
	return event, err
}

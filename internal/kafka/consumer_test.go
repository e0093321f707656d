package kafka

import (
	"testing"
	"time"

	"github.com/okunev/spotbooking/config"
	"github.com/stretchr/testify/assert"
)

func TestReaderConfig_UsesConfiguredTuning(t *testing.T) {
	cfg := config.KafkaConfig{
		Brokers:               []string{"broker-1:9092", "broker-2:9092"},
		GroupID:               "spotbooking-worker",
		HeartbeatSeconds:      5,
		SessionTimeoutSeconds: 45,
	}

	rc := readerConfig(cfg, "reservation-notifications")

	assert.Equal(t, cfg.Brokers, rc.Brokers)
	assert.Equal(t, "spotbooking-worker", rc.GroupID)
	assert.Equal(t, "reservation-notifications", rc.Topic)
	assert.Equal(t, 5*time.Second, rc.HeartbeatInterval)
	assert.Equal(t, 45*time.Second, rc.SessionTimeout)
}

func TestReaderConfig_DefaultsWhenUnset(t *testing.T) {
	rc := readerConfig(config.KafkaConfig{Brokers: []string{"localhost:9092"}}, "reservation-notifications")

	assert.Equal(t, defaultHeartbeat, rc.HeartbeatInterval)
	assert.Equal(t, defaultSessionTimeout, rc.SessionTimeout)
}

func TestDecodeEvent(t *testing.T) {
	payload := []byte(`{"type":"reservation_cancelled","code":"3f1d2c9a","resource_id":"spot-42","refund_amount":30}`)

	event, err := decodeEvent(payload)
	assert.NoError(t, err)
	assert.Equal(t, "reservation_cancelled", event.Type)
	assert.Equal(t, "3f1d2c9a", event.Code)
	assert.Equal(t, 30.0, event.RefundAmount)

	_, err = decodeEvent([]byte("not json"))
	assert.Error(t, err)
}

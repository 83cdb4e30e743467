package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/khoahotran/media-vault/internal/config"
	"github.com/khoahotran/media-vault/internal/domain/media"
	"github.com/segmentio/kafka-go"
)

const TopicMediaEvents = "media.events"

type MediaEventType string

const (
	MediaEventTypeUploaded MediaEventType = "media.uploaded"
	MediaEventTypeDeleted  MediaEventType = "media.deleted"
)

type MediaEventPayload struct {
	EventType MediaEventType `json:"event_type"`
	MediaID   uuid.UUID      `json:"media_id"`
	OwnerID   uuid.UUID      `json:"owner_id"`
	Kind      media.Kind     `json:"kind"`
	AssetRef  string         `json:"asset_ref"`
	// RemoteCleanupPending marks deleted events whose provider-side destroy
	// failed; the worker retries those out-of-band.
	RemoteCleanupPending bool `json:"remote_cleanup_pending,omitempty"`
}

type KafkaProducerClient struct {
	MediaEventsWriter *kafka.Writer
}

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	mediaWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicMediaEvents,
		Balancer: &kafka.LeastBytes{},
	}

	return &KafkaProducerClient{MediaEventsWriter: mediaWriter}, nil
}

func (c *KafkaProducerClient) PublishMediaEvent(ctx context.Context, payload MediaEventPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cannot marshal media event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(payload.MediaID.String()),
		Value: value,
	}
	if err := c.MediaEventsWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("cannot publish media event: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.MediaEventsWriter != nil {
		c.MediaEventsWriter.Close()
	}
}

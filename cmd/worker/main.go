package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/media-vault/adapters/event"
	"github.com/khoahotran/media-vault/adapters/media_storage"
	mediaUC "github.com/khoahotran/media-vault/internal/application/usecase/media"
	"github.com/khoahotran/media-vault/internal/config"
	"github.com/khoahotran/media-vault/pkg/logger"
)

func main() {
	fmt.Println("Starting Media Vault Worker...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}

	cleanupUC := mediaUC.NewCleanupMediaUseCase(uploader, appLogger)

	mediaConsumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicMediaEvents,
		GroupID:  "media-cleanup-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer mediaConsumer.Close()

	log.Printf("Worker listening on topic '%s'...", event.TopicMediaEvents)

	ctx := context.Background()
	for {
		msg, err := mediaConsumer.ReadMessage(ctx)
		if err != nil {
			log.Printf("ERROR: Failed to read message from Kafka: %v", err)
			continue
		}

		var payload event.MediaEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			log.Printf("ERROR: Failed to unmarshal event: %v. Skipping.", err)
			commitMessage(mediaConsumer, msg)
			continue
		}

		log.Printf("Processing event: [%s] for MediaID: %s", payload.EventType, payload.MediaID)

		if err := cleanupUC.Execute(ctx, payload); err != nil {
			log.Printf("ERROR: Failed to process event for MediaID %s: %v", payload.MediaID, err)
			continue
		}

		commitMessage(mediaConsumer, msg)
	}
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		log.Printf("ERROR: Failed to commit message: %v", err)
	}
}

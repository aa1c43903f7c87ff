package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/techfix-solutions/desk-service/internal/config"
	"github.com/techfix-solutions/desk-service/internal/database"
	"github.com/techfix-solutions/desk-service/internal/events"
	"github.com/techfix-solutions/desk-service/internal/model"
	"github.com/techfix-solutions/desk-service/internal/notify"
)

var notifyReplayCmd = &cobra.Command{
	Use:   "notify-replay",
	Short: "Resend every unhandled inbox item. Prefers Kafka; falls back to the webhook if INBOX_WEBHOOK_URL set.",
	RunE:  runNotifyReplay,
}

func init() {
	rootCmd.AddCommand(notifyReplayCmd)
}

func runNotifyReplay(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	_ = godotenv.Load("../../.env") // repo root when running from bin/
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	conn, err := database.Open(cfg.DSN())
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}

	var quotes []model.QuoteRequest
	if err := conn.Where("status = ?", model.InboxStatusNew).Find(&quotes).Error; err != nil {
		return fmt.Errorf("list quotes: %w", err)
	}
	var contacts []model.ContactMessage
	if err := conn.Where("status = ?", model.InboxStatusNew).Find(&contacts).Error; err != nil {
		return fmt.Errorf("list contacts: %w", err)
	}
	log.Printf("notify-replay: found %d quotes, %d contacts", len(quotes), len(contacts))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopicDesk != "" {
		log.Println("notify-replay: using Kafka")
		producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicDesk)
		defer producer.Close()
		for i := range quotes {
			producer.Produce(ctx, events.InboxCreated, map[string]interface{}{"kind": "quote", "id": quotes[i].ID})
		}
		for i := range contacts {
			producer.Produce(ctx, events.InboxCreated, map[string]interface{}{"kind": "contact", "id": contacts[i].ID})
		}
		log.Printf("notify-replay: done, sent %d events to Kafka", len(quotes)+len(contacts))
		return nil
	}
	if cfg.WebhookURL != "" {
		log.Println("notify-replay: using the inbox webhook")
		client := notify.NewClient(cfg.WebhookURL)
		for i := range quotes {
			q := &quotes[i]
			client.NotifyInbox(ctx, notify.InboxPayload{
				Kind:   "quote",
				ID:     q.ID,
				Name:   q.Name,
				Email:  q.Email,
				Body:   q.Description,
				Status: string(q.Status),
			})
		}
		for i := range contacts {
			c := &contacts[i]
			client.NotifyInbox(ctx, notify.InboxPayload{
				Kind:    "contact",
				ID:      c.ID,
				Name:    c.Name,
				Email:   c.Email,
				Subject: c.Subject,
				Body:    c.Body,
				Status:  string(c.Status),
			})
		}
		log.Printf("notify-replay: done, resent %d items via webhook", len(quotes)+len(contacts))
		return nil
	}
	log.Println("notify-replay: neither KAFKA_BROKERS nor INBOX_WEBHOOK_URL set")
	log.Printf("notify-replay: found %d items (not resent)", len(quotes)+len(contacts))
	return nil
}

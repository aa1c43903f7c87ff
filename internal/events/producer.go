package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Desk event names.
const (
	TicketCreated = "ticket.created"
	TicketUpdated = "ticket.updated"
	TicketDeleted = "ticket.deleted"
	ChatMessage   = "chat.message"
	InboxCreated  = "inbox.created"
)

// DeskEventProducer lets tests substitute a mock.
type DeskEventProducer interface {
	Produce(ctx context.Context, event string, payload map[string]interface{})
	ProduceAsync(event string, payload map[string]interface{})
}

// Producer writes desk events to a Kafka topic, best-effort; it never
// blocks the API path. With no brokers or topic configured every method
// is a no-op.
type Producer struct {
	writer *kafka.Writer
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || topic == "" {
		return &Producer{}
	}
	return &Producer{
		topic: topic,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (p *Producer) Produce(ctx context.Context, event string, payload map[string]interface{}) {
	if p.writer == nil {
		return
	}
	msg := map[string]interface{}{"event": event}
	for k, v := range payload {
		msg[k] = v
	}
	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("events: marshal %s: %v", event, err)
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: body}); err != nil {
		log.Printf("events: write %s: %v", event, err)
	}
}

// ProduceAsync fires the event from a goroutine with its own timeout so
// it survives request cancellation.
func (p *Producer) ProduceAsync(event string, payload map[string]interface{}) {
	if p.writer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		p.Produce(ctx, event, payload)
	}()
}

func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
)

// Event describes a lifecycle change to an entity, published for downstream
// consumers (audit, search indexing).
type Event struct {
	EntityType string `json:"entity_type"` // user, group, collection
	EntityID   string `json:"entity_id"`
	Action     string `json:"action"` // created, updated, deleted
	Timestamp  int64  `json:"timestamp"`
}

// Notifier publishes lifecycle events.
type Notifier interface {
	Publish(event Event) error
	Close()
}

// PulsarNotifier publishes events to a Pulsar topic.
type PulsarNotifier struct {
	client   pulsar.Client
	producer pulsar.Producer
}

// NewPulsarNotifier initializes the Pulsar client and producer.
func NewPulsarNotifier(pulsarURL, topic string) (*PulsarNotifier, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL: pulsarURL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: topic,
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not create Pulsar producer: %w", err)
	}

	return &PulsarNotifier{client: client, producer: producer}, nil
}

// Publish sends an event to the configured topic.
func (p *PulsarNotifier) Publish(event Event) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal event payload: %w", err)
	}

	_, err = p.producer.Send(context.Background(), &pulsar.ProducerMessage{
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("could not publish event: %w", err)
	}
	return nil
}

func (p *PulsarNotifier) Close() {
	p.producer.Close()
	p.client.Close()
}

// NoopNotifier discards events. Used when no Pulsar URL is configured and
// in tests.
type NoopNotifier struct{}

func (NoopNotifier) Publish(Event) error { return nil }
func (NoopNotifier) Close()              {}

package pubsub

import (
	"context"
	"encoding/json"
)

// TopicAnalysisStatus carries extraction lifecycle events.
const TopicAnalysisStatus = "analysis_status"

// Event is a single pub/sub message delivered to subscribers.
type Event struct {
	Topic   string          `json:"topic"`
	Type    string          `json:"type"` // e.g. "extracting", "ready", "error"
	Data    json.RawMessage `json:"data"`
	Version int             `json:"version"`
}

// Subscription is a client's view of a topic stream.
type Subscription interface {
	Topic() string
	Events() <-chan Event
	Close() error
}

// Publisher manages subscriptions and event delivery.
type Publisher interface {
	// Subscribe creates a new subscription. Context cancellation closes it.
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	Publish(topic string, eventType string, data any) error

	Close() error
}

// AnalysisStatus is the payload published on TopicAnalysisStatus.
type AnalysisStatus struct {
	State     string `json:"state"` // extracting, ready, error
	Message   string `json:"message"`
	Template  string `json:"template"`
	Pipelines int    `json:"pipelines"`
}

// Package analytics provides a fire-and-forget NATS publisher for viewing events.
package analytics

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Subject constants for every analytics event type.
const (
	SubjectWatchViewed       = "analytics.watch.viewed"
	SubjectStreamingResolved = "analytics.streaming.resolved"
	SubjectStreamingFailed   = "analytics.streaming.failed"
	SubjectSearchPerformed   = "analytics.search.performed"
)

// Event is the canonical envelope sent to all analytics.* subjects.
type Event struct {
	EventID    string         `json:"event_id"`
	EventName  string         `json:"event_name"`
	RequestID  string         `json:"request_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

// Publisher publishes analytics events over core NATS.
// The zero value and a nil pointer are both safe no-op stubs.
type Publisher struct {
	conn Conn
	log  *zap.Logger
	now  func() time.Time
}

// New creates a Publisher. Pass conn=nil for a no-op stub.
func New(conn Conn, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{conn: conn, log: log, now: time.Now}
}

// Publish sends an event without waiting for delivery.
// Failures are logged as warnings and never surface to the caller.
func (p *Publisher) Publish(subject, eventName, requestID string, props map[string]any) {
	if p == nil || p.conn == nil {
		return
	}
	ev := Event{
		EventID:    uuid.NewString(),
		EventName:  eventName,
		RequestID:  requestID,
		OccurredAt: p.now().UTC(),
		Properties: props,
	}
	data, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("analytics: marshal failed", zap.String("event", eventName), zap.Error(err))
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		p.log.Warn("analytics: publish failed", zap.String("subject", subject), zap.Error(err))
	}
}

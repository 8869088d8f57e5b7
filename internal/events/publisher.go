package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Publisher delivers domain events to the message bus. Publish failures
// are the publisher's problem to log; they never fail the pick that
// produced the event.
type Publisher interface {
	Publish(eventType string, sessionID uuid.UUID, payload any) error
	Close()
}

// envelope is the wire shape every event travels in.
type envelope struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	SessionID string          `json:"session_id"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NATSPublisher publishes events to NATS under
// <prefix>.draft.<event_type>.
type NATSPublisher struct {
	nc     *nats.Conn
	prefix string
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("draft-engine"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &NATSPublisher{nc: nc, prefix: prefix}, nil
}

func (p *NATSPublisher) Publish(eventType string, sessionID uuid.UUID, payload any) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	env := envelope{
		EventID:   uuid.New().String(),
		EventType: eventType,
		SessionID: sessionID.String(),
		Timestamp: time.Now(),
		Payload:   payloadBytes,
	}
	msg, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	subject := fmt.Sprintf("%s.draft.%s", p.prefix, eventType)
	if err := p.nc.Publish(subject, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}

	log.Debug().
		Str("subject", subject).
		Str("event_id", env.EventID).
		Str("session_id", env.SessionID).
		Msg("published event")

	return nil
}

func (p *NATSPublisher) Close() {
	p.nc.Drain()
}

// NopPublisher drops every event. Used when no message bus is
// configured.
type NopPublisher struct{}

func (NopPublisher) Publish(string, uuid.UUID, any) error { return nil }
func (NopPublisher) Close()                               {}

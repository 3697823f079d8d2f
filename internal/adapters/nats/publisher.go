package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/wayfarerhq/wayfarer/internal/core/domain"
)

// Subjects and streams for trip events. Reservation changes go through
// JetStream so the refresher can consume them durably; map updates are
// plain broadcasts relayed to WebSocket clients.
const (
	SubjectReservationsChanged = "trips.reservations.changed."
	SubjectMapUpdated          = "trips.map.updated."
)

// Publisher implements ports.EventPublisher using NATS.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and ensures the trip-events stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:      "TRIP_EVENTS",
		Subjects:  []string{"trips.reservations.>"},
		Retention: nats.WorkQueuePolicy,
		MaxAge:    1 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishReservationsChanged(ctx context.Context, tripID string) error {
	_, err := p.js.Publish(SubjectReservationsChanged+tripID, []byte(tripID))
	return err
}

func (p *Publisher) PublishMapUpdated(ctx context.Context, m *domain.TripMap) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return p.conn.Publish(SubjectMapUpdated+m.TripID, data)
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. the
// WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}

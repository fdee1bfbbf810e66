package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	natsgo "github.com/nats-io/nats.go"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

// SubjectOrderPlaced carries OrderPlaced events as JSON.
const SubjectOrderPlaced = "orders.placed"

var _ ports.Notifier = (*Publisher)(nil)

type conn interface {
	Publish(subject string, data []byte) error
}

// Publisher emits order events on NATS core subjects.
type Publisher struct {
	conn    conn
	subject string
}

// NewPublisher publishes on SubjectOrderPlaced.
func NewPublisher(nc *natsgo.Conn) *Publisher {
	return &Publisher{conn: nc, subject: SubjectOrderPlaced}
}

type envelope struct {
	Type string             `json:"type"`
	Data domain.OrderPlaced `json:"data"`
}

// OrderPlaced publishes the event with its type name so subscribers can route on it.
func (p *Publisher) OrderPlaced(_ context.Context, event domain.OrderPlaced) error {
	if p == nil || p.conn == nil {
		return errors.New("nats publisher not configured")
	}
	payload, err := json.Marshal(envelope{Type: event.EventName(), Data: event})
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.EventName(), err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	return nil
}

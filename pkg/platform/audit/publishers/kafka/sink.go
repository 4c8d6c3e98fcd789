// Package kafka forwards audit events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	audit "protocolo/pkg/platform/audit"
)

// ErrCircuitOpen is returned while the broker is considered down.
var ErrCircuitOpen = errors.New("kafka audit sink: circuit open")

// Producer is the part of *kgo.Client the sink uses.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// Sink is an audit.Store that produces each event as a JSON record keyed by
// subject, so all events about one process land on the same partition.
type Sink struct {
	producer Producer
	topic    string
	breaker  *breaker
	metrics  *Metrics
}

type Option func(*Sink)

func WithMetrics(m *Metrics) Option {
	return func(s *Sink) { s.metrics = m }
}

// WithBreaker tunes the circuit breaker.
func WithBreaker(threshold int, cooldown time.Duration, now func() time.Time) Option {
	return func(s *Sink) { s.breaker = newBreaker(threshold, cooldown, now) }
}

// Dial connects a franz-go client to brokers.
func Dial(brokers []string, topic string, opts ...Option) (*Sink, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka audit sink: no brokers")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ClientID("protocolo-audit"),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return New(client, topic, opts...), nil
}

func New(producer Producer, topic string, opts ...Option) *Sink {
	s := &Sink{producer: producer, topic: topic, breaker: newBreaker(0, 0, nil)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	if !s.breaker.allow() {
		s.metrics.dropped()
		return ErrCircuitOpen
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.Subject),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "action", Value: []byte(event.Action)},
			{Key: "category", Value: []byte(event.Category)},
		},
	}
	if err := s.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		s.metrics.failed(s.breaker.failure())
		return fmt.Errorf("produce audit event: %w", err)
	}
	s.breaker.success()
	s.metrics.closed()
	s.metrics.published()
	return nil
}

func (s *Sink) Close() {
	s.producer.Close()
}

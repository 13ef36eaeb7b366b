// Package events announces finished analyses on a message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/core"
)

// AnalysisEvent is the message body published for each analysis
type AnalysisEvent struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Timestamp   time.Time `json:"timestamp"`
	Probability float64   `json:"probability"`
	IsPhishing  bool      `json:"is_phishing"`
	Indicators  []string  `json:"indicators"`
	URLs        []string  `json:"urls"`
	ModelUsed   string    `json:"model_used"`
	From        string    `json:"from,omitempty"`
	Subject     string    `json:"subject,omitempty"`
}

// NewAnalysisEvent summarizes a result for publication
func NewAnalysisEvent(result *core.AnalysisResult) AnalysisEvent {
	event := AnalysisEvent{
		ID:          result.ID,
		Source:      result.Source,
		Timestamp:   result.Timestamp,
		Probability: result.Probability,
		IsPhishing:  result.IsPhishing,
		Indicators:  make([]string, 0, len(result.Indicators)),
		URLs:        result.URLs,
		ModelUsed:   result.ModelUsed,
	}
	for _, ind := range result.Indicators {
		event.Indicators = append(event.Indicators, ind.Name)
	}
	if result.Email != nil {
		event.From = result.Email.From
		event.Subject = result.Email.Subject
	}
	return event
}

// Channel is the subset of *amqp091.Channel used for publishing
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher implements core.EventPublisher over a RabbitMQ topic exchange
type Publisher struct {
	conn       *amqp091.Connection
	channel    Channel
	exchange   string
	routingKey string
	logger     *zap.Logger
	mu         sync.Mutex
}

// NewPublisher dials the broker and declares the exchange
func NewPublisher(url, exchange, routingKey string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.Info("Connected to RabbitMQ",
		zap.String("exchange", exchange),
		zap.String("routing_key", routingKey))

	p := NewPublisherWithChannel(ch, exchange, routingKey, logger)
	p.conn = conn
	return p, nil
}

// NewPublisherWithChannel publishes on an already open channel
func NewPublisherWithChannel(ch Channel, exchange, routingKey string, logger *zap.Logger) *Publisher {
	return &Publisher{
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logger,
	}
}

// Publish implements core.EventPublisher
func (p *Publisher) Publish(ctx context.Context, result *core.AnalysisResult) error {
	body, err := json.Marshal(NewAnalysisEvent(result))
	if err != nil {
		return fmt.Errorf("failed to encode analysis event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		p.routingKey,
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			MessageId:    result.ID,
			Timestamp:    result.Timestamp,
			Body:         body,
			DeliveryMode: amqp091.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish analysis event: %w", err)
	}

	p.logger.Debug("Published analysis event",
		zap.String("id", result.ID),
		zap.String("routing_key", p.routingKey))
	return nil
}

// IsConnected reports whether the broker connection is alive
func (p *Publisher) IsConnected() bool {
	return p.conn != nil && !p.conn.IsClosed()
}

// Close closes the channel and connection
func (p *Publisher) Close() error {
	var firstErr error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			firstErr = err
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

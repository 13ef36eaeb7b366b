package events

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/core"
)

type published struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeChannel struct {
	sent   []published
	err    error
	closed bool
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func sampleResult() *core.AnalysisResult {
	return &core.AnalysisResult{
		ID:          "a1",
		Source:      "Email Analysis: invoice.eml",
		Timestamp:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Probability: 0.82,
		IsPhishing:  true,
		Indicators: []core.Indicator{
			{Severity: core.SeverityCritical, Name: "Urgent language"},
		},
		URLs:      []string{"http://login.example/"},
		ModelUsed: "logistic-builtin",
		Email:     &core.Email{From: "alerts@paypa1.com", Subject: "Verify now"},
	}
}

func TestPublish(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisherWithChannel(ch, "phishing", "email.analyzed", zap.NewNop())

	require.NoError(t, p.Publish(context.Background(), sampleResult()))
	require.Len(t, ch.sent, 1)

	sent := ch.sent[0]
	assert.Equal(t, "phishing", sent.exchange)
	assert.Equal(t, "email.analyzed", sent.key)
	assert.Equal(t, "application/json", sent.msg.ContentType)
	assert.Equal(t, uint8(amqp091.Persistent), sent.msg.DeliveryMode)
	assert.Equal(t, "a1", sent.msg.MessageId)

	var event AnalysisEvent
	require.NoError(t, json.Unmarshal(sent.msg.Body, &event))
	assert.Equal(t, "a1", event.ID)
	assert.True(t, event.IsPhishing)
	assert.Equal(t, []string{"Urgent language"}, event.Indicators)
	assert.Equal(t, "alerts@paypa1.com", event.From)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
	assert.False(t, p.IsConnected())
}

func TestPublishError(t *testing.T) {
	p := NewPublisherWithChannel(&fakeChannel{err: errors.New("channel closed")}, "phishing", "email.analyzed", zap.NewNop())
	assert.Error(t, p.Publish(context.Background(), sampleResult()))
}

func TestPublishToBroker(t *testing.T) {
	url := os.Getenv("PHISH_TEST_AMQP_URL")
	if url == "" {
		t.Skip("PHISH_TEST_AMQP_URL not set")
	}

	p, err := NewPublisher(url, "phishing-test", "email.analyzed", zap.NewNop())
	require.NoError(t, err)
	defer p.Close()

	assert.True(t, p.IsConnected())
	assert.NoError(t, p.Publish(context.Background(), sampleResult()))
}

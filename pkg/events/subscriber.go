package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-profile-backend/pkg/logger"

	"github.com/nats-io/nats.go/jetstream"
)

// Handler processes one message body. A returned error naks the message so
// it is redelivered after NakDelay.
type Handler func(ctx context.Context, data []byte) error

// SubscribeOptions tunes a durable consumer.
type SubscribeOptions struct {
	// AckWait must cover the slowest handler run.
	AckWait time.Duration
	// MaxAckPending 1 processes messages one at a time.
	MaxAckPending int
	// MaxDeliver caps deliveries per message, zero means unlimited.
	MaxDeliver int
	// NakDelay postpones redelivery of a failed message.
	NakDelay time.Duration
}

// Subscriber manages durable JetStream consumers on the EVENTS stream.
type Subscriber struct {
	js jetstream.JetStream

	mu       sync.Mutex
	consumes []jetstream.ConsumeContext
}

func NewSubscriber(js jetstream.JetStream) *Subscriber {
	return &Subscriber{js: js}
}

// Subscribe registers handler for subject under a durable consumer name.
// Handlers receive ctx, so cancelling it aborts in-flight work.
func (s *Subscriber) Subscribe(ctx context.Context, subject, durable string, opts SubscribeOptions, handler Handler) error {
	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:       durable,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       opts.AckWait,
		MaxAckPending: opts.MaxAckPending,
		MaxDeliver:    maxDeliver(opts.MaxDeliver),
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		handleMsg(ctx, msg, opts, handler)
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	s.mu.Lock()
	s.consumes = append(s.consumes, cc)
	s.mu.Unlock()

	logger.Log.Infow("Subscribed", "subject", subject, "durable", durable)
	return nil
}

// Stop stops every consumer started by Subscribe.
func (s *Subscriber) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cc := range s.consumes {
		cc.Stop()
	}
	s.consumes = nil
}

func handleMsg(ctx context.Context, msg jetstream.Msg, opts SubscribeOptions, handler Handler) {
	if err := handler(ctx, msg.Data()); err != nil {
		logger.Log.Errorw("Event handler failed", "subject", msg.Subject(), "retry_in", opts.NakDelay, "error", err)
		if opts.NakDelay > 0 {
			_ = msg.NakWithDelay(opts.NakDelay)
		} else {
			_ = msg.Nak()
		}
		return
	}
	_ = msg.Ack()
}

// maxDeliver maps zero to the server's unlimited value.
func maxDeliver(n int) int {
	if n <= 0 {
		return -1
	}
	return n
}

package delivery

import (
	"context"
	"sync"
	"time"

	"github.com/botpass/relay/subscription"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// DefaultMaxRetries is the retry ceiling per subscriber: an always-failing
	// target is attempted 1 + DefaultMaxRetries times in total.
	DefaultMaxRetries = 3

	// DefaultBackoffBase is the delay before the first retry; each subsequent
	// delay doubles (2^attempt).
	DefaultBackoffBase = 1 * time.Second
)

/* Dispatcher runs the outbound delivery engine
 * Trigger resolves once every matching subscriber's chain has been launched;
 * retries run fire-and-forget on a dispatcher-owned context, so a caller's
 * request context ending never cancels in-flight deliveries
 */
type Dispatcher struct {
	registry    *subscription.Registry
	sender      *Sender
	history     *History
	maxRetries  int
	backoffBase time.Duration
	log         zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Config carries the tunable delivery parameters
type Config struct {
	MaxRetries  int
	BackoffBase time.Duration
}

// NewDispatcher creates a dispatcher with dependency injection
func NewDispatcher(registry *subscription.Registry, sender *Sender, history *History, cfg Config, log zerolog.Logger) *Dispatcher {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = DefaultBackoffBase
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		registry:    registry,
		sender:      sender,
		history:     history,
		maxRetries:  cfg.MaxRetries,
		backoffBase: cfg.BackoffBase,
		log:         log.With().Str("component", "delivery").Logger(),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Trigger constructs a payload for the event and launches an independent
// delivery chain for every active subscription registered for it. Delivery
// failures are retried and recorded, never returned.
func (d *Dispatcher) Trigger(eventType subscription.EventType, data map[string]any) (Payload, error) {
	p, err := NewPayload(eventType, data)
	if err != nil {
		return Payload{}, err
	}

	subs := d.registry.Matching(eventType)
	d.log.Info().
		Str("payload_id", p.ID).
		Str("event_type", string(eventType)).
		Int("subscribers", len(subs)).
		Msg("triggering webhook event")

	for _, sub := range subs {
		d.wg.Add(1)
		go func(sub subscription.Subscription) {
			defer d.wg.Done()
			d.deliver(sub, p)
		}(sub)
	}

	return p, nil
}

// Close cancels pending backoff waits and blocks until in-flight delivery
// chains return.
func (d *Dispatcher) Close() {
	d.cancel()
	d.wg.Wait()
}

/* deliver drives one subscriber's attempt loop: Send, record, and either stop
 * on success / exhausted retries or sleep 2^attempt * base and go again.
 * An explicit loop rather than recursion keeps attempt counts and delays
 * testable in isolation
 */
func (d *Dispatcher) deliver(sub subscription.Subscription, p Payload) {
	for attempt := 0; ; attempt++ {
		res := d.sender.Send(d.ctx, sub, p)

		rec := Status{
			ID:             uuid.New().String(),
			SubscriptionID: sub.ID,
			Payload:        p,
			StatusCode:     res.StatusCode,
			Error:          res.Error,
			Timestamp:      time.Now(),
			Retries:        attempt,
		}

		if res.OK() {
			rec.Outcome = Succeeded
			d.history.Append(rec)
			d.log.Info().
				Str("payload_id", p.ID).
				Str("subscription_id", sub.ID).
				Int("status_code", res.StatusCode).
				Int("retries", attempt).
				Msg("delivery succeeded")
			return
		}

		rec.Outcome = Failed
		d.history.Append(rec)

		if attempt >= d.maxRetries {
			d.log.Warn().
				Str("payload_id", p.ID).
				Str("subscription_id", sub.ID).
				Int("attempts", attempt+1).
				Str("error", res.Error).
				Msg("delivery permanently failed")
			return
		}

		delay := d.backoffBase << attempt
		d.log.Info().
			Str("payload_id", p.ID).
			Str("subscription_id", sub.ID).
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Msg("delivery failed, scheduling retry")

		select {
		case <-time.After(delay):
		case <-d.ctx.Done():
			return
		}
	}
}

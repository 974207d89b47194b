package subscription

import (
	"fmt"
	"sync"
	"time"

	"github.com/botpass/relay/delivery/signature"
	"github.com/google/uuid"
)

/* Registry is the in-memory store of outbound webhook subscriptions
 * Process-wide mutable state, owned here and injected where needed; all
 * operations are synchronous and cannot partially fail
 */
type Registry struct {
	mu    sync.RWMutex
	subs  map[string]Subscription
	order []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		subs: make(map[string]Subscription),
	}
}

// Create validates and registers a new subscription. A fresh signing secret is
// generated and returned on the subscription exactly once.
func (r *Registry) Create(url string, events []EventType) (Subscription, error) {
	if err := validateTarget(url); err != nil {
		return Subscription{}, fmt.Errorf("validating subscription url: %w", err)
	}
	if err := validateEvents(events); err != nil {
		return Subscription{}, fmt.Errorf("validating subscription events: %w", err)
	}

	secret, err := signature.GenerateSecret(32)
	if err != nil {
		return Subscription{}, fmt.Errorf("generating signing secret: %w", err)
	}

	now := time.Now()
	sub := Subscription{
		ID:        uuid.New().String(),
		URL:       url,
		Events:    append([]EventType(nil), events...),
		Secret:    secret.String(),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	r.subs[sub.ID] = sub
	r.order = append(r.order, sub.ID)
	r.mu.Unlock()

	return sub, nil
}

// Add registers a pre-built subscription, used by the seed loader. The
// subscription must carry a parseable signing secret.
func (r *Registry) Add(sub Subscription) error {
	if err := validateTarget(sub.URL); err != nil {
		return fmt.Errorf("validating subscription url: %w", err)
	}
	if err := validateEvents(sub.Events); err != nil {
		return fmt.Errorf("validating subscription events: %w", err)
	}
	if _, err := signature.ParseSecret(sub.Secret); err != nil {
		return fmt.Errorf("validating subscription secret: %w", err)
	}
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	now := time.Now()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now
	}
	if sub.UpdatedAt.IsZero() {
		sub.UpdatedAt = now
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.subs[sub.ID]; exists {
		return fmt.Errorf("subscription already registered: %s", sub.ID)
	}
	r.subs[sub.ID] = sub
	r.order = append(r.order, sub.ID)
	return nil
}

// Get returns the subscription with the given identifier
func (r *Registry) Get(id string) (Subscription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.subs[id]
	return sub, ok
}

// Delete removes the subscription outright and reports whether it existed
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subs[id]; !ok {
		return false
	}
	delete(r.subs, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns all subscriptions in insertion order
func (r *Registry) List() []Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Subscription, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.subs[id])
	}
	return out
}

// Matching returns the active subscriptions registered for the given event
func (r *Registry) Matching(e EventType) []Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Subscription
	for _, id := range r.order {
		sub := r.subs[id]
		if sub.Active && sub.Subscribed(e) {
			out = append(out, sub)
		}
	}
	return out
}

// Count returns the number of registered subscriptions
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

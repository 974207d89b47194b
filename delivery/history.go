package delivery

import (
	"sync"
	"time"
)

// DefaultHistoryLimit caps the in-memory delivery history.
const DefaultHistoryLimit = 1000

/* Status records the outcome of one delivery attempt
 * Retries carries the retry count at the time the attempt ran: 0 for the
 * initial attempt, up to the configured ceiling
 */
type Status struct {
	ID             string    `json:"id"`
	SubscriptionID string    `json:"subscriptionId"`
	Payload        Payload   `json:"payload"`
	Outcome        Outcome   `json:"status"`
	StatusCode     int       `json:"statusCode,omitempty"`
	Error          string    `json:"error,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Retries        int       `json:"retries"`
}

/* History is the capped, append-only log of delivery attempts
 * The cap resolves the unbounded-growth problem of keeping every record:
 * oldest entries are dropped, cumulative counters are not
 */
type History struct {
	mu        sync.RWMutex
	records   []Status
	limit     int
	succeeded int64
	failed    int64
}

// NewHistory creates a history capped at limit records. A limit below 1 falls
// back to DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Append records a delivery attempt, dropping the oldest record if the cap is
// exceeded.
func (h *History) Append(s Status) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, s)
	if len(h.records) > h.limit {
		h.records = h.records[len(h.records)-h.limit:]
	}

	if s.Outcome == Succeeded {
		h.succeeded++
	} else {
		h.failed++
	}
}

// List returns recorded attempts, oldest first. A non-empty subscriptionID
// filters to that subscription's attempts.
func (h *History) List(subscriptionID string) []Status {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Status, 0, len(h.records))
	for _, s := range h.records {
		if subscriptionID != "" && s.SubscriptionID != subscriptionID {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Counts returns the cumulative number of succeeded and failed attempts since
// process start, unaffected by the record cap.
func (h *History) Counts() (succeeded, failed int64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.succeeded, h.failed
}

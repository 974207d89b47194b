package chi

import (
	"encoding/json"
	"net/http"

	"github.com/botpass/relay/delivery"
	"github.com/botpass/relay/subscription"
	"github.com/go-chi/chi/v5"
)

// subscriptionRequest registers a new outbound webhook target
type subscriptionRequest struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
}

// triggerRequest fires an application event through the delivery engine
type triggerRequest struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// triggerResponse acknowledges that delivery chains have been launched.
// It does not reflect eventual delivery success; retries run in the
// background and their outcomes land in the delivery history.
type triggerResponse struct {
	Success   bool   `json:"success"`
	PayloadID string `json:"payloadId"`
	Matched   int    `json:"matched"`
}

type subscriptionsResponse struct {
	Success       bool                        `json:"success"`
	Subscriptions []subscription.Subscription `json:"subscriptions"`
	Count         int                         `json:"count"`
}

type deliveriesResponse struct {
	Success    bool              `json:"success"`
	Deliveries []delivery.Status `json:"deliveries"`
	Count      int               `json:"count"`
}

// postSubscription handles POST /api/webhooks/subscriptions
// The response includes the signing secret; it is shown exactly once.
func postSubscription(registry *subscription.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req subscriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		events := make([]subscription.EventType, 0, len(req.Events))
		for _, e := range req.Events {
			events = append(events, subscription.EventType(e))
		}

		sub, err := registry.Create(req.URL, events)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, sub)
	})
}

// getSubscriptions handles GET /api/webhooks/subscriptions
func getSubscriptions(registry *subscription.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subs := registry.List()
		for i := range subs {
			subs[i] = subs[i].Redacted()
		}
		writeJSON(w, http.StatusOK, subscriptionsResponse{
			Success:       true,
			Subscriptions: subs,
			Count:         len(subs),
		})
	})
}

// getSubscription handles GET /api/webhooks/subscriptions/{id}
func getSubscription(registry *subscription.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		sub, ok := registry.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "subscription not found: "+id)
			return
		}
		writeJSON(w, http.StatusOK, sub.Redacted())
	})
}

// deleteSubscription handles DELETE /api/webhooks/subscriptions/{id}
func deleteSubscription(registry *subscription.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !registry.Delete(id) {
			writeError(w, http.StatusNotFound, "subscription not found: "+id)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

// getDeliveries handles GET /api/webhooks/deliveries
func getDeliveries(history *delivery.History) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		records := history.List(r.URL.Query().Get("subscriptionId"))
		writeJSON(w, http.StatusOK, deliveriesResponse{
			Success:    true,
			Deliveries: records,
			Count:      len(records),
		})
	})
}

// postTrigger handles POST /api/webhooks/trigger
func postTrigger(dispatcher *delivery.Dispatcher, registry *subscription.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req triggerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		eventType := subscription.EventType(req.Type)
		if err := eventType.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		matched := len(registry.Matching(eventType))
		payload, err := dispatcher.Trigger(eventType, req.Data)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusAccepted, triggerResponse{
			Success:   true,
			PayloadID: payload.ID,
			Matched:   matched,
		})
	})
}

package chi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/botpass/relay/realtime"
)

/* Server-Sent Events endpoint for the real-time channel
 * Every connection receives the global channel; passing ?botId= additionally
 * joins that bot's channel. Delivery is best-effort: events published while a
 * client is disconnected are never replayed
 */

// events handles GET /api/events
func events(hub *realtime.Hub) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming unsupported")
			return
		}

		sub := hub.Subscribe(16)
		defer hub.Unsubscribe(sub)

		if botID := r.URL.Query().Get("botId"); botID != "" {
			hub.JoinBot(sub, botID)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case ev, open := <-sub.Events():
				if !open {
					return
				}
				data, err := json.Marshal(ev.Message)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Channel, data)
				flusher.Flush()
			}
		}
	})
}

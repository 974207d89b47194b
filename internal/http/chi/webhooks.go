package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/botpass/relay/message"
	"github.com/go-chi/chi/v5/middleware"
)

/* HTTP layer DTOs for the inbound webhook API
 * Separate from domain entities to avoid leaking internal structure
 */

// incomingResponse is returned for an accepted webhook call
type incomingResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
	Message   string `json:"message"`
}

// messagesResponse wraps a message listing
type messagesResponse struct {
	Success  bool              `json:"success"`
	Messages []message.Message `json:"messages"`
	Count    int               `json:"count"`
}

// errorResponse is the error envelope shared by the relay API
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}

// postIncoming handles POST /api/webhook/incoming
func postIncoming(messages message.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in message.Incoming
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		in.RequestID = middleware.GetReqID(r.Context())

		m, err := messages.Ingest(r.Context(), in)
		if err != nil {
			var validationErr *message.ValidationError
			var unknownBotErr *message.UnknownBotError
			switch {
			case errors.As(err, &validationErr):
				writeError(w, http.StatusBadRequest, validationErr.Error())
			case errors.As(err, &unknownBotErr):
				writeError(w, http.StatusBadRequest, unknownBotErr.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusOK, incomingResponse{
			Success:   true,
			MessageID: m.ID,
			Message:   "Webhook received and processed",
		})
	})
}

// getMessages handles GET /api/messages
// Without parameters it returns the in-memory buffer; with ?botId= it reads
// persisted messages for that bot back from the document store.
func getMessages(messages message.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		botID := r.URL.Query().Get("botId")
		if botID == "" {
			buffered := messages.Recent()
			writeJSON(w, http.StatusOK, messagesResponse{
				Success:  true,
				Messages: buffered,
				Count:    len(buffered),
			})
			return
		}

		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = parsed
		}

		stored, err := messages.RecentByBot(r.Context(), botID, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "reading messages failed")
			return
		}
		if stored == nil {
			stored = []message.Message{}
		}
		writeJSON(w, http.StatusOK, messagesResponse{
			Success:  true,
			Messages: stored,
			Count:    len(stored),
		})
	})
}

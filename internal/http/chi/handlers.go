package chi

import (
	"net/http"
	"time"

	"github.com/botpass/relay/delivery"
	"github.com/botpass/relay/message"
	"github.com/botpass/relay/realtime"
	"github.com/botpass/relay/subscription"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

// Deps carries the services the HTTP layer exposes
type Deps struct {
	Messages   message.UseCase
	Hub        *realtime.Hub
	Registry   *subscription.Registry
	Dispatcher *delivery.Dispatcher
	History    *delivery.History

	// Metrics is the Prometheus handler; nil disables the /metrics route
	Metrics http.Handler

	// AllowedBots is shown on the index page for local testing
	AllowedBots []string
}

// Handlers sets up the webhook relay routes
func Handlers(deps Deps) *chi.Mux {
	logger := httplog.NewLogger("botpass-relay", httplog.Options{
		JSON: true,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", index(deps.AllowedBots))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	// The event stream stays open for the life of the client connection, so
	// it lives outside the request timeout group.
	r.Get("/api/events", events(deps.Hub).ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Post("/api/webhook/incoming", postIncoming(deps.Messages).ServeHTTP)
		r.Get("/api/messages", getMessages(deps.Messages).ServeHTTP)

		r.Route("/api/webhooks", func(r chi.Router) {
			r.Post("/subscriptions", postSubscription(deps.Registry).ServeHTTP)
			r.Get("/subscriptions", getSubscriptions(deps.Registry).ServeHTTP)
			r.Get("/subscriptions/{id}", getSubscription(deps.Registry).ServeHTTP)
			r.Delete("/subscriptions/{id}", deleteSubscription(deps.Registry).ServeHTTP)
			r.Get("/deliveries", getDeliveries(deps.History).ServeHTTP)
			r.Post("/trigger", postTrigger(deps.Dispatcher, deps.Registry).ServeHTTP)
		})
	})

	return r
}

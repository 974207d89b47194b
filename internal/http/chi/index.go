package chi

import (
	"fmt"
	"net/http"
	"strings"
)

/* Index page for operators poking at a running relay
 * Endpoint listing plus the allow-listed bot identifiers usable without
 * registering anything
 */

const indexTemplate = `<!DOCTYPE html>
<html>
<head>
  <title>BotPass Webhook Relay</title>
  <style>
    body { font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; }
    code, pre { background: #f4f4f4; padding: 2px 5px; border-radius: 3px; }
    pre { padding: 10px; overflow-x: auto; }
  </style>
</head>
<body>
  <h1>BotPass Webhook Relay</h1>
  <p>This server is running and ready to receive webhook calls.</p>

  <h2>Endpoints</h2>
  <ul>
    <li><code>POST /api/webhook/incoming</code> — inbound bot messages</li>
    <li><code>GET /api/messages</code> — recent messages (<code>?botId=</code> for stored history)</li>
    <li><code>GET /api/events</code> — SSE stream (<code>?botId=</code> joins a bot channel)</li>
    <li><code>POST /api/webhooks/subscriptions</code> — register an outbound subscription</li>
    <li><code>GET /api/webhooks/deliveries</code> — delivery history</li>
    <li><code>GET /metrics</code> — Prometheus metrics</li>
  </ul>

  <h2>Valid Bot IDs for Testing</h2>
  <pre>%s</pre>

  <h2>Test with curl</h2>
  <pre>curl -X POST http://localhost:3030/api/webhook/incoming \
  -H "Content-Type: application/json" \
  -d '{"botId":"test-bot-from-curl","messageType":"message","content":"Hello from curl"}'</pre>
</body>
</html>
`

// index handles GET /
func index(allowedBots []string) http.HandlerFunc {
	page := fmt.Sprintf(indexTemplate, strings.Join(allowedBots, "\n"))
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, page)
	}
}

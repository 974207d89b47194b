package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/botpass/relay/delivery/signature"
	"github.com/botpass/relay/subscription"
)

// DefaultSendTimeout bounds one outbound POST so a hung subscriber cannot
// hold a delivery chain open indefinitely.
const DefaultSendTimeout = 10 * time.Second

// SendResult is the outcome of one HTTP POST to a subscriber URL
type SendResult struct {
	StatusCode int
	Error      string
}

// OK reports whether the attempt reached the subscriber and got a 2xx back
func (r SendResult) OK() bool {
	return r.Error == "" && r.StatusCode >= 200 && r.StatusCode < 300
}

// Sender performs signed webhook POSTs
type Sender struct {
	client *http.Client
}

// NewSender creates a sender whose requests time out after the given duration
func NewSender(timeout time.Duration) *Sender {
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	return &Sender{
		client: &http.Client{Timeout: timeout},
	}
}

// Send POSTs the JSON-encoded payload to the subscription's URL, signed with
// the subscription's secret. Headers carry the payload ID, the signing
// timestamp, and the signature.
func (s *Sender) Send(ctx context.Context, sub subscription.Subscription, p Payload) SendResult {
	body, err := json.Marshal(p)
	if err != nil {
		return SendResult{Error: fmt.Sprintf("encoding payload: %v", err)}
	}

	secret, err := signature.ParseSecret(sub.Secret)
	if err != nil {
		return SendResult{Error: fmt.Sprintf("parsing signing secret: %v", err)}
	}

	now := time.Now()
	sig, err := signature.Sign(secret, p.ID, now, body)
	if err != nil {
		return SendResult{Error: fmt.Sprintf("signing payload: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sub.URL, bytes.NewReader(body))
	if err != nil {
		return SendResult{Error: fmt.Sprintf("creating request: %v", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "botpass-relay/1.0")
	req.Header.Set("X-Webhook-ID", p.ID)
	req.Header.Set("X-Webhook-Timestamp", strconv.FormatInt(now.Unix(), 10))
	req.Header.Set("X-Webhook-Signature", sig.String())

	resp, err := s.client.Do(req)
	if err != nil {
		return SendResult{Error: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	// Drain a bounded amount so the connection can be reused.
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	return SendResult{StatusCode: resp.StatusCode}
}

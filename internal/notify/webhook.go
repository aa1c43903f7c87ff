// Package notify forwards new inbox items (quote requests, contact
// messages) to an external webhook, best-effort. Unconfigured, it is a
// no-op.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// InboxPayload is the body of POST /hooks/inbox.
type InboxPayload struct {
	Kind    string `json:"kind"` // "quote" or "contact"
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Status  string `json:"status"`
}

func (c *Client) NotifyInbox(ctx context.Context, p InboxPayload) {
	if c.baseURL == "" {
		return
	}
	body, err := json.Marshal(p)
	if err != nil {
		log.Printf("notify: marshal: %v", err)
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hooks/inbox", bytes.NewReader(body))
	if err != nil {
		log.Printf("notify: new request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("notify: request: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		log.Printf("notify: status %d for %s %s", resp.StatusCode, p.Kind, p.ID)
	}
}

// NotifyInboxAsync posts from a goroutine so the API response is never
// held up by the webhook.
func (c *Client) NotifyInboxAsync(p InboxPayload) {
	if c.baseURL == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.NotifyInbox(ctx, p)
	}()
}

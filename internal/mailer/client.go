package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 15 * time.Second

// Client sends mail through a JSON transactional mail API (POST one message
// per request, API key in the Authorization header).
type Client struct {
	APIKey     string
	BaseURL    string
	From       string
	HTTPClient *http.Client
}

// NewClient returns a mail client for the given API endpoint and key.
func NewClient(apiKey, baseURL, from string) *Client {
	return &Client{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		From:       from,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Send posts one message to the mail API. Returns an error on non-2xx responses.
func (c *Client) Send(ctx context.Context, to, subject, text, html string) error {
	if to == "" {
		return fmt.Errorf("mailer: to is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("mailer: API URL not configured")
	}
	body := map[string]string{
		"from":    c.From,
		"to":      to,
		"subject": subject,
		"text":    text,
		"html":    html,
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.APIKey)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mailer: request failed status=%d body=%s", resp.StatusCode, string(b))
	}
	return nil
}

// SendTwoFactorCode sends the one-time login code. Does not log the code.
func (c *Client) SendTwoFactorCode(ctx context.Context, to, displayName, code string, ttlMinutes int) error {
	text, html := twoFactorBody(displayName, code, ttlMinutes)
	return c.Send(ctx, to, twoFactorSubject(), text, html)
}

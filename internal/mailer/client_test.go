package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientSend(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient("api-key", srv.URL, "Portal <no-reply@example.org>")
	err := c.Send(context.Background(), "jo@example.org", "Subject", "text body", "<p>html body</p>")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotAuth != "api-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody["to"] != "jo@example.org" || gotBody["from"] != "Portal <no-reply@example.org>" {
		t.Errorf("body = %v", gotBody)
	}
	if gotBody["subject"] != "Subject" || gotBody["text"] != "text body" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestClientSendFailsOnAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("api-key", srv.URL, "no-reply@example.org")
	if err := c.Send(context.Background(), "jo@example.org", "Subject", "text", ""); err == nil {
		t.Fatal("Send on 429 = nil, want error")
	}
}

func TestClientSendRequiresRecipientAndURL(t *testing.T) {
	c := NewClient("api-key", "http://example.invalid", "no-reply@example.org")
	if err := c.Send(context.Background(), "", "Subject", "text", ""); err == nil {
		t.Fatal("Send without recipient = nil, want error")
	}

	c = NewClient("api-key", "", "no-reply@example.org")
	if err := c.Send(context.Background(), "jo@example.org", "Subject", "text", ""); err == nil {
		t.Fatal("Send without API URL = nil, want error")
	}
}

func TestTwoFactorBodyContainsCodeAndGreeting(t *testing.T) {
	text, html := twoFactorBody("Jo Doe", "123456", 5)
	for _, body := range []string{text, html} {
		if !strings.Contains(body, "123456") || !strings.Contains(body, "Jo Doe") {
			t.Errorf("body %q missing code or name", body)
		}
	}
}

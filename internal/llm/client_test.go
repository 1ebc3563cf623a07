package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestComplete(t *testing.T) {
	var gotPath, gotAuth, gotModel, gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotModel = req.Model
		if len(req.Messages) == 1 {
			gotPrompt = req.Messages[0].Content
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"food_type\": \"wet\"}"}}]}`))
	}))
	defer server.Close()

	c := &Client{APIKey: "test-key", BaseURL: server.URL, Model: "gpt-4o"}
	out, err := c.Complete(context.Background(), "extract the filter")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if out != `{"food_type": "wet"}` {
		t.Errorf("unexpected completion %q", out)
	}
	if gotPath != "/v1/chat/completions" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if gotModel != "gpt-4o" {
		t.Errorf("unexpected model %q", gotModel)
	}
	if gotPrompt != "extract the filter" {
		t.Errorf("unexpected prompt %q", gotPrompt)
	}
}

func TestComplete_MissingAPIKey(t *testing.T) {
	c := &Client{}
	if _, err := c.Complete(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestComplete_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := &Client{APIKey: "test-key", BaseURL: server.URL}
	_, err := c.Complete(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestComplete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"model overloaded"}}`))
	}))
	defer server.Close()

	c := &Client{APIKey: "test-key", BaseURL: server.URL}
	_, err := c.Complete(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("expected API error, got %v", err)
	}
}

func TestComplete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	c := &Client{APIKey: "test-key", BaseURL: server.URL}
	if _, err := c.Complete(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

// ABOUTME: Tests for the vision describer against a stub backend
// ABOUTME: Covers prompt defaulting, data URI construction, and error typing
package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type visionRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Type     string `json:"type"`
			Text     string `json:"text,omitempty"`
			ImageURL *struct {
				URL string `json:"url"`
			} `json:"image_url,omitempty"`
		} `json:"content"`
	} `json:"messages"`
}

func testDescriber(t *testing.T, baseURL string) *Describer {
	t.Helper()

	cfg := DefaultConfig("test-key")
	cfg.BaseURL = baseURL
	cfg.MaxRetries = 0
	cfg.RetryDelay = time.Millisecond

	d, err := NewDescriber(cfg)
	if err != nil {
		t.Fatalf("NewDescriber() error = %v", err)
	}
	return d
}

func TestDescriberDescribe(t *testing.T) {
	var gotReq visionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if err := json.NewDecoder(req.Body).Decode(&gotReq); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  a golden retriever  "}}]}`))
	}))
	defer srv.Close()

	d := testDescriber(t, srv.URL)

	desc, err := d.Describe(context.Background(), "aW1hZ2U=", "What breed is this dog?")
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if desc != "a golden retriever" {
		t.Errorf("Describe() = %q, want trimmed description", desc)
	}

	if len(gotReq.Messages) != 1 || len(gotReq.Messages[0].Content) != 2 {
		t.Fatalf("request shape = %+v, want one message with text and image parts", gotReq)
	}
	if gotReq.Messages[0].Content[0].Text != "What breed is this dog?" {
		t.Errorf("prompt = %q, want the caller's prompt", gotReq.Messages[0].Content[0].Text)
	}
	imagePart := gotReq.Messages[0].Content[1]
	if imagePart.ImageURL == nil || imagePart.ImageURL.URL != "data:image/jpeg;base64,aW1hZ2U=" {
		t.Errorf("image part = %+v, want jpeg data URI", imagePart)
	}
}

func TestDescriberDefaultPrompt(t *testing.T) {
	var gotReq visionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewDecoder(req.Body).Decode(&gotReq)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"something"}}]}`))
	}))
	defer srv.Close()

	d := testDescriber(t, srv.URL)

	if _, err := d.Describe(context.Background(), "aW1hZ2U=", "   "); err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if gotReq.Messages[0].Content[0].Text != DefaultDescribePrompt {
		t.Errorf("prompt = %q, want %q", gotReq.Messages[0].Content[0].Text, DefaultDescribePrompt)
	}
}

func TestDescriberFailureReturnsVisionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"model offline"}}`))
	}))
	defer srv.Close()

	d := testDescriber(t, srv.URL)

	_, err := d.Describe(context.Background(), "aW1hZ2U=", "describe")
	if err == nil {
		t.Fatal("Describe() error = nil, want *VisionError")
	}
	ve, ok := err.(*VisionError)
	if !ok {
		t.Fatalf("error type = %T, want *VisionError", err)
	}
	if !strings.Contains(ve.Error(), "vision backend") {
		t.Errorf("error = %v, want vision backend prefix", ve)
	}
}

func TestDescriberStopsRetryingOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		calls.Add(1)
		cancel()
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := DefaultConfig("test-key")
	cfg.BaseURL = srv.URL
	cfg.MaxRetries = 3
	cfg.RetryDelay = time.Minute

	d, err := NewDescriber(cfg)
	if err != nil {
		t.Fatalf("NewDescriber() error = %v", err)
	}

	start := time.Now()
	_, err = d.Describe(ctx, "aW1hZ2U=", "describe")
	if err == nil {
		t.Fatal("Describe() error = nil, want failure after cancellation")
	}
	if calls.Load() != 1 {
		t.Errorf("backend called %d times after cancellation, want 1", calls.Load())
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Describe() took %v after cancellation, want no backoff sleeps", elapsed)
	}
}

func TestDescriberEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	d := testDescriber(t, srv.URL)

	_, err := d.Describe(context.Background(), "aW1hZ2U=", "describe")
	if err == nil {
		t.Fatal("Describe() error = nil, want *VisionError for empty choices")
	}
	if _, ok := err.(*VisionError); !ok {
		t.Errorf("error type = %T, want *VisionError", err)
	}
}

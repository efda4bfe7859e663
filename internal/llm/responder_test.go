// ABOUTME: Tests for the text responder against a stub backend
// ABOUTME: Covers auth headers, retry behavior, and error surfacing
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

	"github.com/harper/chat-relay/internal/models"
	"github.com/rs/zerolog"
)

func testResponder(t *testing.T, baseURL string) *Responder {
	t.Helper()

	cfg := DefaultConfig("test-key")
	cfg.BaseURL = baseURL
	cfg.MaxRetries = 1
	cfg.RetryDelay = time.Millisecond

	r, err := NewResponder(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewResponder() error = %v", err)
	}
	return r
}

func TestResponderRespond(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		if err := json.NewDecoder(req.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hi there"}}]}`))
	}))
	defer srv.Close()

	r := testResponder(t, srv.URL)

	msgs := []models.NormalizedMessage{
		{Role: "user", Content: "hello"},
	}
	reply, err := r.Respond(context.Background(), msgs)
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if reply != "hi there" {
		t.Errorf("Respond() = %q, want %q", reply, "hi there")
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Content != "hello" {
		t.Errorf("request messages = %+v, want the normalized history", gotBody.Messages)
	}
	if gotBody.Model != DefaultTextModel {
		t.Errorf("request model = %q, want %q", gotBody.Model, DefaultTextModel)
	}
}

func TestResponderRespondBlockListContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":[{"type":"output_text","text":"from blocks"}]}}]}`))
	}))
	defer srv.Close()

	r := testResponder(t, srv.URL)

	reply, err := r.Respond(context.Background(), []models.NormalizedMessage{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if reply != "from blocks" {
		t.Errorf("Respond() = %q, want %q", reply, "from blocks")
	}
}

func TestResponderRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"recovered"}}]}`))
	}))
	defer srv.Close()

	r := testResponder(t, srv.URL)

	reply, err := r.Respond(context.Background(), []models.NormalizedMessage{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if reply != "recovered" {
		t.Errorf("Respond() = %q, want %q", reply, "recovered")
	}
	if calls.Load() != 2 {
		t.Errorf("backend called %d times, want 2", calls.Load())
	}
}

func TestResponderDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer srv.Close()

	r := testResponder(t, srv.URL)

	_, err := r.Respond(context.Background(), []models.NormalizedMessage{{Role: "user", Content: "hi"}})
	if err == nil {
		t.Fatal("Respond() error = nil, want *ResponderError")
	}
	respErr, ok := err.(*ResponderError)
	if !ok {
		t.Fatalf("Respond() error type = %T, want *ResponderError", err)
	}
	if respErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want %d", respErr.StatusCode, http.StatusUnauthorized)
	}
	if calls.Load() != 1 {
		t.Errorf("backend called %d times, want 1", calls.Load())
	}
}

func TestResponderInlineBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"model overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	r := testResponder(t, srv.URL)

	_, err := r.Respond(context.Background(), []models.NormalizedMessage{{Role: "user", Content: "hi"}})
	if err == nil {
		t.Fatal("Respond() error = nil, want inline backend error")
	}
	if !strings.Contains(err.Error(), "model overloaded") {
		t.Errorf("error = %v, want upstream message preserved", err)
	}
}

func TestResponderStopsRetryingOnCancelledContext(t *testing.T) {
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

	r, err := NewResponder(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewResponder() error = %v", err)
	}

	start := time.Now()
	_, err = r.Respond(ctx, []models.NormalizedMessage{{Role: "user", Content: "hi"}})
	if err == nil {
		t.Fatal("Respond() error = nil, want failure after cancellation")
	}
	if calls.Load() != 1 {
		t.Errorf("backend called %d times after cancellation, want 1", calls.Load())
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Respond() took %v after cancellation, want no backoff sleeps", elapsed)
	}
}

func TestResponderTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {}))
	srv.Close()

	r := testResponder(t, srv.URL)

	_, err := r.Respond(context.Background(), []models.NormalizedMessage{{Role: "user", Content: "hi"}})
	if err == nil {
		t.Fatal("Respond() error = nil, want transport error")
	}
	if _, ok := err.(*ResponderError); !ok {
		t.Errorf("error type = %T, want *ResponderError", err)
	}
}

func TestNewResponderRequiresAPIKey(t *testing.T) {
	cfg := DefaultConfig("")
	if _, err := NewResponder(cfg, zerolog.Nop()); err == nil {
		t.Error("NewResponder() with empty key should fail")
	}
}

package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shycli/shy/internal/config"
)

func testClient(url string) *Client {
	return NewClient(config.Config{
		APIKey:       "test-key",
		DefaultModel: "test/model",
		BaseURL:      url,
	})
}

func TestStreamConcatenatesChunks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(
			"data: {\"choices\":[{\"delta\":{\"content\":\"Use \"}}]}\n\n" +
				"data: {\"choices\":[{\"delta\":{\"content\":\"`ls -la`\"}}]}\n\n" +
				"data: [DONE]\n\n"))
	}))
	defer server.Close()

	text, err := testClient(server.URL).Stream(context.Background(), "list files")
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if text != "Use `ls -la`" {
		t.Fatalf("unexpected response text %q", text)
	}
}

func TestStreamIgnoresMalformedChunks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(
			"data: not-json\n\n" +
				": keepalive comment\n\n" +
				"data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n\n" +
				"data: [DONE]\n\n"))
	}))
	defer server.Close()

	text, err := testClient(server.URL).Stream(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if text != "ok" {
		t.Fatalf("unexpected response text %q", text)
	}
}

func TestStreamReportsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "bad key"}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Stream(context.Background(), "hi")
	if err == nil {
		t.Fatalf("expected error for non-2xx response")
	}
}

func TestStreamWithProgressReportsElapsed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(60 * time.Millisecond)
		_, _ = w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"done\"}}]}\n\ndata: [DONE]\n\n"))
	}))
	defer server.Close()

	var ticks atomic.Int32
	text, err := testClient(server.URL).StreamWithProgress(context.Background(), "hi", 10*time.Millisecond, func(elapsed time.Duration) {
		if elapsed <= 0 {
			t.Errorf("expected positive elapsed time")
		}
		ticks.Add(1)
	})
	if err != nil {
		t.Fatalf("StreamWithProgress failed: %v", err)
	}
	if text != "done" {
		t.Fatalf("unexpected response text %q", text)
	}
	if ticks.Load() == 0 {
		t.Fatalf("expected at least one progress tick")
	}
}

func TestSetModel(t *testing.T) {
	client := testClient("http://localhost:0")
	client.SetModel("google/gemini-2.5-pro")
	if client.Model() != "google/gemini-2.5-pro" {
		t.Fatalf("unexpected model %q", client.Model())
	}
}

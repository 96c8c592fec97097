package repl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	goruntime "runtime"
	"strings"
	"sync/atomic"
	"syscall"
	"testing"

	"github.com/shycli/shy/internal/chat"
	"github.com/shycli/shy/internal/config"
	"github.com/shycli/shy/internal/session"
)

func newTestRepl(t *testing.T, baseURL string) (*Repl, *bytes.Buffer) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SHY_HISTFILE", "")

	cfg := config.Config{APIKey: "test-key", DefaultModel: "test-model", BaseURL: baseURL}
	out := &bytes.Buffer{}
	return &Repl{
		client: chat.NewClient(cfg),
		cfg:    cfg,
		sess:   session.New(),
		out:    out,
	}, out
}

func TestHandleChatInterruptDoesNotPoisonNextTurn(t *testing.T) {
	if goruntime.GOOS == "windows" {
		t.Skip("self-delivered SIGINT is not available on windows")
	}

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			// Drain the body so the server notices the client
			// disconnect and cancels the request context.
			_, _ = io.Copy(io.Discard, r.Body)
			// An interrupt arrives while this request is in flight.
			syscall.Kill(os.Getpid(), syscall.SIGINT)
			<-r.Context().Done()
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"All good here.\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	r, out := newTestRepl(t, server.URL)
	ctx := context.Background()

	if err := r.handleChat(ctx, "first question"); err != nil {
		t.Fatalf("interrupted turn returned an error: %v", err)
	}
	if !strings.Contains(out.String(), "Cancelled.") {
		t.Fatalf("missing cancellation notice: %q", out.String())
	}

	out.Reset()
	if err := r.handleChat(ctx, "second question"); err != nil {
		t.Fatalf("turn after interrupt failed: %v", err)
	}
	if !strings.Contains(out.String(), "All good here.") {
		t.Fatalf("missing response after interrupt: %q", out.String())
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("server saw %d requests, want 2", got)
	}
}

func TestHandleChatReportsAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	r, _ := newTestRepl(t, server.URL)
	err := r.handleChat(context.Background(), "hello")
	if err == nil {
		t.Fatalf("expected an error for a failing API")
	}
	if !strings.Contains(err.Error(), "upstream unavailable") {
		t.Fatalf("error lost the API detail: %v", err)
	}
}

package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestWebhookNotifier_Send_PostsJSONPayload(t *testing.T) {
	var gotBody map[string]string
	var gotContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewWebhookNotifier(&http.Client{Timeout: 5 * time.Second}, testLogger(), server.URL)

	if err := n.Send(context.Background(), "そろそろご飯を食べましょう！"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want %q", gotContentType, "application/json")
	}
	if gotBody["text"] != "そろそろご飯を食べましょう！" {
		t.Errorf("text = %q, want %q", gotBody["text"], "そろそろご飯を食べましょう！")
	}
}

func TestWebhookNotifier_Send_NonSuccessStatus_ReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream broken"))
	}))
	defer server.Close()

	n := NewWebhookNotifier(&http.Client{Timeout: 5 * time.Second}, testLogger(), server.URL)

	err := n.Send(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestWebhookNotifier_Send_UnreachableHost_ReturnsError(t *testing.T) {
	// 閉じたサーバーのURLは接続エラーになる
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	n := NewWebhookNotifier(&http.Client{Timeout: time.Second}, testLogger(), url)

	err := n.Send(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for unreachable webhook")
	}
}

func TestWebhookNotifier_Send_ContextCancelled_ReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	n := NewWebhookNotifier(&http.Client{}, testLogger(), server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := n.Send(ctx, "hello")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

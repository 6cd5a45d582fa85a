package gemini_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"petal-studio/server/internal/infrastructure/gemini"
)

func newTestClient(t *testing.T, key string, handler http.HandlerFunc) *gemini.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return gemini.NewClient(gemini.ClientConfig{
		APIKey:    key,
		BaseURL:   server.URL,
		TextModel: "gemini-2.0-flash",
		Timeout:   5 * time.Second,
	}, zerolog.Nop())
}

func TestClient_Configured(t *testing.T) {
	if newTestClient(t, "", nil).Configured() {
		t.Fatal("client without a key must not report configured")
	}
	if !newTestClient(t, "g-key", nil).Configured() {
		t.Fatal("client with a key must report configured")
	}
}

func TestClient_Rewrite(t *testing.T) {
	t.Run("returns the first candidate text", func(t *testing.T) {
		var gotPath, gotKey string
		client := newTestClient(t, "g-key", func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotKey = r.URL.Query().Get("key")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  a richly detailed rose  "}]}}]}`))
		})

		text, err := client.Rewrite(context.Background(), "a rose")
		if err != nil {
			t.Fatal(err)
		}
		if text != "a richly detailed rose" {
			t.Fatalf("unexpected rewrite %q", text)
		}
		if gotPath != "/models/gemini-2.0-flash:generateContent" {
			t.Fatalf("wrong path %q", gotPath)
		}
		if gotKey != "g-key" {
			t.Fatal("API key must travel as a query parameter")
		}
	})

	t.Run("unconfigured client refuses to call out", func(t *testing.T) {
		client := newTestClient(t, "", func(http.ResponseWriter, *http.Request) {
			t.Fatal("no request should be made without a key")
		})
		if _, err := client.Rewrite(context.Background(), "x"); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("vendor errors carry status and message", func(t *testing.T) {
		client := newTestClient(t, "g-key", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"key revoked","status":"PERMISSION_DENIED"}}`))
		})

		_, err := client.Rewrite(context.Background(), "x")
		if err == nil || !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "key revoked") {
			t.Fatalf("status and message must be surfaced: %v", err)
		}
	})

	t.Run("empty candidate list is an error", func(t *testing.T) {
		client := newTestClient(t, "g-key", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		})

		if _, err := client.Rewrite(context.Background(), "x"); err == nil {
			t.Fatal("expected error for empty candidates")
		}
	})
}

package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/akorchagin/roomchat-server/internal/config"
	"github.com/akorchagin/roomchat-server/internal/core"
	"github.com/akorchagin/roomchat-server/internal/store"
	"github.com/akorchagin/roomchat-server/internal/store/sqlite"
)

// createTestStore creates an in-memory SQLite store with the schema applied
// and a seeded "general" room.
func createTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if _, err := st.CreateRoom(context.Background(), "general"); err != nil {
		t.Fatalf("failed to seed room: %v", err)
	}

	return st
}

// startTestServer wires a hub and HTTP server around the given store and
// returns a running httptest server.
func startTestServer(t *testing.T, st store.Store) *httptest.Server {
	t.Helper()

	return startTestServerWithConfig(t, st, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		HistoryLimit:      100,
	})
}

// startTestServerWithConfig is startTestServer with caller-controlled config,
// for tests that need a non-default setting such as a message rate limit.
func startTestServerWithConfig(t *testing.T, st store.Store, cfg config.Config) *httptest.Server {
	t.Helper()

	disabledLogger := zerolog.Nop()
	hub := core.NewHub(st, &disabledLogger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := NewServer(hub, st, &cfg, &disabledLogger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

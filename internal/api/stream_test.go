package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/capengine/internal/orchestrator"
	"github.com/wonny/capengine/pkg/logger"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(logger.NewForWriter(io.Discard))

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForClients(t, hub, 1)

	sent := orchestrator.Event{
		RunID:   "20260826",
		Stage:   "ARCHITECT",
		Message: "3 ranked, 1 culled",
		At:      time.Now().UTC(),
	}
	hub.Broadcast(sent)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var received orchestrator.Event
	require.NoError(t, conn.ReadJSON(&received))

	assert.Equal(t, sent.RunID, received.RunID)
	assert.Equal(t, sent.Stage, received.Stage)
	assert.Equal(t, sent.Message, received.Message)
}

func TestHubClientDisconnect(t *testing.T) {
	hub := NewHub(logger.NewForWriter(io.Discard))

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	waitForClients(t, hub, 1)
	conn.Close()
	waitForClients(t, hub, 0)

	// Broadcasting with no clients is a no-op
	hub.Broadcast(orchestrator.Event{RunID: "x"})
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count never reached %d", want)
}

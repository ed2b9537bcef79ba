package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/event"
)

func startHub(t *testing.T) (*Hub, func(userID uuid.UUID, admin bool) *websocket.Conn) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		userID := uuid.MustParse(r.URL.Query().Get("user"))
		client := NewClient(conn, hub, userID, r.URL.Query().Get("admin") == "1")
		if hub.Register(client) {
			client.Run(r.Context())
		}
	}))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	dial := func(userID uuid.UUID, admin bool) *websocket.Conn {
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?user=" + userID.String()
		if admin {
			url += "&admin=1"
		}
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = conn.Close() })
		return conn
	}
	return hub, dial
}

func readEnvelope(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

func TestHub_AdminReceivesAllOwnerOnlyOwn(t *testing.T) {
	hub, dial := startHub(t)
	owner := uuid.New()
	stranger := uuid.New()

	adminConn := dial(uuid.New(), true)
	ownerConn := dial(owner, false)
	strangerConn := dial(stranger, false)

	require.Eventually(t, func() bool { return hub.ClientCount() == 3 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(context.Background(), event.Event{Type: event.ListingApproved, ListingID: 7, OwnerID: owner, Status: "published"})

	env := readEnvelope(t, adminConn)
	assert.Equal(t, event.ListingApproved, env.Type)
	assert.Equal(t, int64(7), env.Data.ListingID)

	env = readEnvelope(t, ownerConn)
	assert.Equal(t, "published", env.Data.Status)

	require.NoError(t, strangerConn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := strangerConn.ReadMessage()
	assert.Error(t, err)
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub, dial := startHub(t)

	conn := dial(uuid.New(), true)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_PublishAfterStopDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Publish(context.Background(), event.Event{Type: event.ReportFiled})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish заблокировался после остановки хаба")
	}
}

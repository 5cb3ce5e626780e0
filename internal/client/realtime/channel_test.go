package realtime

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/instaexplore/instacli/internal/client/models"
	"github.com/instaexplore/instacli/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// pushServer upgrades incoming connections and forwards envelopes written to
// the returned channel. It records the userId query parameter of the last
// connection.
type pushServer struct {
	srv    *httptest.Server
	frames chan Envelope
	userID chan string
}

func newPushServer(t *testing.T) *pushServer {
	t.Helper()
	ps := &pushServer{
		frames: make(chan Envelope, 16),
		userID: make(chan string, 16),
	}
	upgrader := websocket.Upgrader{}
	ps.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps.userID <- r.URL.Query().Get("userId")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for env := range ps.frames {
			if err := conn.WriteJSON(env); err != nil {
				return
			}
		}
	}))
	t.Cleanup(func() {
		close(ps.frames)
		ps.srv.Close()
	})
	return ps
}

func (ps *pushServer) wsURL() string {
	return "ws" + strings.TrimPrefix(ps.srv.URL, "http")
}

func (ps *pushServer) push(t *testing.T, event string, payload any) {
	t.Helper()
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	ps.frames <- Envelope{Event: event, Payload: b}
}

func TestChannel_OpenSendsIdentity(t *testing.T) {
	ps := newPushServer(t)
	c := NewChannel(ps.wsURL(), testLogger())

	require.NoError(t, c.Open(context.Background(), "u1"))
	defer c.Close()

	require.Equal(t, StateOpen, c.State())
	select {
	case id := <-ps.userID:
		require.Equal(t, "u1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("server never saw the connection")
	}
}

func TestChannel_DispatchesTypedEvents(t *testing.T) {
	ps := newPushServer(t)
	c := NewChannel(ps.wsURL(), testLogger())

	online := make(chan []string, 1)
	notes := make(chan models.Notification, 1)
	msgs := make(chan models.Message, 1)
	c.OnOnlineUsers(func(ids []string) { online <- ids })
	c.OnNotification(func(n models.Notification) { notes <- n })
	c.OnNewMessage(func(m models.Message) { msgs <- m })

	require.NoError(t, c.Open(context.Background(), "u1"))
	defer c.Close()

	ps.push(t, EventOnlineUsers, []string{"u2", "u3"})
	ps.push(t, EventNewNotification, models.Notification{ID: "n1", Type: models.NotificationLike})
	ps.push(t, EventNewMessage, models.Message{ID: "m1", Sender: "u2", Content: "hey"})

	select {
	case ids := <-online:
		require.Equal(t, []string{"u2", "u3"}, ids)
	case <-time.After(2 * time.Second):
		t.Fatal("presence event not delivered")
	}
	select {
	case n := <-notes:
		require.Equal(t, "n1", n.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("notification event not delivered")
	}
	select {
	case m := <-msgs:
		require.Equal(t, "hey", m.Content)
	case <-time.After(2 * time.Second):
		t.Fatal("message event not delivered")
	}
}

func TestChannel_UnknownEventIsDropped(t *testing.T) {
	ps := newPushServer(t)
	c := NewChannel(ps.wsURL(), testLogger())

	got := make(chan models.Message, 1)
	c.OnNewMessage(func(m models.Message) { got <- m })

	require.NoError(t, c.Open(context.Background(), "u1"))
	defer c.Close()

	ps.push(t, "somethingElse", map[string]string{"x": "y"})
	ps.push(t, EventNewMessage, models.Message{ID: "m1"})

	select {
	case m := <-got:
		require.Equal(t, "m1", m.ID, "later events still flow after an unknown one")
	case <-time.After(2 * time.Second):
		t.Fatal("message event not delivered")
	}
}

func TestChannel_OpenWhileOpenIsNoop(t *testing.T) {
	ps := newPushServer(t)
	c := NewChannel(ps.wsURL(), testLogger())

	require.NoError(t, c.Open(context.Background(), "u1"))
	defer c.Close()
	require.NoError(t, c.Open(context.Background(), "u1"))

	select {
	case <-ps.userID:
	case <-time.After(2 * time.Second):
		t.Fatal("no connection made")
	}
	select {
	case <-ps.userID:
		t.Fatal("second Open must not dial again")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestChannel_CloseTransitionsToClosed(t *testing.T) {
	ps := newPushServer(t)
	c := NewChannel(ps.wsURL(), testLogger())

	states := make(chan State, 8)
	c.OnStateChange(func(s State) { states <- s })

	require.NoError(t, c.Open(context.Background(), "u1"))
	c.Close()

	require.Equal(t, StateClosed, c.State())
	var seen []State
	for len(states) > 0 {
		seen = append(seen, <-states)
	}
	require.Contains(t, seen, StateOpen)
	require.Equal(t, StateClosed, seen[len(seen)-1])
}

func TestChannel_StaleConnCloseIsNoop(t *testing.T) {
	ps := newPushServer(t)
	c := NewChannel(ps.wsURL(), testLogger())

	require.NoError(t, c.Open(context.Background(), "u1"))
	c.mu.Lock()
	first := c.conn
	c.mu.Unlock()

	// Reopen for a new identity; the first connection's read loop may still
	// be draining its error.
	c.Close()
	require.NoError(t, c.Open(context.Background(), "u2"))
	defer c.Close()

	c.closeConn(first)
	require.Equal(t, StateOpen, c.State(), "old connection must not close the reopened channel")

	c.mu.Lock()
	current := c.conn
	c.mu.Unlock()
	c.closeConn(current)
	require.Equal(t, StateClosed, c.State())
}

func TestChannel_DialFailureLeavesClosed(t *testing.T) {
	c := NewChannel("ws://127.0.0.1:1/socket", testLogger())
	err := c.Open(context.Background(), "u1")
	require.Error(t, err)
	require.Equal(t, StateClosed, c.State())
}

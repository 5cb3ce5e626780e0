// Package realtime maintains the live push connection to the backend. One
// channel is open per active identity; it is receive-only from the client's
// perspective and carries presence updates, new notifications and new direct
// messages as JSON envelopes.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/instaexplore/instacli/internal/client/models"
	"github.com/instaexplore/instacli/internal/logging"
)

// State is the channel lifecycle: Closed -> Connecting -> Open -> Closed.
type State string

const (
	StateClosed     State = "closed"
	StateConnecting State = "connecting"
	StateOpen       State = "open"
)

// Server-pushed event names.
const (
	EventOnlineUsers     = "getOnlineUsers"
	EventNewNotification = "newNotification"
	EventNewMessage      = "newMessage"
)

// Envelope is the wire frame for one pushed event.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Handler consumes the raw payload of one event.
type Handler func(payload json.RawMessage)

// Channel is the websocket connection plus its event dispatch table.
// Handlers are registered before Open; the read loop invokes them
// sequentially, so handlers observe events in arrival order.
//
// There is no reconnect policy here: a read error closes the channel and the
// owner decides whether to open a new one.
type Channel struct {
	endpoint string
	dialer   *websocket.Dialer
	log      logging.Logger

	mu       sync.Mutex
	state    State
	conn     *websocket.Conn
	handlers map[string][]Handler
	onState  []func(State)
}

// NewChannel builds a closed channel pointed at the websocket endpoint, e.g.
// "ws://localhost:5000/socket".
func NewChannel(endpoint string, log logging.Logger) *Channel {
	return &Channel{
		endpoint: endpoint,
		dialer:   websocket.DefaultDialer,
		log:      log,
		state:    StateClosed,
		handlers: make(map[string][]Handler),
	}
}

// State returns the current lifecycle state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnStateChange registers a callback for lifecycle transitions.
func (c *Channel) OnStateChange(fn func(State)) {
	c.mu.Lock()
	c.onState = append(c.onState, fn)
	c.mu.Unlock()
}

func (c *Channel) setState(s State) {
	c.mu.Lock()
	if c.state == s {
		c.mu.Unlock()
		return
	}
	c.state = s
	callbacks := make([]func(State), len(c.onState))
	copy(callbacks, c.onState)
	c.mu.Unlock()

	for _, fn := range callbacks {
		fn(s)
	}
}

// On registers a raw handler for an event name.
func (c *Channel) On(event string, fn Handler) {
	c.mu.Lock()
	c.handlers[event] = append(c.handlers[event], fn)
	c.mu.Unlock()
}

// OnOnlineUsers registers a typed handler for presence snapshots. Each
// snapshot replaces the known online-user set.
func (c *Channel) OnOnlineUsers(fn func(userIDs []string)) {
	c.On(EventOnlineUsers, func(payload json.RawMessage) {
		var users []string
		if err := json.Unmarshal(payload, &users); err != nil {
			c.log.Warn(context.Background(), "bad presence payload", "error", err)
			return
		}
		fn(users)
	})
}

// OnNotification registers a typed handler for pushed notification records.
func (c *Channel) OnNotification(fn func(models.Notification)) {
	c.On(EventNewNotification, func(payload json.RawMessage) {
		var n models.Notification
		if err := json.Unmarshal(payload, &n); err != nil {
			c.log.Warn(context.Background(), "bad notification payload", "error", err)
			return
		}
		fn(n)
	})
}

// OnNewMessage registers a typed handler for pushed direct messages.
func (c *Channel) OnNewMessage(fn func(models.Message)) {
	c.On(EventNewMessage, func(payload json.RawMessage) {
		var m models.Message
		if err := json.Unmarshal(payload, &m); err != nil {
			c.log.Warn(context.Background(), "bad message payload", "error", err)
			return
		}
		fn(m)
	})
}

// Open connects the channel for the given identity. The user id travels as a
// query parameter, matching the backend's presence registration contract.
// Open is a no-op when the channel is already connecting or open.
func (c *Channel) Open(ctx context.Context, userID string) error {
	c.mu.Lock()
	if c.state != StateClosed {
		c.mu.Unlock()
		return nil
	}
	c.state = StateConnecting
	c.mu.Unlock()

	u, err := url.Parse(c.endpoint)
	if err != nil {
		c.setState(StateClosed)
		return fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("userId", userID)
	u.RawQuery = q.Encode()

	conn, _, err := c.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		c.setState(StateClosed)
		return fmt.Errorf("dial realtime channel: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.setState(StateOpen)

	go c.readLoop(conn)
	return nil
}

// Close tears the connection down. Safe to call in any state.
func (c *Channel) Close() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	c.setState(StateClosed)
}

// closeConn closes the channel only if conn is still the current connection.
// A read loop left over from a previous identity must not tear down a channel
// that has since been reopened.
func (c *Channel) closeConn(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn != conn {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.mu.Unlock()

	_ = conn.Close()
	c.setState(StateClosed)
}

func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			// Reconnection is the owner's call; just report and close.
			c.log.Info(context.Background(), "realtime channel closed", "error", err)
			c.closeConn(conn)
			return
		}
		c.dispatch(env)
	}
}

func (c *Channel) dispatch(env Envelope) {
	c.mu.Lock()
	handlers := make([]Handler, len(c.handlers[env.Event]))
	copy(handlers, c.handlers[env.Event])
	c.mu.Unlock()

	if len(handlers) == 0 {
		c.log.Debug(context.Background(), "unhandled realtime event", "event", env.Event)
		return
	}
	for _, fn := range handlers {
		fn(env.Payload)
	}
}

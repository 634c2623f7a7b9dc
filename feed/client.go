// Package feed maintains the persistent change-feed subscription:
// connect, subscribe, translate transaction frames into inventory
// change events, and reconnect with linear backoff when the socket
// drops.
package feed

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kasuganosora/craftmirror/gamestate"
	"github.com/kasuganosora/craftmirror/store"
	"go.uber.org/zap"
)

// State is the client's position in the connect/backoff cycle.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateSubscribed
	StateBackoff
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	case StateBackoff:
		return "backoff"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Options configures the subscription socket.
type Options struct {
	URL         string
	Username    string
	Password    string
	Queries     []string
	BackoffBase time.Duration
	MaxAttempts int
}

// Handler consumes one translated change event. Events are delivered
// sequentially; a frame is fully handled before the next is read.
type Handler func(gamestate.InventoryChange)

// Client runs the subscription until its context is cancelled or the
// attempt ceiling is hit. Catalogs and the identity resolver snapshot
// at each (re)connect, so a reconnect also picks up reloaded tables.
type Client struct {
	opts    Options
	store   *store.Store
	handler Handler
	logger  *zap.Logger
	dialer  *websocket.Dialer

	mu       sync.Mutex
	state    State
	attempts int
	lastErr  error
	events   int64
}

// NewClient creates a Client. Zero option fields fall back to the
// upstream defaults: the inventory table query, a one minute backoff
// base, and 30 attempts.
func NewClient(opts Options, st *store.Store, handler Handler, logger *zap.Logger) *Client {
	if len(opts.Queries) == 0 {
		opts.Queries = []string{"SELECT * FROM InventoryState"}
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = time.Minute
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 30
	}
	return &Client{
		opts:    opts,
		store:   st,
		handler: handler,
		logger:  logger,
		dialer: &websocket.Dialer{
			Subprotocols:     []string{Subprotocol},
			HandshakeTimeout: 30 * time.Second,
		},
	}
}

// backoffDelay is the wait before reconnect attempt n.
func backoffDelay(n int, base time.Duration) time.Duration {
	return time.Duration(n) * base
}

// Run drives the connect/backoff loop. It returns ctx.Err() on
// cancellation, or the last connection error once the attempt ceiling
// is exceeded. Socket errors below the ceiling never escape; they feed
// the backoff cycle.
func (c *Client) Run(ctx context.Context) error {
	for {
		c.setState(StateConnecting)
		err := c.runOnce(ctx)
		if ctx.Err() != nil {
			c.setState(StateDisconnected)
			return ctx.Err()
		}

		c.mu.Lock()
		c.attempts++
		n := c.attempts
		c.lastErr = err
		c.mu.Unlock()

		if n > c.opts.MaxAttempts {
			c.logger.Error("change feed reconnect attempts exhausted, giving up",
				zap.Int("attempts", n-1),
				zap.Error(err))
			c.setState(StateStopped)
			return err
		}

		delay := backoffDelay(n, c.opts.BackoffBase)
		c.logger.Warn("change feed disconnected, reconnecting",
			zap.Int("attempt", n),
			zap.Duration("wait", delay),
			zap.Error(err))
		c.setState(StateBackoff)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			c.setState(StateDisconnected)
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// runOnce performs one full connection lifetime: dial, subscribe, read
// until the socket errors or the context ends.
func (c *Client) runOnce(ctx context.Context) error {
	translator := NewTranslator(
		c.store.Catalogs(ctx),
		NewIdentityResolver(c.store.Users(ctx), c.store.Players(ctx)),
	)

	header := http.Header{}
	if c.opts.Username != "" || c.opts.Password != "" {
		cred := base64.StdEncoding.EncodeToString([]byte(c.opts.Username + ":" + c.opts.Password))
		header.Set("Authorization", "Basic "+cred)
	}

	conn, _, err := c.dialer.DialContext(ctx, c.opts.URL, header)
	if err != nil {
		return fmt.Errorf("dial change feed: %w", err)
	}
	defer conn.Close()

	// Unblock the read loop when the context ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	if err := conn.WriteJSON(subscribeRequest{Subscribe: subscribeBody{QueryStrings: c.opts.Queries}}); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	c.mu.Lock()
	c.state = StateSubscribed
	c.attempts = 0
	c.lastErr = nil
	c.mu.Unlock()
	c.logger.Info("change feed subscribed",
		zap.String("url", c.opts.URL),
		zap.Strings("queries", c.opts.Queries))

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read change feed: %w", err)
		}
		c.handleFrame(translator, raw)
	}
}

// handleFrame decodes one inbound frame and delivers its events.
// Frames that are not transaction updates, or fail to parse, are
// skipped so one bad message never drops the connection.
func (c *Client) handleFrame(translator *Translator, raw []byte) {
	var msg serverMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.logger.Warn("unparseable change feed frame", zap.Error(err))
		return
	}
	if msg.TransactionUpdate == nil {
		return
	}
	for _, event := range translator.Translate(*msg.TransactionUpdate) {
		c.handler(event)
		c.mu.Lock()
		c.events++
		c.mu.Unlock()
	}
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// State reports the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Status describes the client for the ops surface.
type Status struct {
	State     string `json:"state"`
	Attempts  int    `json:"attempts"`
	Events    int64  `json:"events"`
	LastError string `json:"last_error,omitempty"`
}

// Status snapshots the client's state, attempt counter, delivered
// event count and last connection error.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Status{
		State:    c.state.String(),
		Attempts: c.attempts,
		Events:   c.events,
	}
	if c.lastErr != nil {
		st.LastError = c.lastErr.Error()
	}
	return st
}

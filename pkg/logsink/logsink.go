package logsink

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"video_ingest_service/pkg/logger"

	"go.uber.org/zap"
)

// Level event level
type Level string

const (
	// LevelDebug debug level
	LevelDebug Level = "debug"
	// LevelInfo info level
	LevelInfo Level = "info"
	// LevelWarn warn level
	LevelWarn Level = "warn"
	// LevelError error level
	LevelError Level = "error"
)

const (
	defaultBufferSize = 256
	defaultTimeout    = 5 * time.Second
)

// Event is the payload accepted by the remote sink
type Event struct {
	Level   Level          `json:"level"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta"`
}

// Transport deliver one encoded event to the remote sink
type Transport interface {
	Send(ctx context.Context, payload []byte) error
	Close() error
}

// Emitter is what the pipeline depends on
type Emitter interface {
	Emit(level Level, message string, meta map[string]any)
}

// Client send events in the background. Emit never blocks and never fails;
// a full buffer drops the event and a transport error is only logged locally.
type Client struct {
	transport Transport
	source    string
	service   string
	timeout   time.Duration

	mu     sync.RWMutex
	closed bool
	events chan Event
	wg     sync.WaitGroup
}

var _ Emitter = (*Client)(nil)

// Option configure a Client
type Option func(*Client)

// WithBufferSize set the pending event buffer size
func WithBufferSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.events = make(chan Event, n)
		}
	}
}

// WithSource set meta.source on every event
func WithSource(source string) Option {
	return func(c *Client) { c.source = source }
}

// WithService set meta.service on every event
func WithService(service string) Option {
	return func(c *Client) { c.service = service }
}

// WithTimeout set the per-event delivery timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New create a Client and start its delivery worker
func New(transport Transport, opts ...Option) *Client {
	c := &Client{
		transport: transport,
		timeout:   defaultTimeout,
		events:    make(chan Event, defaultBufferSize),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.wg.Add(1)
	go c.run()
	return c
}

// NewNop create a Client that discards every event
func NewNop() *Client {
	return New(NopTransport{})
}

// Emit queue an event for delivery
func (c *Client) Emit(level Level, message string, meta map[string]any) {
	ev := Event{Level: level, Message: message, Meta: c.meta(meta)}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}

	select {
	case c.events <- ev:
	default:
		logger.Log.Warn("log sink buffer full, event dropped", zap.String("message", message))
	}
}

// Info emit an info event
func (c *Client) Info(message string, meta map[string]any) { c.Emit(LevelInfo, message, meta) }

// Error emit an error event
func (c *Client) Error(message string, meta map[string]any) { c.Emit(LevelError, message, meta) }

// Close stop accepting events, flush the pending ones and close the transport
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.events)
	c.mu.Unlock()

	c.wg.Wait()
	return c.transport.Close()
}

func (c *Client) meta(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta)+2)
	for k, v := range meta {
		out[k] = v
	}
	if c.source != "" {
		out["source"] = c.source
	}
	if c.service != "" {
		out["service"] = c.service
	}
	return out
}

func (c *Client) run() {
	defer c.wg.Done()
	for ev := range c.events {
		c.deliver(ev)
	}
}

func (c *Client) deliver(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Log.Warn("log sink encode failed", zap.String("message", ev.Message), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if err := c.transport.Send(ctx, payload); err != nil {
		logger.Log.Warn("log sink delivery failed", zap.String("message", ev.Message), zap.Error(err))
	}
}

// Nop is an Emitter that drops every event without a worker
type Nop struct{}

// Emit do nothing
func (Nop) Emit(Level, string, map[string]any) {}

// NopTransport discard every payload
type NopTransport struct{}

// Send do nothing
func (NopTransport) Send(context.Context, []byte) error { return nil }

// Close do nothing
func (NopTransport) Close() error { return nil }

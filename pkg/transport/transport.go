// Package transport carries mutation buffers over a WebSocket connection.
// Grounded on the teacher's pkg/server websocket framing (Session.ReadLoop
// /SendPatches in pkg/server/websocket.go): a binary message per frame,
// deadline-guarded reads/writes, and IsUnexpectedCloseError filtering for
// the read loop's logging decision. The reactive core (pkg/reactive,
// pkg/engine) never imports this package — spec.md §1 excludes host-side
// transport from the single-threaded runtime; this is purely the optional
// carrier a host wires around it.
package transport

import (
	"errors"
	"io"
	"time"

	"github.com/gorilla/websocket"
)

// Config controls read/write deadlines applied to frames, mirroring the
// teacher's Session.config.ReadTimeout/WriteTimeout fields.
type Config struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Option configures Config.
type Option func(*Config)

// WithReadTimeout sets the per-frame read deadline (default 60s).
func WithReadTimeout(d time.Duration) Option { return func(c *Config) { c.ReadTimeout = d } }

// WithWriteTimeout sets the per-frame write deadline (default 10s).
func WithWriteTimeout(d time.Duration) Option { return func(c *Config) { c.WriteTimeout = d } }

func defaultConfig() Config {
	return Config{ReadTimeout: 60 * time.Second, WriteTimeout: 10 * time.Second}
}

// Conn is the subset of *websocket.Conn this package depends on, so
// callers can substitute a fake in tests without dialing a real socket.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

// Carrier writes and reads whole mutation buffers as binary WebSocket
// messages, one buffer per message (no additional length prefix needed —
// gorilla/websocket already frames messages).
type Carrier struct {
	conn Conn
	cfg  Config
}

// New wraps conn with the given options.
func New(conn Conn, opts ...Option) *Carrier {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Carrier{conn: conn, cfg: cfg}
}

// WriteFrame sends buf as a single binary message, per the teacher's
// SendPatches (deadline set immediately before the write).
func (c *Carrier) WriteFrame(buf []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.BinaryMessage, buf)
}

// ReadFrame blocks for the next binary message and returns its bytes —
// one complete mutation buffer, terminated by the wire format's own
// OpEnd sentinel (spec §4.9), per the teacher's ReadLoop.
//
// ErrClosed is returned for an expected close (going away, normal, or
// abnormal closure); any other error is returned unwrapped for the
// caller to log, matching the teacher's IsUnexpectedCloseError filter.
func (c *Carrier) ReadFrame() ([]byte, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout)); err != nil {
		return nil, err
	}
	_, msg, err := c.conn.ReadMessage()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrClosed
		}
		var closeErr *websocket.CloseError
		if !errors.As(err, &closeErr) {
			return nil, err
		}
		if websocket.IsUnexpectedCloseError(err,
			websocket.CloseGoingAway,
			websocket.CloseAbnormalClosure,
			websocket.CloseNormalClosure) {
			return nil, err
		}
		// err is a close error with one of the expected codes above.
		return nil, ErrClosed
	}
	return msg, nil
}

// ErrClosed indicates the connection closed normally (going away, normal,
// or abnormal closure) rather than failing unexpectedly.
var ErrClosed = errors.New("transport: connection closed")

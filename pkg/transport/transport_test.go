package transport

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type fakeConn struct {
	written      [][]byte
	toRead       [][]byte
	readErr      error
	writeErr     error
	readDeadSet  bool
	writeDeadSet bool
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	if c.readErr != nil {
		return 0, nil, c.readErr
	}
	if len(c.toRead) == 0 {
		return 0, nil, errors.New("no more messages")
	}
	msg := c.toRead[0]
	c.toRead = c.toRead[1:]
	return websocket.BinaryMessage, msg, nil
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.written = append(c.written, data)
	return nil
}

func (c *fakeConn) SetReadDeadline(t time.Time) error  { c.readDeadSet = true; return nil }
func (c *fakeConn) SetWriteDeadline(t time.Time) error { c.writeDeadSet = true; return nil }

func TestWriteFrameSetsDeadlineAndWrites(t *testing.T) {
	conn := &fakeConn{}
	carrier := New(conn)

	if err := carrier.WriteFrame([]byte{1, 2, 3}); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if !conn.writeDeadSet {
		t.Fatal("write deadline was not set")
	}
	if len(conn.written) != 1 {
		t.Fatalf("written frames = %d, want 1", len(conn.written))
	}
}

func TestReadFrameRoundTrip(t *testing.T) {
	conn := &fakeConn{toRead: [][]byte{{9, 8, 7}}}
	carrier := New(conn, WithReadTimeout(5*time.Second))

	buf, err := carrier.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !conn.readDeadSet {
		t.Fatal("read deadline was not set")
	}
	if len(buf) != 3 {
		t.Fatalf("buf len = %d, want 3", len(buf))
	}
}

func TestReadFrameEOFMapsToErrClosed(t *testing.T) {
	conn := &fakeConn{readErr: io.EOF}
	carrier := New(conn)

	_, err := carrier.ReadFrame()
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
}

func TestReadFrameExpectedCloseMapsToErrClosed(t *testing.T) {
	conn := &fakeConn{readErr: &websocket.CloseError{Code: websocket.CloseNormalClosure}}
	carrier := New(conn)

	_, err := carrier.ReadFrame()
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
}

func TestReadFrameUnexpectedCloseIsReturnedRaw(t *testing.T) {
	closeErr := &websocket.CloseError{Code: websocket.CloseProtocolError}
	conn := &fakeConn{readErr: closeErr}
	carrier := New(conn)

	_, err := carrier.ReadFrame()
	if err == nil || errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want the raw unexpected-close error", err)
	}
}


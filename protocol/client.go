package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
)

// Client issues commands to a session handler over a byte stream.
//
// Each method writes one request and blocks until the matching response has
// been read. There are no timeouts; a stalled handler blocks the caller.
type Client struct {
	mu     sync.Mutex
	rw     io.ReadWriter
	closed bool
}

// NewClient creates a client speaking over rw. If rw is also an io.Closer it
// is closed by Close.
func NewClient(rw io.ReadWriter) *Client {
	return &Client{rw: rw}
}

// New asks for a fresh shuffled board of the given size
func (c *Client) New(size int) (bool, error) {
	return c.boolRequest(TagNew, func(buf *bytes.Buffer) error {
		return writeIntArg(buf, size)
	})
}

// Move asks to slide tile into the blank
func (c *Client) Move(tile int) (bool, error) {
	return c.boolRequest(TagMove, func(buf *bytes.Buffer) error {
		return writeIntArg(buf, tile)
	})
}

// Load asks the handler to replace its board with a saved one
func (c *Client) Load(name string) (bool, error) {
	return c.boolRequest(TagLoad, func(buf *bytes.Buffer) error {
		return WriteFilename(buf, name)
	})
}

// Save asks the handler to persist its board under name
func (c *Client) Save(name string) (bool, error) {
	return c.boolRequest(TagSave, func(buf *bytes.Buffer) error {
		return WriteFilename(buf, name)
	})
}

// CheckWin reports whether the board is solved. A solved board is replaced
// with a new one by the handler before it answers.
func (c *Client) CheckWin() (bool, error) {
	return c.boolRequest(TagCheckWin, nil)
}

// FetchBoard returns a copy of the handler's current board
func (c *Client) FetchBoard() (Board, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.send(TagFetchBoard, nil); err != nil {
		return Board{}, err
	}
	board, err := ReadBoard(c.rw)
	if err != nil {
		return Board{}, readError(TagFetchBoard, err)
	}
	return board, nil
}

// Close closes the underlying stream, which ends the session on the handler
// side. Further requests fail with ErrClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if closer, ok := c.rw.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *Client) boolRequest(tag Tag, payload func(*bytes.Buffer) error) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.send(tag, payload); err != nil {
		return false, err
	}
	ok, err := ReadBool(c.rw)
	if err != nil {
		return false, readError(tag, err)
	}
	return ok, nil
}

// writeIntArg frames v as an int32, refusing values that would wrap
func writeIntArg(buf *bytes.Buffer, v int) error {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return fmt.Errorf("%w: %d", ErrOutOfRange, v)
	}
	return WriteInt32(buf, int32(v))
}

// send writes the tag and payload as a single frame. Caller holds mu.
func (c *Client) send(tag Tag, payload func(*bytes.Buffer) error) error {
	if c.closed {
		return ErrClosed
	}

	var buf bytes.Buffer
	if err := WriteTag(&buf, tag); err != nil {
		return &FrameError{Op: "write", Tag: tag, Err: err}
	}
	if payload != nil {
		if err := payload(&buf); err != nil {
			return &FrameError{Op: "write", Tag: tag, Err: err}
		}
	}
	if _, err := c.rw.Write(buf.Bytes()); err != nil {
		return &FrameError{Op: "write", Tag: tag, Err: err}
	}
	return nil
}

func readError(tag Tag, err error) error {
	var fe *FrameError
	if errors.As(err, &fe) {
		return err
	}
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return &FrameError{Op: "read", Tag: tag, Err: err}
}

package protocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for the puzzle protocol.
var (
	// ErrClosed indicates a request was made on a closed client.
	ErrClosed = errors.New("client closed")

	// ErrBoardSize indicates a FetchBoard response declared an impossible size.
	ErrBoardSize = errors.New("board size out of range")

	// ErrOutOfRange indicates a request argument does not fit the int32 wire field.
	ErrOutOfRange = errors.New("argument out of int32 range")
)

// FrameError reports a failure while writing a request or reading its response.
type FrameError struct {
	Op  string // "write" or "read"
	Tag Tag
	Err error
}

// Error implements the error interface.
func (e *FrameError) Error() string {
	return fmt.Sprintf("protocol %s %s: %v", e.Op, e.Tag, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *FrameError) Unwrap() error {
	return e.Err
}

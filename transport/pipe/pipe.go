package pipe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strings"
)

// ErrBadAddress indicates an address that names no supported network
var ErrBadAddress = errors.New("bad address")

// End is one side of an in-process pipe pair
type End struct {
	r *os.File
	w *os.File
}

// New creates a connected pair of ends. Bytes written to one end are read, in
// order, from the other.
func New() (server, client *End, err error) {
	// client -> server
	upR, upW, err := os.Pipe()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create pipe: %w", err)
	}
	// server -> client
	downR, downW, err := os.Pipe()
	if err != nil {
		upR.Close()
		upW.Close()
		return nil, nil, fmt.Errorf("failed to create pipe: %w", err)
	}

	return &End{r: upR, w: downW}, &End{r: downR, w: upW}, nil
}

// Read reads from the peer
func (e *End) Read(p []byte) (int, error) {
	return e.r.Read(p)
}

// Write writes to the peer
func (e *End) Write(p []byte) (int, error) {
	return e.w.Write(p)
}

// Close closes both directions of this end
func (e *End) Close() error {
	werr := e.w.Close()
	rerr := e.r.Close()
	if werr != nil && !errors.Is(werr, os.ErrClosed) {
		return werr
	}
	if rerr != nil && !errors.Is(rerr, os.ErrClosed) {
		return rerr
	}
	return nil
}

// ParseAddr splits addr into a network and an address for package net
func ParseAddr(addr string) (network, address string, err error) {
	switch {
	case strings.HasPrefix(addr, "unix:"):
		network, address = "unix", strings.TrimPrefix(addr, "unix:")
	case strings.HasPrefix(addr, "tcp:"):
		network, address = "tcp", strings.TrimPrefix(addr, "tcp:")
	case strings.Contains(addr, ":"):
		network, address = "tcp", addr
	default:
		return "", "", fmt.Errorf("%w: %q", ErrBadAddress, addr)
	}

	if address == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadAddress, addr)
	}
	return network, address, nil
}

// Listen opens a listener for addr. A stale unix socket file at the same path
// is removed first.
func Listen(addr string) (net.Listener, error) {
	network, address, err := ParseAddr(addr)
	if err != nil {
		return nil, err
	}

	if network == "unix" {
		if err := os.Remove(address); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	ln, err := net.Listen(network, address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ln, nil
}

// Dial connects to a session server at addr
func Dial(ctx context.Context, addr string) (net.Conn, error) {
	network, address, err := ParseAddr(addr)
	if err != nil {
		return nil, err
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, network, address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return conn, nil
}

package codec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/wricardo/slidingpuzzle/game/engine"
)

// ErrMalformed is returned when a save file is truncated or holds a token
// that is not a decimal integer
var ErrMalformed = errors.New("malformed save file")

// Options controls how save files are decoded
type Options struct {
	// VerifyPermutation rejects boards whose cells are not exactly 0..size²-1
	VerifyPermutation bool
}

// DefaultOptions returns the options used when none are configured
func DefaultOptions() Options {
	return Options{VerifyPermutation: true}
}

// Encode writes board to w in save-file format
func Encode(w io.Writer, board *engine.Board) error {
	if board == nil {
		return fmt.Errorf("board cannot be nil")
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d\n", board.Size()); err != nil {
		return fmt.Errorf("failed to write size: %w", err)
	}
	for _, v := range board.Cells() {
		if _, err := fmt.Fprintf(bw, "%d\n", v); err != nil {
			return fmt.Errorf("failed to write cell: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush save file: %w", err)
	}
	return nil
}

// Decode reads a board in save-file format from r. Values may be separated
// by any whitespace; anything after the last cell is ignored.
func Decode(r io.Reader, opts Options) (*engine.Board, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	size, err := nextInt(scanner)
	if err != nil {
		return nil, fmt.Errorf("reading size: %w", err)
	}
	// Checked before allocating the grid
	if !engine.ValidSize(size) {
		return nil, fmt.Errorf("%w: %d", engine.ErrInvalidSize, size)
	}

	cells := make([]int, size*size)
	for i := range cells {
		v, err := nextInt(scanner)
		if err != nil {
			return nil, fmt.Errorf("reading cell %d of %d: %w", i+1, len(cells), err)
		}
		cells[i] = v
	}

	return engine.FromCells(size, cells, opts.VerifyPermutation)
}

// Marshal returns the save-file encoding of board
func Marshal(board *engine.Board) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, board); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a board from save-file bytes
func Unmarshal(data []byte, opts Options) (*engine.Board, error) {
	return Decode(bytes.NewReader(data), opts)
}

func nextInt(scanner *bufio.Scanner) (int, error) {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("%w: unexpected end of file", ErrMalformed)
	}
	v, err := strconv.Atoi(scanner.Text())
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrMalformed, scanner.Text())
	}
	return v, nil
}

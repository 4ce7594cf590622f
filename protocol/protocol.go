package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/wricardo/slidingpuzzle/game/engine"
)

// Tag identifies a command on the wire
type Tag int32

// Command tags
const (
	TagNew Tag = iota
	TagMove
	TagLoad
	TagSave
	TagCheckWin
	TagFetchBoard
)

const (
	// FilenameSize is the fixed width of a filename payload
	FilenameSize = 100
	// MaxFilenameLen is the longest name that survives encoding; one byte is
	// always left for the terminating NUL
	MaxFilenameLen = FilenameSize - 1
)

var byteOrder = binary.NativeEndian

var tagNames = map[Tag]string{
	TagNew:        "new",
	TagMove:       "move",
	TagLoad:       "load",
	TagSave:       "save",
	TagCheckWin:   "check_win",
	TagFetchBoard: "fetch_board",
}

// String returns the command name, or "unknown(n)"
func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int32(t))
}

// Known reports whether t is one of the defined commands
func (t Tag) Known() bool {
	_, ok := tagNames[t]
	return ok
}

// Board is the payload of a FetchBoard response
type Board struct {
	Size  int
	Cells []int
}

// String renders the grid the way the text client prints it
func (b Board) String() string {
	return engine.Render(b.Size, b.Cells)
}

// ReadTag reads the next command tag. It returns io.EOF unchanged when the
// stream ends cleanly before the first byte of a tag.
func ReadTag(r io.Reader) (Tag, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return Tag(int32(byteOrder.Uint32(buf[:]))), nil
}

// WriteTag writes a command tag
func WriteTag(w io.Writer, t Tag) error {
	return WriteInt32(w, int32(t))
}

// ReadInt32 reads one int32 payload field
func ReadInt32(r io.Reader) (int32, error) {
	var buf [4]byte
	if err := readPayload(r, buf[:]); err != nil {
		return 0, err
	}
	return int32(byteOrder.Uint32(buf[:])), nil
}

// WriteInt32 writes one int32 payload field
func WriteInt32(w io.Writer, v int32) error {
	var buf [4]byte
	byteOrder.PutUint32(buf[:], uint32(v))
	_, err := w.Write(buf[:])
	return err
}

// ReadBool reads a one-byte boolean; any non-zero byte is true
func ReadBool(r io.Reader) (bool, error) {
	var buf [1]byte
	if err := readPayload(r, buf[:]); err != nil {
		return false, err
	}
	return buf[0] != 0, nil
}

// WriteBool writes a one-byte boolean
func WriteBool(w io.Writer, v bool) error {
	var b byte
	if v {
		b = 1
	}
	_, err := w.Write([]byte{b})
	return err
}

// EncodeFilename packs name into a fixed NUL-padded field, truncating it to
// MaxFilenameLen bytes
func EncodeFilename(name string) [FilenameSize]byte {
	var field [FilenameSize]byte
	if len(name) > MaxFilenameLen {
		name = name[:MaxFilenameLen]
	}
	copy(field[:], name)
	return field
}

// DecodeFilename returns the bytes of field up to the first NUL
func DecodeFilename(field [FilenameSize]byte) string {
	if i := bytes.IndexByte(field[:], 0); i >= 0 {
		return string(field[:i])
	}
	return string(field[:])
}

// ReadFilename reads a fixed-width filename field
func ReadFilename(r io.Reader) (string, error) {
	var field [FilenameSize]byte
	if err := readPayload(r, field[:]); err != nil {
		return "", err
	}
	return DecodeFilename(field), nil
}

// WriteFilename writes name as a fixed-width filename field
func WriteFilename(w io.Writer, name string) error {
	field := EncodeFilename(name)
	_, err := w.Write(field[:])
	return err
}

// WriteBoard writes a FetchBoard response: the size followed by the cells
func WriteBoard(w io.Writer, size int, cells []int) error {
	if len(cells) != size*size {
		return fmt.Errorf("board of size %d has %d cells", size, len(cells))
	}

	buf := make([]byte, 4*(len(cells)+1))
	byteOrder.PutUint32(buf, uint32(int32(size)))
	for i, v := range cells {
		byteOrder.PutUint32(buf[4*(i+1):], uint32(int32(v)))
	}
	_, err := w.Write(buf)
	return err
}

// ReadBoard reads a FetchBoard response. A size outside the playable range
// is rejected before the grid is read.
func ReadBoard(r io.Reader) (Board, error) {
	size, err := ReadInt32(r)
	if err != nil {
		return Board{}, err
	}
	if !engine.ValidSize(int(size)) {
		return Board{}, &FrameError{Op: "read", Tag: TagFetchBoard, Err: fmt.Errorf("%w: %d", ErrBoardSize, size)}
	}

	n := int(size) * int(size)
	buf := make([]byte, 4*n)
	if err := readPayload(r, buf); err != nil {
		return Board{}, err
	}

	cells := make([]int, n)
	for i := range cells {
		cells[i] = int(int32(byteOrder.Uint32(buf[4*i:])))
	}
	return Board{Size: int(size), Cells: cells}, nil
}

// readPayload fills buf. The stream ending at any point inside a payload is
// reported as io.ErrUnexpectedEOF.
func readPayload(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

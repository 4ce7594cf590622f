package engine

import (
	"fmt"
	"math/rand/v2"
)

// Board is a square grid of tiles with a single blank
type Board struct {
	size  int
	cells [][]int
}

// ValidSize reports whether size is an accepted board dimension
func ValidSize(size int) bool {
	return size >= MinBoardSize && size <= MaxBoardSize
}

// NewBoard creates a board of the given size and scrambles it with mode
func NewBoard(size int, mode ShuffleMode, rng *rand.Rand) (*Board, error) {
	if !ValidSize(size) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	b := newGrid(size)
	if err := b.Shuffle(mode, rng); err != nil {
		return nil, err
	}
	return b, nil
}

// FromCells builds a board from row-major cell values.
// When verify is false the values are taken as-is, even if they are not a
// permutation of 0..size²-1.
func FromCells(size int, cells []int, verify bool) (*Board, error) {
	if !ValidSize(size) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if len(cells) != size*size {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrCellCount, size*size, len(cells))
	}

	b := newGrid(size)
	for i, v := range cells {
		b.cells[i/size][i%size] = v
	}

	if verify {
		if err := b.Validate(); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func newGrid(size int) *Board {
	cells := make([][]int, size)
	for i := range cells {
		cells[i] = make([]int, size)
	}
	return &Board{size: size, cells: cells}
}

// Size returns the board dimension
func (b *Board) Size() int {
	return b.size
}

// Cell returns the value at row, col
func (b *Board) Cell(row, col int) int {
	return b.cells[row][col]
}

// Cells returns a row-major copy of the grid
func (b *Board) Cells() []int {
	out := make([]int, 0, b.size*b.size)
	for _, row := range b.cells {
		out = append(out, row...)
	}
	return out
}

// Snapshot returns a copyable view of the board
func (b *Board) Snapshot() Snapshot {
	return Snapshot{
		Size:   b.size,
		Cells:  b.Cells(),
		Solved: b.IsSolved(),
	}
}

// Clone returns a deep copy of the board
func (b *Board) Clone() *Board {
	c := newGrid(b.size)
	for i, row := range b.cells {
		copy(c.cells[i], row)
	}
	return c
}

// Equal reports whether both boards have the same size and cells
func (b *Board) Equal(o *Board) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.size != o.size {
		return false
	}
	for i := range b.cells {
		for j := range b.cells[i] {
			if b.cells[i][j] != o.cells[i][j] {
				return false
			}
		}
	}
	return true
}

// Validate checks that every value in 0..size²-1 appears exactly once
func (b *Board) Validate() error {
	n := b.size * b.size
	seen := make([]bool, n)
	for _, row := range b.cells {
		for _, v := range row {
			if v < 0 || v >= n || seen[v] {
				return fmt.Errorf("%w: bad or repeated value %d", ErrNotPermutation, v)
			}
			seen[v] = true
		}
	}
	return nil
}

// LocateTile finds the cell holding value. Value 0 locates the blank.
func (b *Board) LocateTile(value int) (Position, bool) {
	for i, row := range b.cells {
		for j, v := range row {
			if v == value {
				return Position{Row: i, Col: j}, true
			}
		}
	}
	return Position{}, false
}

// IsMoveLegal reports whether tile sits one orthogonal step from the blank
func (b *Board) IsMoveLegal(tile int) bool {
	if tile < 1 || tile > b.size*b.size-1 {
		return false
	}

	tilePos, ok := b.LocateTile(tile)
	if !ok {
		return false
	}
	blankPos, ok := b.LocateTile(Blank)
	if !ok {
		return false
	}

	// Diagonal neighbours have distance 2
	return ManhattanDistance(tilePos, blankPos) == 1
}

// ApplyMove slides tile into the blank. The board is untouched when the
// move is not legal.
func (b *Board) ApplyMove(tile int) error {
	if !b.IsMoveLegal(tile) {
		return fmt.Errorf("%w: tile %d", ErrIllegalMove, tile)
	}
	b.relocateBlank(tile)
	return nil
}

// relocateBlank swaps the blank with the cell holding tile, without any
// adjacency or range check. Unknown values leave the board unchanged.
func (b *Board) relocateBlank(tile int) {
	tilePos, ok := b.LocateTile(tile)
	if !ok {
		return
	}
	blankPos, ok := b.LocateTile(Blank)
	if !ok {
		return
	}
	b.cells[tilePos.Row][tilePos.Col] = Blank
	b.cells[blankPos.Row][blankPos.Col] = tile
}

// Shuffle scrambles the board in place
func (b *Board) Shuffle(mode ShuffleMode, rng *rand.Rand) error {
	switch mode {
	case ShuffleLegal, "":
		b.shuffleLegal(rng)
	case ShuffleClassic:
		b.shuffleClassic(rng)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownShuffle, mode)
	}
	return nil
}

func (b *Board) shuffleClassic(rng *rand.Rand) {
	b.fillDescending()
	n := b.size * b.size
	for i := 0; i < n; i++ {
		b.relocateBlank(rng.IntN(n))
	}
}

func (b *Board) shuffleLegal(rng *rand.Rand) {
	b.fillSolved()
	steps := b.size * b.size
	last := Blank
	for i := 0; i < steps || b.IsSolved(); i++ {
		candidates := b.MovableTiles()
		if len(candidates) > 1 {
			candidates = without(candidates, last)
		}
		tile := candidates[rng.IntN(len(candidates))]
		b.relocateBlank(tile)
		last = tile
	}
}

// MovableTiles returns the tiles orthogonally adjacent to the blank
func (b *Board) MovableTiles() []int {
	blankPos, ok := b.LocateTile(Blank)
	if !ok {
		return nil
	}

	directions := []Position{
		{Row: -1, Col: 0}, // Up
		{Row: 1, Col: 0},  // Down
		{Row: 0, Col: -1}, // Left
		{Row: 0, Col: 1},  // Right
	}

	var tiles []int
	for _, d := range directions {
		r, c := blankPos.Row+d.Row, blankPos.Col+d.Col
		if r >= 0 && r < b.size && c >= 0 && c < b.size {
			tiles = append(tiles, b.cells[r][c])
		}
	}
	return tiles
}

// fillDescending writes size²-1 ... 1, 0 in row-major order
func (b *Board) fillDescending() {
	next := b.size*b.size - 1
	for i := range b.cells {
		for j := range b.cells[i] {
			b.cells[i][j] = next
			next--
		}
	}
}

// fillSolved writes 1 ... size²-1, 0 in row-major order
func (b *Board) fillSolved() {
	n := b.size * b.size
	for i := range b.cells {
		for j := range b.cells[i] {
			b.cells[i][j] = (i*b.size + j + 1) % n
		}
	}
}

// IsSolved reports whether the tiles read 1, 2, 3, ... in row-major order.
// The blank may be anywhere.
func (b *Board) IsSolved() bool {
	expected := 1
	for _, row := range b.cells {
		for _, v := range row {
			if v == Blank {
				continue
			}
			if v != expected {
				return false
			}
			expected++
		}
	}
	return true
}

// IsSolvable reports whether legal moves can reach a layout IsSolved accepts.
// Vertical blank moves flip inversion parity on even sizes, so every valid
// permutation of an even board reaches some row-major layout. Odd sizes keep
// inversion parity fixed and need an even count.
func (b *Board) IsSolvable() bool {
	if b.Validate() != nil {
		return false
	}
	if b.size%2 == 0 {
		return true
	}
	return Inversions(b.Cells())%2 == 0
}

// ManhattanDistance returns the summed distance of every tile from its goal cell
func (b *Board) ManhattanDistance() int {
	total := 0
	for i, row := range b.cells {
		for j, v := range row {
			if v == Blank {
				continue
			}
			total += ManhattanDistance(Position{Row: i, Col: j}, GoalPosition(v, b.size))
		}
	}
	return total
}

// Misplaced counts tiles that are not on their goal cell
func (b *Board) Misplaced() int {
	count := 0
	for i, row := range b.cells {
		for j, v := range row {
			if v != Blank && GoalPosition(v, b.size) != (Position{Row: i, Col: j}) {
				count++
			}
		}
	}
	return count
}

// String renders the board the way the text client prints it
func (b *Board) String() string {
	return Render(b.size, b.Cells())
}

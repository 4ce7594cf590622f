package engine

import (
	"fmt"
	"strings"
)

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dr := from.Row - to.Row
	if dr < 0 {
		dr = -dr
	}
	dc := from.Col - to.Col
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// GoalPosition returns where tile belongs on a solved board of the given size
func GoalPosition(tile, size int) Position {
	return Position{Row: (tile - 1) / size, Col: (tile - 1) % size}
}

// Inversions counts pairs of tiles that appear in the wrong relative order,
// ignoring the blank
func Inversions(cells []int) int {
	count := 0
	for i := 0; i < len(cells); i++ {
		if cells[i] == Blank {
			continue
		}
		for j := i + 1; j < len(cells); j++ {
			if cells[j] != Blank && cells[i] > cells[j] {
				count++
			}
		}
	}
	return count
}

// Render formats row-major cells as a grid: three columns per tile and
// three spaces for the blank
func Render(size int, cells []int) string {
	var sb strings.Builder
	for i, v := range cells {
		if v == Blank {
			sb.WriteString("   ")
		} else {
			fmt.Fprintf(&sb, "%3d", v)
		}
		if size > 0 && (i+1)%size == 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// without returns values minus every occurrence of v
func without(values []int, v int) []int {
	out := make([]int, 0, len(values))
	for _, x := range values {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

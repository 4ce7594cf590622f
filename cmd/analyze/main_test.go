package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/slidingpuzzle/game/engine"
)

func TestAnalyzeBoard(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		cells []int
		want  []string
	}{
		{
			name:  "solvable",
			size:  2,
			cells: []int{3, 1, 2, 0},
			want: []string{
				"Grid Size: 2 x 2",
				"  3  1\n  2   \n",
				"Blank Position: row 1, col 1",
				"Inversions: 2",
				"Manhattan Distance: 4",
				"Misplaced Tiles: 3 of 3",
				"Movable Tiles: [1 2]",
				"Solvable with legal moves",
			},
		},
		{
			name:  "solved",
			size:  2,
			cells: []int{0, 1, 2, 3},
			want:  []string{"Already solved", "Blank Position: row 0, col 0"},
		},
		{
			name:  "even size swap still winnable",
			size:  2,
			cells: []int{2, 1, 3, 0},
			want:  []string{"Solvable with legal moves"},
		},
		{
			name:  "unsolvable",
			size:  3,
			cells: []int{2, 1, 3, 4, 5, 6, 7, 8, 0},
			want:  []string{"Inversions: 1", "can never be solved"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board, err := engine.FromCells(tt.size, tt.cells, true)
			if err != nil {
				t.Fatalf("Failed to build board: %v", err)
			}

			var buf bytes.Buffer
			analyzeBoard(&buf, board)

			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("Expected %q in output:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestAnalyzeFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.txt")
	if err := os.WriteFile(good, []byte("2\n3\n1\n2\n0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := analyzeFile(&buf, good); err != nil {
		t.Fatalf("analyzeFile failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Grid Size: 2 x 2") {
		t.Errorf("Unexpected output:\n%s", buf.String())
	}

	bad := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(bad, []byte("2\n1\n1\n3\n0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := analyzeFile(&buf, bad); err == nil || !strings.Contains(err.Error(), "decoding board") {
		t.Errorf("Expected decode error, got %v", err)
	}

	if err := analyzeFile(&buf, filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("Expected error for missing file")
	}
}

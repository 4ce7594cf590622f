// Package validate checks puzzle save files. It reports:
//   - Files that do not decode (bad size, short, non-numeric values)
//   - Boards whose cells are not a permutation of 0..size²-1
//   - Boards that cannot reach the solved layout with legal moves
//   - Boards that are already solved
package validate

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/slidingpuzzle/game/codec"
)

// Result captures the outcome of validating a single file.
// Valid is false when the file cannot be loaded. Notes holds informational
// findings that do not prevent loading.
type Result struct {
	File   string
	Size   int
	Valid  bool
	Errors []string
	Notes  []string
}

// File validates one save file
func File(path string) Result {
	result := Result{
		File:  path,
		Valid: true,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	// Structure first, then the permutation check on its own so both kinds of
	// failure get a distinct message
	board, err := codec.Unmarshal(data, codec.Options{VerifyPermutation: false})
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Malformed save: %v", err))
		return result
	}
	result.Size = board.Size()

	if err := board.Validate(); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	result.Notes = append(result.Notes, fmt.Sprintf("✓ %dx%d board", board.Size(), board.Size()))

	switch {
	case board.IsSolved():
		result.Notes = append(result.Notes, "✓ Already solved")
	case board.IsSolvable():
		result.Notes = append(result.Notes, fmt.Sprintf("✓ Solvable (manhattan %d, misplaced %d)",
			board.ManhattanDistance(), board.Misplaced()))
	default:
		result.Notes = append(result.Notes, "⚠ Unsolvable: loads, but can never be won")
	}

	return result
}

// Dir validates every save file under dir. Hidden files and in-progress
// temporary saves are skipped.
func Dir(dir string) ([]Result, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	sort.Strings(paths)

	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		results = append(results, File(path))
	}
	return results, nil
}

// Report prints a concise report and returns true if every file is valid
func Report(w io.Writer, results []Result) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, note := range result.Notes {
				fmt.Fprintln(w, "  "+note)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	switch {
	case len(results) == 0:
		fmt.Fprintln(w, "No save files found")
	case allValid:
		fmt.Fprintln(w, "✅ All save files are valid!")
	default:
		fmt.Fprintln(w, "❌ Some save files have errors")
	}
	return allValid
}

package validate

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSave(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write save: %v", err)
	}
	return path
}

func TestFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name      string
		content   string
		wantValid bool
		wantText  string
	}{
		{"solvable", "2\n3\n1\n2\n0\n", true, "Solvable"},
		{"solved", "2\n1\n2\n3\n0\n", true, "Already solved"},
		{"even size swap", "2\n2\n1\n3\n0\n", true, "Solvable"},
		{"unsolvable", "3\n2\n1\n3\n4\n5\n6\n7\n8\n0\n", true, "Unsolvable"},
		{"short", "2\n1\n2\n", false, "Malformed save"},
		{"bad size", "11\n", false, "Malformed save"},
		{"not a number", "2\n1\nx\n3\n0\n", false, "Malformed save"},
		{"duplicate", "2\n1\n1\n3\n0\n", false, "not a permutation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := File(writeSave(t, dir, tt.name, tt.content))

			if result.Valid != tt.wantValid {
				t.Fatalf("Expected valid=%v, got %v (errors: %v)", tt.wantValid, result.Valid, result.Errors)
			}

			all := strings.Join(append(result.Errors, result.Notes...), "\n")
			if !strings.Contains(all, tt.wantText) {
				t.Errorf("Expected %q in findings, got:\n%s", tt.wantText, all)
			}
		})
	}
}

func TestFile_Missing(t *testing.T) {
	result := File(filepath.Join(t.TempDir(), "nope"))
	if result.Valid {
		t.Error("Missing file should be invalid")
	}
	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], "Failed to read file") {
		t.Errorf("Unexpected errors: %v", result.Errors)
	}
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	writeSave(t, dir, "b.txt", "2\n3\n1\n2\n0\n")
	writeSave(t, dir, "a.txt", "2\n1\n2\n")
	writeSave(t, dir, ".tmp-123", "garbage")
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	writeSave(t, dir, "nested/c.txt", "3\n1\n2\n3\n4\n5\n6\n7\n8\n0\n")

	results, err := Dir(dir)
	if err != nil {
		t.Fatalf("Dir failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	if filepath.Base(results[0].File) != "a.txt" || results[0].Valid {
		t.Errorf("Expected invalid a.txt first, got %+v", results[0])
	}
	if results[2].Size != 3 {
		t.Errorf("Expected nested 3x3 board, got size %d", results[2].Size)
	}

	if _, err := Dir(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	ok := Report(&buf, []Result{
		{File: "good", Valid: true, Notes: []string{"✓ 2x2 board"}},
	})
	if !ok {
		t.Error("Expected all valid")
	}
	if !strings.Contains(buf.String(), "✅ VALID") || !strings.Contains(buf.String(), "All save files are valid") {
		t.Errorf("Unexpected report:\n%s", buf.String())
	}

	buf.Reset()
	ok = Report(&buf, []Result{
		{File: "good", Valid: true},
		{File: "bad", Valid: false, Errors: []string{"broken"}},
	})
	if ok {
		t.Error("Expected failure")
	}
	if !strings.Contains(buf.String(), "❌ broken") {
		t.Errorf("Unexpected report:\n%s", buf.String())
	}

	buf.Reset()
	Report(&buf, nil)
	if !strings.Contains(buf.String(), "No save files found") {
		t.Errorf("Unexpected report:\n%s", buf.String())
	}
}

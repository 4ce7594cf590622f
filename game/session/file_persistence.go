package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/slidingpuzzle/game/codec"
	"github.com/wricardo/slidingpuzzle/game/engine"
	"github.com/wricardo/slidingpuzzle/game/service"
)

// tempPrefix marks in-flight writes; such files are never listed
const tempPrefix = ".tmp-"

// FilePersistence implements service.BoardStore with one save file per name
type FilePersistence struct {
	baseDir string
	opts    codec.Options
}

// NewFilePersistence creates a file-based board store rooted at baseDir
func NewFilePersistence(baseDir string, opts codec.Options) (*FilePersistence, error) {
	// Create save directory if it doesn't exist
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}

	return &FilePersistence{
		baseDir: baseDir,
		opts:    opts,
	}, nil
}

// Dir returns the directory holding the save files
func (fp *FilePersistence) Dir() string {
	return fp.baseDir
}

// Save writes board to the named file. The file is replaced atomically so a
// failed write never leaves a truncated save behind.
func (fp *FilePersistence) Save(ctx context.Context, name string, board *engine.Board) error {
	if board == nil {
		return fmt.Errorf("board cannot be nil")
	}

	path, err := fp.getFilePath(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create save file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := codec.Encode(tmp, board); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write save file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write save file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to write save file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write save file: %w", err)
	}

	return nil
}

// Load reads and decodes the named save file
func (fp *FilePersistence) Load(ctx context.Context, name string) (*engine.Board, error) {
	path, err := fp.getFilePath(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", service.ErrSaveNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open save file: %w", err)
	}
	defer f.Close()

	board, err := codec.Decode(f, fp.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return board, nil
}

// Delete removes a save file
func (fp *FilePersistence) Delete(ctx context.Context, name string) error {
	path, err := fp.getFilePath(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", service.ErrSaveNotFound, name)
		}
		return fmt.Errorf("failed to remove save file: %w", err)
	}
	return nil
}

// List returns the names of all save files, including those in
// subdirectories, sorted
func (fp *FilePersistence) List(ctx context.Context) ([]string, error) {
	var names []string
	err := filepath.WalkDir(fp.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), tempPrefix) {
			return nil
		}
		rel, err := filepath.Rel(fp.baseDir, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read save directory: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// Exists checks if a save file exists
func (fp *FilePersistence) Exists(ctx context.Context, name string) bool {
	path, err := fp.getFilePath(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// getFilePath returns the full file path for a save name
func (fp *FilePersistence) getFilePath(name string) (string, error) {
	clean, err := cleanSaveName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(fp.baseDir, filepath.FromSlash(clean)), nil
}

package session

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wricardo/slidingpuzzle/game/service"
)

// Both stores satisfy the service's storage contract
var (
	_ service.BoardStore = (*FilePersistence)(nil)
	_ service.BoardStore = (*RedisPersistence)(nil)
)

// cleanSaveName normalises a save name. Names must stay inside the store:
// absolute paths and parent references are rejected.
func cleanSaveName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty", service.ErrInvalidName)
	}
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %q escapes the save directory", service.ErrInvalidName, name)
	}
	return filepath.ToSlash(filepath.Clean(name)), nil
}

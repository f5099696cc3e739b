// ABOUTME: Directory-backed content repository.
// ABOUTME: Reads the content JSON files from a local data directory.
package content

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// DirRepository reads content files from a directory.
type DirRepository struct {
	dir    string
	logger *slog.Logger
}

// NewDirRepository creates a repository rooted at dir.
func NewDirRepository(dir string, logger *slog.Logger) *DirRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirRepository{dir: dir, logger: logger}
}

// Dir returns the directory the repository reads from.
func (d *DirRepository) Dir() string {
	return d.dir
}

// Load reads every content file.
func (d *DirRepository) Load(ctx context.Context) (*Bundle, error) {
	return loadBundle(ctx, d.read, d.logger)
}

func (d *DirRepository) read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(d.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

package draft

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sakif/genfolio/internal/model"
)

// FileStore keeps each draft as <dir>/<key>.json. It is the local-device
// store used by the CLI.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates dir if needed.
func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("draft: creating %s: %w", dir, err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

// Path returns the file a key is stored in.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, safeName(key)+".json")
}

func (s *FileStore) Load(_ context.Context, key string) (*model.ProfileRecord, error) {
	path := s.Path(key)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoDraft
	}
	if err != nil {
		return nil, fmt.Errorf("draft: reading %s: %w", path, err)
	}

	p, err := decode(data)
	if err != nil {
		s.logger.Warn("discarding corrupt draft",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			return nil, fmt.Errorf("draft: removing corrupt %s: %w", path, rmErr)
		}
		return nil, ErrNoDraft
	}
	return p, nil
}

// Save writes to a temp file and renames it over the old draft, so a crash
// mid-write leaves the previous draft intact.
func (s *FileStore) Save(_ context.Context, key string, p *model.ProfileRecord) error {
	data, err := encode(p)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".draft-*")
	if err != nil {
		return fmt.Errorf("draft: creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("draft: writing: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("draft: writing: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path(key)); err != nil {
		return fmt.Errorf("draft: saving: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(_ context.Context, key string) error {
	err := os.Remove(s.Path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("draft: clearing: %w", err)
	}
	return nil
}

// safeName maps a key onto a file name without path separators.
func safeName(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, key)
}

// Package disk stores uploaded media on the local filesystem under an uploads
// directory, serving them at the /uploads/<name> path convention.
package disk

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"regdesk/internal/media"
)

// Store writes media files to a local directory.
type Store struct {
	dir     string
	baseURL string
}

// New constructs a disk-backed media store. baseURL may be empty, in which
// case returned URLs are root-relative (/uploads/<name>).
func New(dir, baseURL string) *Store {
	return &Store{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *Store) Save(ctx context.Context, kind media.Kind, file *media.File) (string, error) {
	if file == nil {
		return "", fmt.Errorf("file is required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}

	name := generatedName(kind, file.Filename)
	dest := filepath.Join(s.dir, name)

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	if _, err := io.Copy(out, file.Content); err != nil {
		out.Close()             //nolint:errcheck // cleanup path
		_ = os.Remove(dest)     // no partial files left behind
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("close upload file: %w", err)
	}

	return s.baseURL + "/uploads/" + name, nil
}

// generatedName keeps the original extension but replaces the client-supplied
// name with a UUID so uploads cannot collide or traverse paths.
func generatedName(kind media.Kind, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" {
		switch kind {
		case media.KindPhoto:
			ext = ".jpg"
		case media.KindVideo:
			ext = ".mp4"
		}
	}
	return string(kind) + "-" + uuid.New().String() + ext
}

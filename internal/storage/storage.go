package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskflow/taskflow-api/internal/constants"
)

var ErrInvalidKey = errors.New("storage: invalid key")

// BlobStorage stores attachment content under generated keys.
type BlobStorage interface {
	// Save writes r under key and returns the number of bytes written.
	Save(ctx context.Context, key string, r io.Reader) (int64, error)
	// Delete removes the content stored under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the path or URL the content is served from.
	URL(key string) string
}

// AttachmentKey builds a unique key of the form
// task_attachments/YYYY/MM/DD/<uuid>-<name> for an uploaded file.
func AttachmentKey(now time.Time, fileName string) string {
	return path.Join(
		constants.AttachmentKeyPrefix,
		now.Format("2006/01/02"),
		uuid.NewString()+"-"+sanitizeFileName(fileName),
	)
}

func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" || name == ".." {
		return "file"
	}
	return name
}

// cleanKey validates key and returns it in slash form, relative to the storage root.
func cleanKey(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean("/" + filepath.ToSlash(key))[1:]
	if cleaned == "" || cleaned != filepath.ToSlash(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return cleaned, nil
}

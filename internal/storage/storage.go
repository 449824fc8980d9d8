package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
)

// FileStore persists an uploaded file and returns its public URL.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// URLStub consumes the upload and returns a URL under BaseURL without
// storing anything. It stands in until an object store is wired up.
type URLStub struct {
	BaseURL string
}

func (s URLStub) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := uuid.NewString() + "-" + CleanName(name)
	return strings.TrimRight(s.BaseURL, "/") + "/" + url.PathEscape(key), nil
}

// CleanName strips directories and whitespace from a client-supplied file name.
func CleanName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Join(strings.Fields(name), "_")
	if name == "" || name == "." || name == "/" {
		return "file"
	}
	return name
}

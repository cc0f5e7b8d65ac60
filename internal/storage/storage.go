// Package storage provides attachment blob storage behind a small
// interface so the delivery path only ever deals in path handles.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// BlobStore persists attachment blobs and hands back opaque path keys.
type BlobStore interface {
	// Save stores the blob under a timestamp-qualified, sanitized key
	// derived from originalName and returns that key.
	Save(ctx context.Context, r io.Reader, originalName string) (string, error)
	// Open returns a reader for a previously saved blob.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes a blob. Used to clean up after a failed delivery.
	Delete(ctx context.Context, key string) error
}

// SanitizeFilename strips directory components and any character outside
// [A-Za-z0-9._-] from a client-supplied filename.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" {
		return "file"
	}
	return cleaned
}

// storageKey qualifies a sanitized filename with the current time so two
// uploads of the same file never collide.
func storageKey(originalName string) string {
	return fmt.Sprintf("%d_%s", time.Now().UnixNano(), SanitizeFilename(originalName))
}

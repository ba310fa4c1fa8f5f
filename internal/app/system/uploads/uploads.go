// Package uploads stores user-submitted files (complaint photos, leaf
// images, profile pictures) behind the configured storage backend.
package uploads

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
)

// Info contains metadata about an uploaded file.
type Info struct {
	Path        string
	FileName    string
	Size        int64
	ContentType string
}

// Save stores a file with a unique path and returns upload info.
// The path is generated as: <category>/YYYY/MM/uuid-filename
func Save(ctx context.Context, store storage.Store, category, filename string, reader io.Reader, size int64, contentType string) (Info, error) {
	now := time.Now().UTC()
	dateDir := fmt.Sprintf("%s/%04d/%02d", category, now.Year(), now.Month())
	uniqueName := fmt.Sprintf("%s-%s", uuid.New().String()[:8], SanitizeFilename(filename))
	path := filepath.ToSlash(filepath.Join(dateDir, uniqueName))

	opts := &storage.PutOptions{
		ContentType: contentType,
	}
	if err := store.Put(ctx, path, reader, opts); err != nil {
		return Info{}, fmt.Errorf("failed to upload file: %w", err)
	}

	return Info{
		Path:        path,
		FileName:    filename,
		Size:        size,
		ContentType: contentType,
	}, nil
}

// Delete removes a stored file. Missing files are not an error worth
// surfacing to callers; they pass the result to a log and move on.
func Delete(ctx context.Context, store storage.Store, path string) error {
	if path == "" {
		return nil
	}
	return store.Delete(ctx, path)
}

// SanitizeFilename removes or replaces characters that could be problematic
// in filenames.
func SanitizeFilename(filename string) string {
	// Strip any path components first
	filename = filepath.Base(filename)

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 {
		return "file"
	}
	if len(result) > 100 {
		// Truncate but preserve extension if present
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}

	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}

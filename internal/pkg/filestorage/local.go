package filestorage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/eduadmin/internal/pkg/logger"
)

// LocalStorage saves files under a directory that the HTTP server exposes at /uploads
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates basePath if needed. Returned URLs are baseURL + "/uploads/<subPath>/<name>".
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// Save copies the upload to basePath/subPath under a random name
func (ls *LocalStorage) Save(_ context.Context, fileHeader *multipart.FileHeader, subPath, contentType string) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	subPath = cleanSubPath(subPath)
	dir := filepath.Join(ls.basePath, filepath.FromSlash(subPath))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	ext := extensionFor(contentType)
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(fileHeader.Filename))
	}
	name := uuid.NewString() + ext
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	url := ls.baseURL + "/" + path.Join("uploads", subPath, name)
	logger.Info().Str("filename", fileHeader.Filename).Str("url", url).Msg("File saved")
	return url, nil
}

// Delete removes the file behind a URL returned by Save
func (ls *LocalStorage) Delete(_ context.Context, fileURL string) error {
	idx := strings.Index(fileURL, "/uploads/")
	if idx < 0 {
		return nil
	}
	rel := filepath.FromSlash(path.Clean(fileURL[idx+len("/uploads/"):]))
	if rel == "." || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("invalid file path: %s", fileURL)
	}

	if err := os.Remove(filepath.Join(ls.basePath, rel)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

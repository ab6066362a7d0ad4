package filestorage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"
)

// ErrInvalidImage is returned when an upload is not an acceptable image
var ErrInvalidImage = errors.New("invalid image upload")

// FileStorage stores uploaded files and returns the URL they are served from
type FileStorage interface {
	// Save stores the upload under subPath with a generated name and returns its public URL.
	// contentType is the type reported by ValidateImage.
	Save(ctx context.Context, fileHeader *multipart.FileHeader, subPath, contentType string) (string, error)

	// Delete removes a file previously returned by Save. Unknown files are not an error.
	Delete(ctx context.Context, fileURL string) error
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ValidateImage checks the size limit and sniffs the first bytes of the upload for an image
// type. It returns the detected content type.
func ValidateImage(fileHeader *multipart.FileHeader, maxBytes int64) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("%w: no file", ErrInvalidImage)
	}
	if fileHeader.Size > maxBytes {
		return "", fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidImage, maxBytes)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	head := make([]byte, 512)
	n, _ := file.Read(head)
	contentType := http.DetectContentType(head[:n])
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	if _, ok := allowedImageTypes[contentType]; !ok {
		return "", fmt.Errorf("%w: unsupported content type %s", ErrInvalidImage, contentType)
	}
	return contentType, nil
}

// extensionFor picks the stored file extension from the sniffed type
func extensionFor(contentType string) string {
	if ext, ok := allowedImageTypes[contentType]; ok {
		return ext
	}
	return ""
}

// cleanSubPath turns subPath into a slash-separated relative path that cannot escape the root
func cleanSubPath(subPath string) string {
	return strings.Trim(path.Clean("/"+filepath.ToSlash(subPath)), "/")
}

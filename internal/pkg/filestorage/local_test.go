package filestorage

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// fileHeader builds a *multipart.FileHeader the way gin receives one
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["photo"][0]
}

func TestValidateImage(t *testing.T) {
	contentType, err := ValidateImage(fileHeader(t, "me.png", pngBytes), 1024)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)

	_, err = ValidateImage(fileHeader(t, "me.png", []byte("plain text pretending")), 1024)
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = ValidateImage(fileHeader(t, "me.png", pngBytes), 10)
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = ValidateImage(nil, 1024)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestCleanSubPath(t *testing.T) {
	assert.Equal(t, "profile-photos/3", cleanSubPath("profile-photos/3"))
	assert.Equal(t, "etc", cleanSubPath("../../etc"))
	assert.Equal(t, "", cleanSubPath(""))
}

func TestLocalStorageSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir, "http://localhost:8080/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := storage.Save(ctx, fileHeader(t, "me.png", pngBytes), "profile-photos/5", "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/profile-photos/5/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	rel := strings.TrimPrefix(url, "http://localhost:8080/uploads/")
	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, stored)

	require.NoError(t, storage.Delete(ctx, url))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))

	// already gone
	assert.NoError(t, storage.Delete(ctx, url))
	assert.NoError(t, storage.Delete(ctx, "https://elsewhere.example/avatar.png"))
}

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	deletes []string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3StorageSaveAndDelete(t *testing.T) {
	client := &fakeS3{}
	storage := newS3Storage(client, "photos", "https://cdn.example.edu")
	ctx := context.Background()

	url, err := storage.Save(ctx, fileHeader(t, "me.png", pngBytes), "profile-photos/9", "image/png")
	require.NoError(t, err)
	require.Len(t, client.puts, 1)

	put := client.puts[0]
	assert.Equal(t, "photos", aws.ToString(put.Bucket))
	assert.Equal(t, "image/png", aws.ToString(put.ContentType))
	assert.True(t, strings.HasPrefix(aws.ToString(put.Key), "profile-photos/9/"))
	assert.Equal(t, "https://cdn.example.edu/"+aws.ToString(put.Key), url)

	require.NoError(t, storage.Delete(ctx, url))
	assert.Equal(t, []string{aws.ToString(put.Key)}, client.deletes)

	require.NoError(t, storage.Delete(ctx, "http://localhost/uploads/x.png"))
	assert.Len(t, client.deletes, 1)
}

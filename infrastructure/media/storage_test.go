package media

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadHeader(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	_, header, err := req.FormFile("file")
	require.NoError(t, err)
	return header
}

func TestLocalStorage_SaveAndResolve(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir, "http://localhost:10010")
	require.NoError(t, err)

	url, err := storage.Save(uploadHeader(t, "clip.mp4", "video-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:10010/media/"))
	assert.True(t, strings.HasSuffix(url, "_clip.mp4"))

	path, ok := storage.ResolveLocal(url)
	require.True(t, ok)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "video-bytes", string(data))
}

func TestLocalStorage_ResolveRejectsRemoteURLs(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "http://localhost:10010")
	require.NoError(t, err)

	_, ok := storage.ResolveLocal("https://cdn.example.com/images/a.jpg")
	assert.False(t, ok)
}

func TestLocalStorage_ResolveRejectsMissingFiles(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "http://localhost:10010")
	require.NoError(t, err)

	_, ok := storage.ResolveLocal("http://localhost:10010/media/never-saved.jpg")
	assert.False(t, ok)
}

func TestLocalStorage_SanitizesHostileNames(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir, "http://localhost:10010")
	require.NoError(t, err)

	url, err := storage.Save(uploadHeader(t, "../../etc/passwd", "x"))
	require.NoError(t, err)

	path, ok := storage.ResolveLocal(url)
	require.True(t, ok)
	rel, err := filepath.Rel(dir, path)
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(rel, ".."), "saved file must stay inside the media dir")
}

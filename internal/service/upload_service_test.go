package service

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"wayfarer/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestStoreAcceptsImage(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewUploadService(dir)
	assert.NoError(t, err)

	payload := []byte("pretend this is a jpeg")
	name, err := svc.Store("trip.jpg", "image/jpeg", int64(len(payload)), bytes.NewReader(payload))
	assert.NoError(t, err)

	// Names are collision-resistant: image-<nanos>-<uuid fragment><ext>
	assert.Regexp(t, regexp.MustCompile(`^image-\d+-[0-9a-f-]{8}\.jpg$`), name)

	stored, err := os.ReadFile(filepath.Join(dir, name))
	assert.NoError(t, err)
	assert.Equal(t, payload, stored)
}

func TestStoreAcceptsByExtensionWhenMimeIsGeneric(t *testing.T) {
	svc, err := NewUploadService(t.TempDir())
	assert.NoError(t, err)

	// Some clients send application/octet-stream for images; the extension
	// alone is enough.
	name, err := svc.Store("photo.webp", "application/octet-stream", 4, strings.NewReader("webp"))
	assert.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".webp"))
}

func TestStoreRejectsNonImage(t *testing.T) {
	svc, err := NewUploadService(t.TempDir())
	assert.NoError(t, err)

	_, err = svc.Store("malware.exe", "application/octet-stream", 4, strings.NewReader("data"))

	var appErr *models.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNSUPPORTED_MEDIA_TYPE", appErr.Code)
	assert.Equal(t, "Only image files (JPG, JPEG, PNG, GIF, WEBP) are allowed", appErr.Message)
}

func TestStoreRejectsOversizedDeclaration(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewUploadService(dir)
	assert.NoError(t, err)

	_, err = svc.Store("big.png", "image/png", MaxUploadSize+1, strings.NewReader("x"))

	var appErr *models.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", appErr.Code)

	// Nothing may be left behind on disk.
	entries, readErr := os.ReadDir(dir)
	assert.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestStoreEnforcesCapOnActualBytes(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewUploadService(dir)
	assert.NoError(t, err)

	// Declared size lies; the stream is over the cap.
	oversized := bytes.Repeat([]byte("a"), MaxUploadSize+10)
	_, err = svc.Store("liar.png", "image/png", 10, bytes.NewReader(oversized))

	var appErr *models.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", appErr.Code)

	entries, readErr := os.ReadDir(dir)
	assert.NoError(t, readErr)
	assert.Empty(t, entries)
}

package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wayfarer/internal/models"

	"github.com/google/uuid"
)

// MaxUploadSize is the upload gate's file size ceiling.
const MaxUploadSize = 5 << 20 // 5 MiB

var allowedImageMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadService is the upload gate: it validates incoming image files and
// persists accepted ones under collision-resistant names.
type UploadService struct {
	dir string
}

// NewUploadService creates the gate and ensures the storage directory exists.
func NewUploadService(dir string) (*UploadService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory %s: %w", dir, err)
	}
	return &UploadService{dir: dir}, nil
}

// Dir returns the storage directory the gate writes into.
func (s *UploadService) Dir() string {
	return s.dir
}

// Store validates and persists one uploaded file, returning the generated
// file name. The file is accepted when either its declared media type or
// its filename extension is on the image allow-list.
func (s *UploadService) Store(filename, contentType string, size int64, r io.Reader) (string, error) {
	if size > MaxUploadSize {
		return "", models.NewPayloadTooLargeError("File exceeds the 5 MB size limit")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	mime := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}

	if !allowedImageMIMEs[mime] && !allowedImageExts[ext] {
		return "", models.NewUnsupportedMediaError("Only image files (JPG, JPEG, PNG, GIF, WEBP) are allowed")
	}

	name := fmt.Sprintf("image-%d-%s%s", time.Now().UnixNano(), uuid.New().String()[:8], ext)
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	defer func() { _ = dst.Close() }()

	// The declared size is client-controlled; enforce the cap on the
	// actual bytes as well.
	written, err := io.Copy(dst, io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		_ = os.Remove(path)
		return "", models.NewInternalError(err)
	}
	if written > MaxUploadSize {
		_ = os.Remove(path)
		return "", models.NewPayloadTooLargeError("File exceeds the 5 MB size limit")
	}

	return name, nil
}

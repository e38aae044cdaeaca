package services

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"

	"github.com/printcraft/backend/internal/apperrors"
)

// Upload folders addressed by the catalog handlers.
const (
	UploadFolderCategories = "categories"
	UploadFolderProducts   = "products"
	UploadFolderTemplates  = "templates"
	UploadFolderMockups    = "mockups"
)

var allowedExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {}, ".svg": {},
}

// UploadService validates, persists and normalizes uploaded media files.
// Stored references are relative "<folder>/<generated name>" paths served
// under the static /uploads prefix.
type UploadService struct {
	root     string
	maxBytes int64
	maxWidth int
	logger   *zap.Logger
}

// NewUploadService constructs an UploadService rooted at dir.
func NewUploadService(dir string, maxBytes int64, maxWidth int, logger *zap.Logger) *UploadService {
	return &UploadService{root: dir, maxBytes: maxBytes, maxWidth: maxWidth, logger: logger}
}

// Store validates the upload, writes it under folder with a generated
// collision-free name and normalizes raster content for web delivery.
// Validation failures happen before any bytes reach disk.
func (s *UploadService) Store(file *multipart.FileHeader, folder string) (string, error) {
	if file.Size > s.maxBytes {
		return "", apperrors.Validationf("file too large: maximum size is %.1fMB", float64(s.maxBytes)/(1024*1024))
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", apperrors.Validationf("invalid file type %q: allowed types are jpg, jpeg, png, gif, webp, svg", ext)
	}

	// Go's webp support is decode-only, so webp uploads are stored re-encoded
	// as jpeg.
	storedExt := ext
	if ext == ".webp" {
		storedExt = ".jpg"
	}

	name := fmt.Sprintf("%d_%s%s", time.Now().Unix(), strings.ReplaceAll(uuid.NewString(), "-", "")[:8], storedExt)
	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.Storagef(err, "failed to save file")
	}

	path := filepath.Join(dir, name)
	if err := s.writeFile(file, path); err != nil {
		return "", err
	}

	// SVG is stored byte-for-byte; every other allowed type is raster.
	if ext != ".svg" {
		if err := s.normalize(path); err != nil {
			s.Remove(folder + "/" + name)
			return "", err
		}
	}

	return folder + "/" + name, nil
}

// Remove deletes a stored reference best-effort. Failures are logged and
// swallowed so they never block the primary write.
func (s *UploadService) Remove(ref string) {
	if ref == "" {
		return
	}
	path := filepath.Join(s.root, filepath.FromSlash(ref))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove stored upload",
			zap.String("ref", ref),
			zap.Error(err))
	}
}

func (s *UploadService) writeFile(file *multipart.FileHeader, path string) error {
	src, err := file.Open()
	if err != nil {
		return apperrors.Storagef(err, "failed to read uploaded file")
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return apperrors.Storagef(err, "failed to save file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return apperrors.Storagef(err, "failed to save file")
	}
	return nil
}

// normalize re-encodes a stored raster image: alpha and palette content is
// flattened onto white, images wider than maxWidth are downscaled with
// Lanczos resampling, and lossy targets are re-saved at quality 85.
func (s *UploadService) normalize(path string) error {
	img, err := imaging.Open(path)
	if err != nil {
		return apperrors.Validationf("uploaded file is not a valid image: %v", err)
	}

	bounds := img.Bounds()
	flat := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)

	var out image.Image = flat
	if bounds.Dx() > s.maxWidth {
		out = imaging.Resize(flat, s.maxWidth, 0, imaging.Lanczos)
	}

	if err := imaging.Save(out, path, imaging.JPEGQuality(85)); err != nil {
		return apperrors.Storagef(err, "failed to save file")
	}
	return nil
}

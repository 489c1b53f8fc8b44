package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rakmedia/hr-backend-go/internal/pkg/storage"
	"golang.org/x/image/draw"
)

const (
	// AvatarMaxDimension bounds the longest side of stored profile pictures.
	AvatarMaxDimension = 512
	avatarQuality      = 85
)

type FileService interface {
	// UploadAvatar stores a profile picture re-encoded as JPEG and scaled
	// down to AvatarMaxDimension.
	UploadAvatar(ctx context.Context, employeeID int64, file io.Reader, filename string) (string, error)

	// UploadTaskFile stores a task attachment as is.
	UploadTaskFile(ctx context.Context, taskID int64, file io.Reader, filename string) (string, error)

	DeleteFile(ctx context.Context, path string) error
	URL(path string) string
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadAvatar uploads employee avatar
func (s *fileServiceImpl) UploadAvatar(ctx context.Context, employeeID int64, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", fmt.Errorf("invalid file type: only jpg, jpeg, png allowed")
	}

	img, _, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, fitWithin(img, AvatarMaxDimension), &jpeg.Options{Quality: avatarQuality}); err != nil {
		return "", fmt.Errorf("failed to encode JPEG: %w", err)
	}

	id := strconv.FormatInt(employeeID, 10)
	p := path.Join("profile_pictures", fmt.Sprintf("%s-%s.jpg", id, uuid.New().String()))

	uploadedPath, err := s.storage.Upload(ctx, buf, p)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}
	return uploadedPath, nil
}

// UploadTaskFile uploads a task attachment
func (s *fileServiceImpl) UploadTaskFile(ctx context.Context, taskID int64, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	base := sanitizeName(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))

	newFilename := fmt.Sprintf("%s-%s%s", base, uuid.New().String()[:8], ext)
	p := path.Join("task_files", strconv.FormatInt(taskID, 10), newFilename)

	uploadedPath, err := s.storage.Upload(ctx, file, p)
	if err != nil {
		return "", fmt.Errorf("failed to upload task file: %w", err)
	}
	return uploadedPath, nil
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

func (s *fileServiceImpl) URL(path string) string {
	return s.storage.URL(path)
}

// ==================== HELPER FUNCTIONS ====================

// fitWithin scales img down so neither side exceeds max, keeping the
// aspect ratio. Smaller images are returned unchanged.
func fitWithin(img image.Image, max int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= max && h <= max {
		return img
	}

	if w >= h {
		h = h * max / w
		w = max
	} else {
		w = w * max / h
		h = max
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return resizeImage(img, w, h)
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// Use CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

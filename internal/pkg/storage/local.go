package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type LocalStorage struct {
	basePath string
	baseURL  string // e.g., "http://localhost:8080/uploads"
}

func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve storage directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: abs,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// BasePath is the directory files are written under.
func (s *LocalStorage) BasePath() string {
	return s.basePath
}

// resolve maps a relative path to an absolute one inside basePath.
func (s *LocalStorage) resolve(p string) (string, string, error) {
	clean := path.Clean("/" + filepath.ToSlash(p))[1:]
	if clean == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	full := filepath.Join(s.basePath, filepath.FromSlash(clean))
	rel, err := filepath.Rel(s.basePath, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return clean, full, nil
}

func (s *LocalStorage) Upload(ctx context.Context, file io.Reader, p string) (string, error) {
	clean, fullPath, err := s.resolve(p)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return clean, nil
}

func (s *LocalStorage) Delete(ctx context.Context, p string) error {
	_, fullPath, err := s.resolve(p)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

func (s *LocalStorage) URL(p string) string {
	if p == "" {
		return ""
	}
	return s.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(p), "/")
}

func (s *LocalStorage) Exists(ctx context.Context, p string) (bool, error) {
	_, fullPath, err := s.resolve(p)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

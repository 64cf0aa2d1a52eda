package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"recipe-catalog/domain"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage writes images under Dir and references them by URLPrefix,
// where a static route serves Dir.
type LocalStorage struct {
	Dir       string
	URLPrefix string
}

func NewLocalStorage(dir, urlPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalStorage{
		Dir:       dir,
		URLPrefix: "/" + strings.Trim(urlPrefix, "/"),
	}, nil
}

func (s *LocalStorage) Store(ctx context.Context, filename string, data []byte) (string, error) {
	_, ext, err := detectImage(data, AllowImage...)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	name, err := s.writeNew(sanitizeFilename(filename, ext), data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	return path.Join(s.URLPrefix, name), nil
}

// writeNew never replaces an existing file. A taken name gets a random
// suffix before the extension.
func (s *LocalStorage) writeNew(name string, data []byte) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for attempt := 0; attempt < 5; attempt++ {
		file, err := os.OpenFile(filepath.Join(s.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			name = stem + "-" + uuid.NewString()[:8] + ext
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := file.Write(data); err != nil {
			file.Close()
			os.Remove(file.Name())
			return "", err
		}
		return name, file.Close()
	}
	return "", fmt.Errorf("no free file name for %s", stem+ext)
}

// Remove deletes the file behind url. References that were not produced by
// this sink are ignored, as are files that are already gone.
func (s *LocalStorage) Remove(_ context.Context, url string) error {
	name, ok := s.fileFromURL(url)
	if !ok {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStorage) fileFromURL(url string) (string, bool) {
	prefix := s.URLPrefix + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(url, prefix)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	return name, true
}

package filestorage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/hogwarts/internal/pkg/logger"
)

// LocalStorage stores avatar files in a single directory.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates the directory if needed and returns a storage rooted at it.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create avatars directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Avatars directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

// ExtensionOf returns the part of filename after its last dot, or "" when
// there is no dot.
func ExtensionOf(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return ""
	}
	return filename[i+1:]
}

func uniqueFilename(ext string) string {
	name := uuid.New().String()
	if ext == "" {
		return name
	}
	return name + "." + ext
}

// Save writes data to <basePath>/<uuid>.<ext>. Partially written files are removed.
func (ls *LocalStorage) Save(ext string, data []byte) (string, error) {
	dstPath := filepath.Join(ls.basePath, uniqueFilename(ext))

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err := dst.Write(data); err != nil {
		dst.Close()
		_ = os.Remove(dstPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write avatar file")
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to close destination file: %w", err)
	}

	logger.Debug().Str("path", dstPath).Int("size", len(data)).Msg("Avatar file saved")
	return dstPath, nil
}

// Read returns the bytes currently stored at path.
func (ls *LocalStorage) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return data, nil
}

// Delete removes path. Missing files are ignored so deletes can be repeated.
func (ls *LocalStorage) Delete(path string) error {
	if path == "" {
		return nil
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Str("path", path).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", path).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Debug().Str("path", path).Msg("File deleted")
	return nil
}

package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileReader provides cached file reading, invalidated when a file changes
type FileReader struct {
	contentCache *Cache[string, []byte]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		contentCache: NewCache[string, []byte](),
	}
}

// ReadFile reads a file and returns its contents with caching
func (fr *FileReader) ReadFile(filePath string) ([]byte, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}
	cleanPath := filepath.Clean(filePath)

	if cached, exists := fr.contentCache.GetWithFileValidation(cleanPath, cleanPath); exists {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filepath.Base(cleanPath), err)
	}

	fr.contentCache.SetWithFileInfo(cleanPath, content, cleanPath)

	return content, nil
}

// Exists reports whether filePath names an existing regular file
func (fr *FileReader) Exists(filePath string) bool {
	info, err := os.Stat(filePath)
	return err == nil && info.Mode().IsRegular()
}

// InvalidateFile removes a specific file from the cache
func (fr *FileReader) InvalidateFile(filePath string) {
	fr.contentCache.Delete(filepath.Clean(filePath))
}

// GetCacheStats returns the number of cached files
func (fr *FileReader) GetCacheStats() int {
	return fr.contentCache.Size()
}

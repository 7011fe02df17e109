package utils

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileProcessor provides utilities for common file processing operations
type FileProcessor struct {
	fileReader *FileReader
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{
		fileReader: NewFileReader(),
	}
}

// NewFileProcessorWithReader creates a file processor with an existing FileReader
func NewFileProcessorWithReader(reader *FileReader) *FileProcessor {
	return &FileProcessor{
		fileReader: reader,
	}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info fs.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info fs.DirEntry) bool

// SourceFileFilter accepts .go files, excluding tests and files ending in generatedSuffix
func SourceFileFilter(generatedSuffix string) FileFilter {
	return func(path string, info fs.DirEntry) bool {
		if info.IsDir() {
			return false
		}

		name := info.Name()
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			!strings.HasSuffix(name, generatedSuffix)
	}
}

// GeneratedFileFilter accepts files ending in generatedSuffix
func GeneratedFileFilter(generatedSuffix string) FileFilter {
	return func(path string, info fs.DirEntry) bool {
		return !info.IsDir() && strings.HasSuffix(info.Name(), generatedSuffix)
	}
}

// DefaultDirectoryFilter skips common directories that shouldn't contain source code
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
		"build":        true,
		"dist":         true,
		"target":       true,
	}

	return func(path string, info fs.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()

		// Skip hidden directories
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		if strings.HasPrefix(name, "_") {
			return false
		}

		return !skipDirs[name]
	}
}

// ListFiles returns the files directly inside dir accepted by filter, sorted
func (fp *FileProcessor) ListFiles(dir string, filter FileFilter) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if filter == nil || filter(path, entry) {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

// ScanDirectoriesWithGoFiles scans directory trees and returns every
// directory holding a file accepted by filter.
func (fp *FileProcessor) ScanDirectoriesWithGoFiles(rootDirs []string, filter FileFilter) ([]string, error) {
	var packageDirs []string
	visited := make(map[string]bool)

	for _, rootDir := range rootDirs {
		dirs, err := fp.scanDirectoryRecursive(rootDir, filter, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, dirs...)
	}

	return packageDirs, nil
}

func (fp *FileProcessor) scanDirectoryRecursive(dir string, filter FileFilter, visited map[string]bool) ([]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	if visited[absDir] {
		return nil, nil
	}
	visited[absDir] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var packageDirs []string
	directoryFilter := DefaultDirectoryFilter()
	hasFiles := false

	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())
		if !entry.IsDir() {
			if !hasFiles && filter(entryPath, entry) {
				hasFiles = true
				packageDirs = append([]string{dir}, packageDirs...)
			}
			continue
		}

		if !directoryFilter(entryPath, entry) {
			continue
		}

		subDirs, err := fp.scanDirectoryRecursive(entryPath, filter, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, subDirs...)
	}

	return packageDirs, nil
}

// RemoveGeneratedFiles deletes the files whose content starts with header
// and returns the ones removed. Unreadable files and files without the header
// are skipped.
func (fp *FileProcessor) RemoveGeneratedFiles(files []string, header string) ([]string, error) {
	var removedFiles []string
	for _, file := range files {
		content, err := fp.fileReader.ReadFile(file)
		if err != nil || !bytes.HasPrefix(content, []byte(header)) {
			continue
		}
		if err := os.Remove(file); err != nil {
			return removedFiles, fmt.Errorf("failed to remove %s: %w", file, err)
		}
		fp.fileReader.InvalidateFile(file)
		removedFiles = append(removedFiles, file)
	}
	return removedFiles, nil
}

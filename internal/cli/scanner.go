package cli

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/toyz/lazyattr/internal/errors"
	"github.com/toyz/lazyattr/internal/parser"
	"github.com/toyz/lazyattr/internal/utils"
)

// DirectoryScanner finds the package directories holding source files
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
	exclude       []string

	mu    sync.Mutex
	roots map[string]string // package dir -> scanned root it was found under
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner(reader *utils.FileReader, exclude []string) *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessorWithReader(reader),
		exclude:       exclude,
		roots:         make(map[string]string),
	}
}

// ScanDirectories resolves the provided patterns into package directories.
// "dir/..." scans the tree below dir, a plain path names a single package.
func (s *DirectoryScanner) ScanDirectories(patterns []string) ([]string, error) {
	var packageDirs []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		root, recursive := splitPattern(pattern)

		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, errors.WrapWithOperation("resolve", fmt.Sprintf("path %s", root), err)
		}

		var dirs []string
		if recursive {
			dirs, err = s.fileProcessor.ScanDirectoriesWithGoFiles([]string{absRoot}, s.sourceFilter(absRoot))
			if err != nil {
				return nil, errors.WrapFileSystemError("scan", absRoot, err)
			}
		} else {
			dirs = []string{absRoot}
		}

		for _, dir := range dirs {
			if seen[dir] || s.excluded(absRoot, dir) {
				continue
			}
			seen[dir] = true
			s.setRoot(dir, absRoot)
			packageDirs = append(packageDirs, dir)
		}
	}

	return packageDirs, nil
}

// SourceFiles lists the candidate source files directly inside dir. Whether
// a file carries the generation tag is decided by the parser.
func (s *DirectoryScanner) SourceFiles(dir string) ([]string, error) {
	files, err := s.fileProcessor.ListFiles(dir, s.sourceFilter(s.rootOf(dir)))
	if err != nil {
		return nil, errors.WrapFileSystemError("list", dir, err)
	}
	return files, nil
}

// GeneratedFiles lists every generated file below the provided patterns
func (s *DirectoryScanner) GeneratedFiles(patterns []string) ([]string, error) {
	dirs, err := s.scanAll(patterns)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, dir := range dirs {
		generated, err := s.fileProcessor.ListFiles(dir, utils.GeneratedFileFilter(parser.GeneratedSuffix))
		if err != nil {
			return nil, errors.WrapFileSystemError("list", dir, err)
		}
		files = append(files, generated...)
	}
	return files, nil
}

// scanAll is ScanDirectories with directories holding only generated files
// included.
func (s *DirectoryScanner) scanAll(patterns []string) ([]string, error) {
	var all []string
	for _, pattern := range patterns {
		root, recursive := splitPattern(pattern)
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, errors.WrapWithOperation("resolve", fmt.Sprintf("path %s", root), err)
		}
		if !recursive {
			all = append(all, absRoot)
			continue
		}
		anyGo := func(path string, entry fs.DirEntry) bool {
			return !entry.IsDir() && strings.HasSuffix(entry.Name(), ".go")
		}
		dirs, err := s.fileProcessor.ScanDirectoriesWithGoFiles([]string{absRoot}, anyGo)
		if err != nil {
			return nil, errors.WrapFileSystemError("scan", absRoot, err)
		}
		for _, dir := range dirs {
			if !s.excluded(absRoot, dir) {
				all = append(all, dir)
			}
		}
	}
	return all, nil
}

func (s *DirectoryScanner) setRoot(dir, root string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roots[dir] = root
}

func (s *DirectoryScanner) rootOf(dir string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if root, ok := s.roots[dir]; ok {
		return root
	}
	return dir
}

func (s *DirectoryScanner) sourceFilter(root string) utils.FileFilter {
	base := utils.SourceFileFilter(parser.GeneratedSuffix)
	return func(path string, entry fs.DirEntry) bool {
		return base(path, entry) && !s.excluded(root, path)
	}
}

// excluded matches path, relative to root, against the exclude patterns
func (s *DirectoryScanner) excluded(root, path string) bool {
	if len(s.exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range s.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func splitPattern(pattern string) (string, bool) {
	if pattern == "..." {
		return ".", true
	}
	if strings.HasSuffix(pattern, "/...") {
		root := strings.TrimSuffix(pattern, "/...")
		if root == "" {
			root = "."
		}
		return root, true
	}
	return pattern, false
}

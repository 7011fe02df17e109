package utils

import (
	"fmt"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// ModuleInfo is the subset of a go.mod file the generator cares about
type ModuleInfo struct {
	Path     string          // module path
	Dir      string          // directory holding go.mod
	GoMod    string          // path of the go.mod file
	Requires map[string]bool // required module paths
	Replaced map[string]bool // module paths named on either side of a replace
}

// DependsOn reports whether the module requires or replaces modulePath
func (m *ModuleInfo) DependsOn(modulePath string) bool {
	return m.Requires[modulePath] || m.Replaced[modulePath]
}

// GoModParser provides utilities for parsing go.mod files
type GoModParser struct {
	fileReader *FileReader
	parsed     *Cache[string, *ModuleInfo]
}

// NewGoModParser creates a new go.mod parser with caching
func NewGoModParser(fileReader *FileReader) *GoModParser {
	return &GoModParser{
		fileReader: fileReader,
		parsed:     NewCacheWithSize[string, *ModuleInfo](64),
	}
}

// Parse reads and parses a go.mod file
func (p *GoModParser) Parse(goModPath string) (*ModuleInfo, error) {
	cleanPath := filepath.Clean(goModPath)
	if filepath.Base(cleanPath) != "go.mod" {
		return nil, fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}

	if cached, ok := p.parsed.GetWithFileValidation(cleanPath, cleanPath); ok {
		return cached, nil
	}

	content, err := p.fileReader.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read go.mod file: %w", err)
	}

	modFile, err := modfile.Parse(cleanPath, content, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse go.mod file: %w", err)
	}

	if modFile.Module == nil {
		return nil, fmt.Errorf("no module declaration found in go.mod")
	}

	info := &ModuleInfo{
		Path:     modFile.Module.Mod.Path,
		Dir:      filepath.Dir(cleanPath),
		GoMod:    cleanPath,
		Requires: make(map[string]bool),
		Replaced: make(map[string]bool),
	}
	for _, req := range modFile.Require {
		info.Requires[req.Mod.Path] = true
	}
	for _, rep := range modFile.Replace {
		info.Replaced[rep.Old.Path] = true
		if rep.New.Path != "" && !modfile.IsDirectoryPath(rep.New.Path) {
			info.Replaced[rep.New.Path] = true
		}
	}

	p.parsed.SetWithFileInfo(cleanPath, info, cleanPath)
	return info, nil
}

// FindGoModFile searches for go.mod file starting from the given directory and walking up
func (p *GoModParser) FindGoModFile(startDir string) (string, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", startDir, err)
	}

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if p.fileReader.Exists(goModPath) {
			return goModPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", fmt.Errorf("go.mod file not found")
}

// FindModule locates and parses the go.mod governing dir
func (p *GoModParser) FindModule(dir string) (*ModuleInfo, error) {
	goModPath, err := p.FindGoModFile(dir)
	if err != nil {
		return nil, err
	}
	return p.Parse(goModPath)
}

// ImportPath returns the import path of the package in dir
func (m *ModuleInfo) ImportPath(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(m.Dir, absDir)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return m.Path, nil
	}
	return m.Path + "/" + filepath.ToSlash(rel), nil
}

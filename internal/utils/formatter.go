package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"
)

// FormatGoCode formats Go source code the way goimports does, without
// adding or removing imports.
func FormatGoCode(filename string, source []byte) ([]byte, error) {
	formatted, err := imports.Process(filename, source, &imports.Options{
		FormatOnly: true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to format %s: %w", filepath.Base(filename), err)
	}
	return formatted, nil
}

// WriteFileIfChanged writes content to filename unless the file already holds
// exactly that content. It reports whether the file was written.
func WriteFileIfChanged(filename string, content []byte) (bool, error) {
	existing, err := os.ReadFile(filename)
	if err == nil && bytes.Equal(existing, content) {
		return false, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	if err := os.WriteFile(filename, content, 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return true, nil
}

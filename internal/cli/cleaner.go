package cli

import (
	"github.com/toyz/lazyattr/internal/errors"
	"github.com/toyz/lazyattr/internal/parser"
	"github.com/toyz/lazyattr/internal/utils"
)

// Cleaner removes generated files
type Cleaner struct {
	scanner       *DirectoryScanner
	fileProcessor *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner(scanner *DirectoryScanner, reader *utils.FileReader) *Cleaner {
	return &Cleaner{
		scanner:       scanner,
		fileProcessor: utils.NewFileProcessorWithReader(reader),
	}
}

// CleanGeneratedFiles removes every *_lazygen.go file below patterns that
// starts with the generated header. Hand-written files with the same suffix
// are left alone.
func (c *Cleaner) CleanGeneratedFiles(patterns []string) ([]string, error) {
	files, err := c.scanner.GeneratedFiles(patterns)
	if err != nil {
		return nil, err
	}

	removed, err := c.fileProcessor.RemoveGeneratedFiles(files, parser.GeneratedHeader)
	if err != nil {
		return removed, errors.WrapWithOperation("clean", "generated files", err)
	}
	return removed, nil
}

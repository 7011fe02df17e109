package cli

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/toyz/lazyattr/internal/errors"
	"github.com/toyz/lazyattr/internal/parser"
)

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories is the list of directories to scan for tagged Go files.
	// A trailing "/..." scans the directory tree.
	Directories []string

	// Tag is the build tag guarding source files
	Tag string

	// Async enables lazy functions that take a context.Context
	Async bool

	// Exclude holds doublestar patterns matched against slash-separated
	// paths relative to the scanned root
	Exclude []string

	// Concurrency bounds the number of packages processed at once
	Concurrency int

	// Verbose enables detailed logging and error reporting
	Verbose bool
}

// DefaultConfig returns the configuration used when no flags are given
func DefaultConfig() Config {
	return Config{
		Directories: []string{"."},
		Tag:         parser.DefaultTag,
		Concurrency: runtime.GOMAXPROCS(0),
	}
}

// Normalize fills unset fields with their defaults
func (c *Config) Normalize() {
	defaults := DefaultConfig()
	if len(c.Directories) == 0 {
		c.Directories = defaults.Directories
	}
	if c.Tag == "" {
		c.Tag = defaults.Tag
	}
	if c.Concurrency <= 0 {
		c.Concurrency = defaults.Concurrency
	}
}

// Validate checks the tag and exclude patterns
func (c *Config) Validate() error {
	if strings.ContainsAny(c.Tag, " \t!&|()") {
		return errors.WrapConfigurationError("tag", "validate",
			fmt.Errorf("invalid build tag %q", c.Tag))
	}
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.WrapConfigurationError("exclude", "validate",
				fmt.Errorf("invalid pattern %q", pattern))
		}
	}
	return nil
}

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/lazyattr/internal/utils"
)

func TestCleaner_CleanGeneratedFiles(t *testing.T) {
	generated := "// Code generated by lazyattr. DO NOT EDIT.\n\n//go:build !lazyattr\n\npackage config\n"
	root := writeTree(t, map[string]string{
		"config/settings.go":           "//go:build lazyattr\n\npackage config\n",
		"config/settings_lazygen.go":   generated,
		"config/handmade_lazygen.go":   "package config\n",
		"nested/deep/a_lazygen.go":     generated,
		"vendor/dep/vendor_lazygen.go": generated,
	})

	reader := utils.NewFileReader()
	cleaner := NewCleaner(NewDirectoryScanner(reader, nil), reader)

	removed, err := cleaner.CleanGeneratedFiles([]string{root + "/..."})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "config", "settings_lazygen.go"),
		filepath.Join(root, "nested", "deep", "a_lazygen.go"),
	}, removed)

	assert.NoFileExists(t, filepath.Join(root, "config", "settings_lazygen.go"))
	assert.FileExists(t, filepath.Join(root, "config", "settings.go"))
	assert.FileExists(t, filepath.Join(root, "config", "handmade_lazygen.go"))
	assert.FileExists(t, filepath.Join(root, "vendor", "dep", "vendor_lazygen.go"))

	removed, err = cleaner.CleanGeneratedFiles([]string{root + "/..."})
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestCleaner_SingleDirectory(t *testing.T) {
	generated := "// Code generated by lazyattr. DO NOT EDIT.\n\npackage config\n"
	root := writeTree(t, map[string]string{
		"a_lazygen.go":     generated,
		"sub/b_lazygen.go": generated,
	})

	reader := utils.NewFileReader()
	cleaner := NewCleaner(NewDirectoryScanner(reader, nil), reader)

	removed, err := cleaner.CleanGeneratedFiles([]string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a_lazygen.go")}, removed)

	_, err = os.Stat(filepath.Join(root, "sub", "b_lazygen.go"))
	assert.NoError(t, err)
}

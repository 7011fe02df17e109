package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toyz/lazyattr/internal/utils"
)

const consumerGoMod = `module example.com/app

go 1.25

require github.com/toyz/lazyattr v0.1.0
`

const settingsSource = `//go:build lazyattr

package settings

import "os"

type Settings struct {
	Home string
}

// Load reads the settings once.
//
//lazy::ref
func Load() Settings {
	return Settings{Home: os.Getenv("HOME")}
}
`

// writeTree creates files, keyed by slash-separated relative path, under a
// fresh temporary directory and returns it.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// captureDiagnostics returns a diagnostic system writing into buf
func captureDiagnostics(t *testing.T, level utils.DiagnosticLevel) (*utils.DiagnosticSystem, *bytes.Buffer) {
	t.Helper()
	t.Setenv("FORCE_COLOR", "")
	var buf bytes.Buffer
	diagnostics := utils.NewDiagnosticSystem(level)
	diagnostics.SetOutput(&buf, &buf)
	diagnostics.SetShowTime(false)
	return diagnostics, &buf
}

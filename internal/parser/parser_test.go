package parser

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/lazyattr/internal/annotations"
	"github.com/toyz/lazyattr/internal/errors"
)

const settingsSource = `//go:build lazyattr && !windows

package settings

import (
	"context"
	"os"
)

// Settings holds the process configuration.
type Settings struct {
	Home string
}

// Load reads settings once.
//
//lazy::ref
func Load() Settings {
	return Settings{Home: os.Getenv("HOME")}
}

//lazy::map int, func(s Settings) int { return len(s.Home) }
func HomeLen() (s Settings) {
	s.Home = "/root"
	return
}

//lazy::once
func warm() {
	_ = os.Getenv("PATH")
}

//lazy::once
func Remote(ctx context.Context) Settings {
	return Settings{}
}

// helper is not annotated.
func helper() int { return 1 }
`

func TestParseSourceExtractsFunctions(t *testing.T) {
	p := NewParser("")
	file, err := p.ParseSource("settings.go", []byte(settingsSource))
	require.NoError(t, err)

	assert.Equal(t, "settings", file.PackageName)
	assert.Equal(t, "lazyattr && !windows", file.Constraint)
	assert.Equal(t, 0, file.ConstraintStart)
	assert.Equal(t, len("//go:build lazyattr && !windows"), file.ConstraintEnd)
	require.Len(t, file.Imports, 2)
	assert.Equal(t, "context", file.Imports[0].Path)
	assert.Equal(t, []string{"Settings", "Load", "HomeLen", "warm", "Remote", "helper"}, file.Decls)

	require.Len(t, file.Functions, 4)

	load := file.Functions[0]
	assert.Equal(t, "Load", load.Name)
	assert.True(t, load.Exported)
	assert.Equal(t, annotations.ModeRef, load.Mode())
	assert.Equal(t, []string{"// Load reads settings once.", "//"}, load.Doc)
	assert.Equal(t, "Settings", load.Results)
	assert.Equal(t, "Settings", load.ResultType)
	assert.Equal(t, 1, load.NumResults)
	assert.Contains(t, load.Body, `os.Getenv("HOME")`)
	assert.Equal(t, "// Load reads", settingsSource[load.Start:load.Start+13])
	assert.Equal(t, "}", settingsSource[load.End-1:load.End])
	assert.Equal(t, 18, load.NameLocation.Line)
	assert.Equal(t, 6, load.NameLocation.Column)

	homeLen := file.Functions[1]
	assert.Equal(t, annotations.ModeMap, homeLen.Mode())
	assert.Equal(t, "int, func(s Settings) int { return len(s.Home) }", homeLen.Annotation.RawArgs)
	assert.Equal(t, "(s Settings)", homeLen.Results)
	assert.Equal(t, "Settings", homeLen.ResultType)
	assert.Empty(t, homeLen.Doc)

	warm := file.Functions[2]
	assert.False(t, warm.Exported)
	assert.False(t, warm.HasResult())
	assert.Empty(t, warm.Results)

	remote := file.Functions[3]
	assert.True(t, remote.Async)
	assert.Equal(t, "ctx", remote.AsyncName)
	require.Len(t, remote.Params, 1)
	assert.Equal(t, "context.Context", remote.Params[0].Type)
}

func TestParseSourceAsyncDetection(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		async bool
	}{
		{
			name:  "renamed import",
			src:   "package p\nimport stdctx \"context\"\n//lazy::once\nfunc F(c stdctx.Context) int { return 1 }\n",
			async: true,
		},
		{
			name:  "unnamed parameter",
			src:   "package p\nimport \"context\"\n//lazy::once\nfunc F(context.Context) int { return 1 }\n",
			async: true,
		},
		{
			name:  "dot import",
			src:   "package p\nimport . \"context\"\n//lazy::once\nfunc F(ctx Context) int { return 1 }\n",
			async: true,
		},
		{
			name:  "other package named context",
			src:   "package p\nimport context \"example.com/ctx\"\n//lazy::once\nfunc F(ctx context.Context) int { return 1 }\n",
			async: false,
		},
		{
			name:  "context plus another parameter",
			src:   "package p\nimport \"context\"\n//lazy::once\nfunc F(ctx context.Context, n int) int { return n }\n",
			async: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := NewParser("").ParseSource("p.go", []byte(tt.src))
			require.NoError(t, err)
			require.Len(t, file.Functions, 1)
			assert.Equal(t, tt.async, file.Functions[0].Async)
		})
	}
}

func TestParseSourceAnnotationErrors(t *testing.T) {
	src := "package p\n\n//lazy::once\n//lazy::ref\nfunc A() int { return 1 }\n\n//lazy::forever\nfunc B() int { return 2 }\n\n//lazy::once\nfunc C() int { return 3 }\n"

	file, err := NewParser("").ParseSource("p.go", []byte(src))
	require.Error(t, err)
	require.NotNil(t, file)

	var multi *errors.MultipleErrors
	require.True(t, stderrors.As(err, &multi))
	require.Equal(t, 2, multi.Count())
	assert.Equal(t, "p.go:4:1: "+errors.MsgDuplicateAnnotation, multi.Errors[0].Error())
	assert.Contains(t, multi.Errors[1].Error(), "unknown lazy annotation kind: forever")

	require.Len(t, file.Functions, 1)
	assert.Equal(t, "C", file.Functions[0].Name)
}

func TestParseSourceInvalidGo(t *testing.T) {
	_, err := NewParser("").ParseSource("bad.go", []byte("package p\nfunc {"))
	require.Error(t, err)

	var syntaxErr *errors.SyntaxError
	assert.True(t, stderrors.As(err, &syntaxErr))
}

func TestIsTagged(t *testing.T) {
	p := NewParser("lazyattr")

	assert.True(t, p.IsTagged([]byte("//go:build lazyattr\n\npackage p\n")))
	assert.True(t, p.IsTagged([]byte("// Copyright\n\n//go:build linux && lazyattr\n\npackage p\n")))
	assert.False(t, p.IsTagged([]byte("//go:build !linux\n\npackage p\n")))
	assert.False(t, p.IsTagged([]byte("//go:build !lazyattr\n\npackage p\n")))
	assert.False(t, p.IsTagged([]byte("//go:build linux && !lazyattr\n\npackage p\n")))
	assert.False(t, p.IsTagged([]byte("package p\n\n//go:build lazyattr\n")))
	assert.False(t, NewParser("custom").IsTagged([]byte("//go:build lazyattr\n\npackage p\n")))
}

func TestDefaultImportName(t *testing.T) {
	tests := map[string]string{
		"context":                             "context",
		"github.com/toyz/lazyattr/pkg/lazy":   "lazy",
		"github.com/alecthomas/kong":          "kong",
		"github.com/alecthomas/participle/v2": "participle",
		"gopkg.in/yaml.v3":                    "yaml",
		"github.com/gertd/go-pluralize":       "pluralize",
	}

	for path, expected := range tests {
		assert.Equal(t, expected, DefaultImportName(path), path)
	}
}

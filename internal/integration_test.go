package internal

import (
	"go/ast"
	goparser "go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/lazyattr/internal/cli"
	"github.com/toyz/lazyattr/internal/generator"
	"github.com/toyz/lazyattr/internal/models"
	"github.com/toyz/lazyattr/internal/parser"
	"github.com/toyz/lazyattr/internal/utils"
)

const catalogSource = `//go:build lazyattr

package catalog

import (
	"context"
	"strings"
)

// Product is a catalog entry
type Product struct {
	Name string
}

// Products is loaded once.
//
//lazy::once
func Products() []Product {
	return []Product{{Name: "widget"}, {Name: "gadget"}}
}

// Names are derived from Products.
//
// lazy::map string, func(ps []Product) string { return names(ps) }
func Names() []Product {
	return *Products()
}

//lazy::ref
func Index() map[string]int {
	return map[string]int{"widget": 0, "gadget": 1}
}

//lazy::once
func Remote(ctx context.Context) string {
	return "remote"
}

func names(ps []Product) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.Name
	}
	return strings.Join(parts, ",")
}
`

// TestLazyGenerationIntegration runs a tagged file through parsing,
// validation, facility resolution, emission and file assembly, then checks
// the shape of the resulting Go source.
func TestLazyGenerationIntegration(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"),
		[]byte("module example.com/shop\n\ngo 1.25\n\nrequire github.com/toyz/lazyattr v0.1.0\n"), 0o644))
	sourcePath := filepath.Join(root, "catalog.go")

	p := parser.NewParser(parser.DefaultTag)
	require.True(t, p.IsTagged([]byte(catalogSource)))

	file, err := p.ParseSource(sourcePath, []byte(catalogSource))
	require.NoError(t, err)
	require.Len(t, file.Functions, 4)

	expander := generator.NewExpander(parser.NewValidator(true), cli.NewModuleResolver(utils.NewFileReader()))

	fragments := make([]models.Fragment, 0, len(file.Functions))
	for i := range file.Functions {
		fragment, lazyErr := expander.Expand(file, &file.Functions[i])
		require.Nil(t, lazyErr, "%s", file.Functions[i].Name)
		assert.Equal(t, models.FacilityAlias, fragment.Facility.Kind)
		fragments = append(fragments, fragment)
	}

	generated, err := generator.NewGenerator(parser.DefaultTag).GenerateFile(file, fragments)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "catalog_lazygen.go"), generated.Path)
	assert.Equal(t, []string{"Products", "Names", "Index", "Remote"}, generated.Functions)

	content := string(generated.Content)
	assert.True(t, strings.HasPrefix(content, parser.GeneratedHeader))
	assert.NotContains(t, content, "lazy::")

	fset := token.NewFileSet()
	out, err := goparser.ParseFile(fset, generated.Path, generated.Content, goparser.ParseComments)
	require.NoError(t, err, content)

	t.Run("build constraint is negated", func(t *testing.T) {
		assert.Contains(t, content, "//go:build !lazyattr\n")
	})

	t.Run("runtime is imported once", func(t *testing.T) {
		count := 0
		for _, spec := range out.Imports {
			if spec.Path.Value == `"`+parser.RuntimeImportPath+`"` {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("storage declarations", func(t *testing.T) {
		storage := make(map[string]string)
		for _, decl := range out.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.VAR {
				continue
			}
			for _, spec := range gen.Specs {
				value := spec.(*ast.ValueSpec)
				start := fset.Position(value.Type.Pos()).Offset
				end := fset.Position(value.Type.End()).Offset
				storage[value.Names[0].Name] = content[start:end]
			}
		}
		assert.Equal(t, map[string]string{
			"_lazy_Products": "lazy.Cell[[]Product]",
			"_lazy_Names":    "lazy.Cell[string]",
			"_lazy_Index":    "lazy.Cell[map[string]int]",
			"_lazy_Remote":   "lazy.AsyncCell[string]",
		}, storage)
	})

	t.Run("replacement signatures", func(t *testing.T) {
		funcs := make(map[string]*ast.FuncDecl)
		for _, decl := range out.Decls {
			if fn, ok := decl.(*ast.FuncDecl); ok {
				funcs[fn.Name.Name] = fn
			}
		}
		require.Contains(t, funcs, "names", "undecorated functions are copied through")

		for _, name := range []string{"Products", "Names", "Index"} {
			fn := funcs[name]
			require.NotNil(t, fn, name)
			assert.Empty(t, fn.Type.Params.List, name)
			require.Len(t, fn.Type.Results.List, 1, name)
			_, isPointer := fn.Type.Results.List[0].Type.(*ast.StarExpr)
			assert.True(t, isPointer, name)
			require.Len(t, fn.Body.List, 1, name)
			_, isReturn := fn.Body.List[0].(*ast.ReturnStmt)
			assert.True(t, isReturn, name)
		}

		remote := funcs["Remote"]
		require.NotNil(t, remote)
		require.Len(t, remote.Type.Params.List, 1)
		assert.Equal(t, "ctx", remote.Type.Params.List[0].Names[0].Name)
		assert.Len(t, remote.Type.Results.List, 2)

		assert.Equal(t, "Products is loaded once.\n", funcs["Products"].Doc.Text())
		assert.Nil(t, funcs["Index"].Doc)
	})
}

package generator

import (
	"bytes"
	"fmt"
	"go/format"
	goparser "go/parser"
	"go/token"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/toyz/lazyattr/internal/errors"
	"github.com/toyz/lazyattr/internal/models"
	"github.com/toyz/lazyattr/internal/parser"
	"github.com/toyz/lazyattr/internal/utils"
)

// Generator assembles generated files from a tagged source file and the
// fragments of its annotated functions.
type Generator struct {
	tag string
}

// NewGenerator creates a generator for files guarded by tag
func NewGenerator(tag string) *Generator {
	if tag == "" {
		tag = parser.DefaultTag
	}
	return &Generator{tag: tag}
}

// OutputPath returns the generated file path for a source file
func OutputPath(sourcePath string) string {
	return strings.TrimSuffix(sourcePath, ".go") + parser.GeneratedSuffix
}

// GenerateFile replaces every annotated function of file with its fragment.
// fragments[i] belongs to file.Functions[i].
func (g *Generator) GenerateFile(file *models.SourceFile, fragments []models.Fragment) (*models.GeneratedFile, error) {
	outputPath := OutputPath(file.Path)

	if len(fragments) != len(file.Functions) {
		return nil, errors.NewGenerationError(
			fmt.Sprintf("got %d fragments for %d lazy functions", len(fragments), len(file.Functions))).
			WithTargetFile(outputPath).
			WithStage("splice")
	}
	if file.Constraint == "" {
		return nil, errors.NewGenerationError("source file has no //go:build constraint").
			WithTargetFile(outputPath).
			WithStage("splice")
	}

	constraintLine, err := parser.GeneratedConstraint(file.Constraint, g.tag)
	if err != nil {
		return nil, errors.WrapGenerateError("constraint", outputPath, err)
	}

	spliced := g.splice(file, constraintLine, fragments)

	fset := token.NewFileSet()
	astFile, err := goparser.ParseFile(fset, outputPath, spliced, goparser.ParseComments)
	if err != nil {
		return nil, errors.WrapGenerateError("parse", outputPath, err)
	}

	for _, fragment := range fragments {
		facility := fragment.Facility
		if !facility.NeedsImport() {
			continue
		}
		if name, ok := file.ImportNameFor(facility.ImportPath); ok && name == facility.Name {
			continue
		}
		if facility.Name == parser.DefaultImportName(facility.ImportPath) {
			astutil.AddImport(fset, astFile, facility.ImportPath)
		} else {
			astutil.AddNamedImport(fset, astFile, facility.Name, facility.ImportPath)
		}
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, astFile); err != nil {
		return nil, errors.WrapGenerateError("format", outputPath, err)
	}

	content, err := utils.FormatGoCode(outputPath, buf.Bytes())
	if err != nil {
		return nil, errors.WrapGenerateError("format", outputPath, err)
	}

	names := make([]string, len(fragments))
	for i, fragment := range fragments {
		names[i] = fragment.Function
	}

	return &models.GeneratedFile{
		SourcePath: file.Path,
		Path:       outputPath,
		Content:    content,
		Functions:  names,
	}, nil
}

// splice copies the source, swapping the build constraint and every
// annotated declaration for its replacement.
func (g *Generator) splice(file *models.SourceFile, constraintLine string, fragments []models.Fragment) []byte {
	src := file.Source

	var out bytes.Buffer
	out.WriteString(parser.GeneratedHeader)
	out.WriteString("\n\n")
	out.Write(src[:file.ConstraintStart])
	out.WriteString(constraintLine)

	cursor := file.ConstraintEnd
	for i, fn := range file.Functions {
		out.Write(src[cursor:fn.Start])
		out.WriteString(fragments[i].String())
		cursor = fn.End
	}
	out.Write(src[cursor:])

	return out.Bytes()
}

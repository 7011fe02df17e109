package parser

import (
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"github.com/toyz/lazyattr/internal/annotations"
	"github.com/toyz/lazyattr/internal/errors"
	"github.com/toyz/lazyattr/internal/models"
)

// Parser extracts annotated functions from tagged source files
type Parser struct {
	fileSet          *token.FileSet
	annotationParser *annotations.ParticipleParser
	tag              string
}

// NewParser creates a parser recognising files guarded by tag
func NewParser(tag string) *Parser {
	if tag == "" {
		tag = DefaultTag
	}
	return &Parser{
		fileSet:          token.NewFileSet(),
		annotationParser: annotations.NewParticipleParser(),
		tag:              tag,
	}
}

// Tag returns the generation tag
func (p *Parser) Tag() string {
	return p.tag
}

// IsTagged reports whether src carries a //go:build line selecting the
// generation tag. Only the file header is examined.
func (p *Parser) IsTagged(src []byte) bool {
	for _, line := range strings.Split(string(src), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "package ") {
			return false
		}
		if !constraint.IsGoBuild(line) {
			continue
		}
		expr, err := constraint.Parse(line)
		if err != nil {
			return false
		}
		return SelectsTag(expr, p.tag)
	}
	return false
}

// ParseSource parses a tagged source file. Annotation problems are collected
// into an *errors.MultipleErrors returned alongside the partially filled file.
func (p *Parser) ParseSource(filename string, src []byte) (*models.SourceFile, error) {
	file, err := parser.ParseFile(p.fileSet, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, errors.WrapParseError(filename, err)
	}

	result := &models.SourceFile{
		Path:        filename,
		PackageName: file.Name.Name,
		Source:      src,
		Imports:     extractImports(file),
		Decls:       extractDecls(file),
	}

	if err := p.extractConstraint(file, result); err != nil {
		return nil, err
	}

	diagnostics := errors.NewMultipleErrors()
	contextName := importedName(result.Imports, contextImportPath)

	for _, decl := range file.Decls {
		funcDecl, ok := decl.(*ast.FuncDecl)
		if !ok || funcDecl.Doc == nil {
			continue
		}

		fn, lazyErr := p.extractFunction(funcDecl, src, contextName)
		if lazyErr != nil {
			diagnostics.Add(lazyErr)
			continue
		}
		if fn != nil {
			result.Functions = append(result.Functions, *fn)
		}
	}

	return result, diagnostics.ErrOrNil()
}

func (p *Parser) extractConstraint(file *ast.File, result *models.SourceFile) error {
	for _, group := range file.Comments {
		if group.Pos() >= file.Package {
			break
		}
		for _, comment := range group.List {
			if !constraint.IsGoBuild(comment.Text) {
				continue
			}
			if _, err := constraint.Parse(comment.Text); err != nil {
				return errors.NewSyntaxError(fmt.Sprintf("invalid build constraint: %v", err)).
					WithInput(comment.Text).
					WithLocation(p.location(comment.Pos()))
			}
			result.Constraint = strings.TrimSpace(strings.TrimPrefix(comment.Text, "//go:build"))
			result.ConstraintStart = p.offset(comment.Pos())
			result.ConstraintEnd = p.offset(comment.End())
			return nil
		}
	}
	return nil
}

// extractFunction returns nil, nil for functions without a lazy:: directive
func (p *Parser) extractFunction(decl *ast.FuncDecl, src []byte, contextName string) (*models.LazyFunction, errors.LazyError) {
	var annotation *annotations.ParsedAnnotation
	var doc []string

	for _, comment := range decl.Doc.List {
		if !annotations.IsAnnotation(comment.Text) {
			doc = append(doc, comment.Text)
			continue
		}

		location := p.location(comment.Pos())
		if annotation != nil {
			return nil, errors.NewSyntaxError(errors.MsgDuplicateAnnotation).
				WithInput(comment.Text).
				WithLocation(location)
		}

		parsed, err := p.annotationParser.ParseAnnotation(comment.Text, location)
		if err != nil {
			return nil, asLazyError(err, location)
		}
		annotation = parsed
	}

	if annotation == nil {
		return nil, nil
	}

	fn := &models.LazyFunction{
		Name:         decl.Name.Name,
		Exported:     decl.Name.IsExported(),
		Doc:          doc,
		Annotation:   annotation,
		Start:        p.offset(decl.Doc.Pos()),
		End:          p.offset(decl.End()),
		Location:     p.location(decl.Type.Func),
		NameLocation: p.location(decl.Name.Pos()),
	}

	if decl.Recv != nil {
		fn.Receiver = p.text(src, decl.Recv)
		fn.ReceiverLocation = p.location(decl.Recv.Pos())
	}

	if decl.Type.TypeParams != nil {
		fn.TypeParams = p.text(src, decl.Type.TypeParams)
		fn.TypeParamsLocation = p.location(decl.Type.TypeParams.Pos())
	}

	fn.ParamsLocation = p.location(decl.Type.Params.Pos())
	for _, field := range decl.Type.Params.List {
		typ := p.text(src, field.Type)
		if len(field.Names) == 0 {
			fn.Params = append(fn.Params, models.Param{Type: typ, Location: p.location(field.Pos())})
			continue
		}
		for _, name := range field.Names {
			fn.Params = append(fn.Params, models.Param{Name: name.Name, Type: typ, Location: p.location(name.Pos())})
		}
	}

	if len(fn.Params) == 1 && decl.Type.Params.List[0] != nil && isContextType(decl.Type.Params.List[0].Type, contextName) {
		fn.Async = true
		fn.AsyncName = fn.Params[0].Name
	}

	if results := decl.Type.Results; results != nil && len(results.List) > 0 {
		fn.Results = p.text(src, results)
		fn.ResultsLocation = p.location(results.Pos())
		for _, field := range results.List {
			if len(field.Names) == 0 {
				fn.NumResults++
			} else {
				fn.NumResults += len(field.Names)
			}
		}
		if fn.NumResults == 1 {
			fn.ResultType = p.text(src, results.List[0].Type)
		}
	}

	if decl.Body != nil {
		fn.Body = p.text(src, decl.Body)
	}

	return fn, nil
}

// isContextType matches context.Context through the file's import name for
// the context package. A dot import matches a bare Context.
func isContextType(expr ast.Expr, contextName string) bool {
	switch e := expr.(type) {
	case *ast.SelectorExpr:
		pkg, ok := e.X.(*ast.Ident)
		return ok && contextName != "" && contextName != "." && pkg.Name == contextName && e.Sel.Name == contextTypeName
	case *ast.Ident:
		return contextName == "." && e.Name == contextTypeName
	default:
		return false
	}
}

func extractImports(file *ast.File) []models.Import {
	imports := make([]models.Import, 0, len(file.Imports))
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := models.Import{Path: path}
		if spec.Name != nil {
			imp.Name = spec.Name.Name
		}
		imports = append(imports, imp)
	}
	return imports
}

// extractDecls lists the package-level names declared by file. Methods are
// skipped since they do not bind names in the package block.
func extractDecls(file *ast.File) []string {
	var names []string
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				names = append(names, d.Name.Name)
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.ValueSpec:
					for _, name := range s.Names {
						names = append(names, name.Name)
					}
				case *ast.TypeSpec:
					names = append(names, s.Name.Name)
				}
			}
		}
	}
	return names
}

// importedName returns the name a file uses for path, or "" if it does not
// import it. Implicit names are taken from the last path element.
func importedName(imports []models.Import, path string) string {
	for _, imp := range imports {
		if imp.Path != path {
			continue
		}
		if imp.Name != "" {
			return imp.Name
		}
		return DefaultImportName(path)
	}
	return ""
}

// DefaultImportName returns the implicit package name of an import path
func DefaultImportName(path string) string {
	elems := strings.Split(path, "/")
	name := elems[len(elems)-1]
	if len(elems) > 1 && isMajorVersion(name) {
		name = elems[len(elems)-2]
	}
	if i := strings.Index(name, ".v"); i > 0 {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "go-")
	return strings.ReplaceAll(name, "-", "_")
}

func isMajorVersion(elem string) bool {
	if len(elem) < 2 || elem[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(elem[1:])
	return err == nil
}

func asLazyError(err error, location errors.SourceLocation) errors.LazyError {
	if lazyErr, ok := err.(errors.LazyError); ok {
		return lazyErr
	}
	return errors.NewSyntaxError(err.Error()).WithLocation(location)
}

func (p *Parser) text(src []byte, node ast.Node) string {
	return string(src[p.offset(node.Pos()):p.offset(node.End())])
}

func (p *Parser) offset(pos token.Pos) int {
	return p.fileSet.Position(pos).Offset
}

func (p *Parser) location(pos token.Pos) errors.SourceLocation {
	return errors.LocationOf(p.fileSet.Position(pos))
}

package annotations

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"

	"github.com/toyz/lazyattr/internal/errors"
)

// ParseArgs parses the raw argument text of an annotation for the given mode.
// Plain and ref take no arguments; map takes <Type>, <func literal or function path>.
func ParseArgs(mode Mode, raw string, location errors.SourceLocation) (Args, error) {
	raw = strings.TrimSpace(raw)

	switch mode {
	case ModePlain, ModeRef:
		if raw != "" {
			return nil, errors.NewSyntaxError(fmt.Sprintf("lazy::%s takes no arguments", mode)).
				WithInput(raw).
				WithLocation(location)
		}
		return NoArgs{}, nil
	case ModeMap:
		return parseMapArgs(raw, location)
	default:
		return nil, errors.NewSyntaxError(fmt.Sprintf("unsupported annotation mode %d", int(mode))).
			WithLocation(location)
	}
}

func parseMapArgs(raw string, location errors.SourceLocation) (MapArgs, error) {
	input := stripEnclosingParens(raw)

	comma, err := topLevelComma(input)
	if err != nil {
		return MapArgs{}, errors.MapGrammar(raw, location, err)
	}
	if comma < 0 {
		return MapArgs{}, errors.MapGrammar(raw, location, fmt.Errorf("missing ',' after the target type"))
	}

	typeSrc := strings.TrimSpace(input[:comma])
	transformSrc := strings.TrimSpace(input[comma+1:])

	typeExpr, err := parser.ParseExpr(typeSrc)
	if err != nil {
		return MapArgs{}, errors.MapGrammar(raw, location, fmt.Errorf("invalid target type %q: %w", typeSrc, err))
	}
	if !isTypeExpr(typeExpr) {
		return MapArgs{}, errors.MapGrammar(raw, location, fmt.Errorf("%q is not a type", typeSrc))
	}

	transform, err := parseTransform(transformSrc)
	if err != nil {
		return MapArgs{}, errors.MapGrammar(raw, location, err)
	}

	return MapArgs{Type: typeSrc, Transform: transform}, nil
}

// parseTransform tries a func literal first and falls back to a function path
func parseTransform(src string) (Transform, error) {
	if src == "" {
		return Transform{}, fmt.Errorf("missing transform after ','")
	}

	expr, err := parser.ParseExpr(src)
	if err != nil {
		return Transform{}, fmt.Errorf("invalid transform %q: %w", src, err)
	}

	if _, ok := expr.(*ast.FuncLit); ok {
		return Transform{Kind: TransformClosure, Expr: src}, nil
	}
	if isPath(expr) {
		return Transform{Kind: TransformPath, Expr: src}, nil
	}

	return Transform{}, fmt.Errorf("transform %q is neither a func literal nor a function path", src)
}

// isPath accepts an identifier, a selector chain of identifiers, and their
// generic instantiations (pkg.Convert[int]).
func isPath(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.Ident:
		return true
	case *ast.SelectorExpr:
		return isPath(e.X)
	case *ast.IndexExpr:
		return isPath(e.X)
	case *ast.IndexListExpr:
		return isPath(e.X)
	default:
		return false
	}
}

func isTypeExpr(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.Ident, *ast.ArrayType, *ast.MapType, *ast.ChanType,
		*ast.FuncType, *ast.InterfaceType, *ast.StructType:
		return true
	case *ast.SelectorExpr:
		return isPath(e.X)
	case *ast.StarExpr:
		return isTypeExpr(e.X)
	case *ast.ParenExpr:
		return isTypeExpr(e.X)
	case *ast.IndexExpr:
		return isTypeExpr(e.X)
	case *ast.IndexListExpr:
		return isTypeExpr(e.X)
	default:
		return false
	}
}

// topLevelComma returns the byte offset of the first comma outside any
// brackets, or -1 when there is none.
func topLevelComma(src string) (int, error) {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var scanErr error
	var s scanner.Scanner
	s.Init(file, []byte(src), func(pos token.Position, msg string) {
		if scanErr == nil {
			scanErr = fmt.Errorf("%d: %s", pos.Column, msg)
		}
	}, 0)

	depth := 0
	for {
		pos, tok, _ := s.Scan()
		switch tok {
		case token.EOF:
			return -1, scanErr
		case token.LPAREN, token.LBRACK, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACK, token.RBRACE:
			depth--
		case token.COMMA:
			if depth == 0 {
				return file.Offset(pos), nil
			}
		}
	}
}

// stripEnclosingParens removes one pair of parentheses that wraps the whole input
func stripEnclosingParens(src string) string {
	if !strings.HasPrefix(src, "(") || !strings.HasSuffix(src, ")") {
		return src
	}

	depth := 0
	for i, r := range src {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(src)-1 {
				return src
			}
		}
	}
	return strings.TrimSpace(src[1 : len(src)-1])
}

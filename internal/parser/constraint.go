package parser

import (
	"go/build/constraint"
	"strings"
)

// SelectsTag reports whether tag appears un-negated in a build constraint.
// A file guarded only by !tag is a fallback for normal builds, not a source.
func SelectsTag(expr constraint.Expr, tag string) bool {
	return selectsTag(expr, tag, false)
}

func selectsTag(expr constraint.Expr, tag string, negated bool) bool {
	switch e := expr.(type) {
	case *constraint.TagExpr:
		return e.Tag == tag && !negated
	case *constraint.NotExpr:
		return selectsTag(e.X, tag, !negated)
	case *constraint.AndExpr:
		return selectsTag(e.X, tag, negated) || selectsTag(e.Y, tag, negated)
	case *constraint.OrExpr:
		return selectsTag(e.X, tag, negated) || selectsTag(e.Y, tag, negated)
	default:
		return false
	}
}

// NegateTag returns a copy of expr with every occurrence of tag negated
func NegateTag(expr constraint.Expr, tag string) constraint.Expr {
	switch e := expr.(type) {
	case *constraint.TagExpr:
		if e.Tag == tag {
			return &constraint.NotExpr{X: &constraint.TagExpr{Tag: tag}}
		}
		return &constraint.TagExpr{Tag: e.Tag}
	case *constraint.NotExpr:
		if t, ok := e.X.(*constraint.TagExpr); ok && t.Tag == tag {
			return &constraint.TagExpr{Tag: tag}
		}
		return &constraint.NotExpr{X: NegateTag(e.X, tag)}
	case *constraint.AndExpr:
		return &constraint.AndExpr{X: NegateTag(e.X, tag), Y: NegateTag(e.Y, tag)}
	case *constraint.OrExpr:
		return &constraint.OrExpr{X: NegateTag(e.X, tag), Y: NegateTag(e.Y, tag)}
	default:
		return expr
	}
}

// GeneratedConstraint builds the //go:build line of a generated file from the
// source file's constraint expression.
func GeneratedConstraint(source, tag string) (string, error) {
	expr, err := constraint.Parse("//go:build " + strings.TrimSpace(source))
	if err != nil {
		return "", err
	}
	return "//go:build " + NegateTag(expr, tag).String(), nil
}

package annotations

import (
	"fmt"

	"github.com/toyz/lazyattr/internal/errors"
)

// Mode is the annotation spelling, which decides how the cached value is derived
type Mode int

const (
	ModePlain Mode = iota
	ModeRef
	ModeMap
)

// String returns the spelling used after lazy::
func (m Mode) String() string {
	switch m {
	case ModePlain:
		return "once"
	case ModeRef:
		return "ref"
	case ModeMap:
		return "map"
	default:
		return "unknown"
	}
}

// ParseMode converts an annotation kind to a Mode
func ParseMode(s string) (Mode, error) {
	switch s {
	case "once":
		return ModePlain, nil
	case "ref":
		return ModeRef, nil
	case "map":
		return ModeMap, nil
	default:
		return 0, fmt.Errorf("unknown lazy annotation kind: %s", s)
	}
}

// ParsedAnnotation is a recognised lazy:: directive before its arguments are parsed
type ParsedAnnotation struct {
	Mode         Mode                  // annotation spelling
	RawArgs      string                // text after lazy::<kind>, trimmed
	Raw          string                // original comment text
	Location     errors.SourceLocation // start of the comment
	ArgsLocation errors.SourceLocation // start of RawArgs
}

// Args is the typed argument structure of an annotation: NoArgs or MapArgs
type Args interface {
	isArgs()
}

// NoArgs is the argument structure of the plain and ref spellings
type NoArgs struct{}

func (NoArgs) isArgs() {}

// TransformKind tells a map transform's closure form from its path form
type TransformKind int

const (
	TransformClosure TransformKind = iota
	TransformPath
)

// String returns the string representation of the transform kind
func (k TransformKind) String() string {
	if k == TransformPath {
		return "path"
	}
	return "closure"
}

// Transform is the value transform applied to the original result in map mode
type Transform struct {
	Kind TransformKind
	Expr string // Go source of the func literal or the function path
}

// MapArgs is the argument structure of //lazy::map <Type>, <transform>
type MapArgs struct {
	Type      string // Go source of the target type
	Transform Transform
}

func (MapArgs) isArgs() {}

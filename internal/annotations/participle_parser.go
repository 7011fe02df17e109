package annotations

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/lazyattr/internal/errors"
)

const (
	// Prefix starts every annotation directive, after the comment marker
	Prefix = "lazy::"

	commentMarker = "//"
)

// Header is the grammar of a directive: lazy::<kind> followed by optional arguments
type Header struct {
	Lazy      string `parser:"@Lazy"`
	Separator string `parser:"@Separator"`
	Kind      string `parser:"@Ident"`
	Rest      string `parser:"@Rest?"`
}

// ParticipleParser parses lazy:: directive comments
type ParticipleParser struct {
	parser *participle.Parser[Header]
}

// NewParticipleParser creates a new directive parser
func NewParticipleParser() *ParticipleParser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Lazy", Pattern: `lazy`},
		{Name: "Separator", Pattern: `::`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Rest", Pattern: `[\s(].*`},
	})

	return &ParticipleParser{
		parser: participle.MustBuild[Header](participle.Lexer(lex)),
	}
}

// IsAnnotation reports whether a line comment is a lazy:: directive
func IsAnnotation(comment string) bool {
	if !strings.HasPrefix(comment, commentMarker) {
		return false
	}
	text := strings.TrimLeft(strings.TrimPrefix(comment, commentMarker), " \t")
	return strings.HasPrefix(text, Prefix)
}

// ParseAnnotation parses a directive comment located at location
func (p *ParticipleParser) ParseAnnotation(comment string, location errors.SourceLocation) (*ParsedAnnotation, error) {
	if !IsAnnotation(comment) {
		return nil, errors.NewSyntaxError(fmt.Sprintf("not a lazy annotation: %q", comment)).
			WithInput(comment).
			WithLocation(location)
	}

	afterMarker := strings.TrimPrefix(comment, commentMarker)
	text := strings.TrimLeft(afterMarker, " \t")
	offset := len(commentMarker) + len(afterMarker) - len(text)
	text = strings.TrimRight(text, " \t\r")

	header, err := p.parser.ParseString(location.File, text)
	if err != nil {
		return nil, errors.NewSyntaxError("malformed lazy annotation").
			WithInput(comment).
			WithLocation(location).
			WithCause(err).
			WithSuggestion("use //lazy::once, //lazy::ref or //lazy::map <Type>, <transform>")
	}

	mode, err := ParseMode(header.Kind)
	if err != nil {
		return nil, errors.NewSyntaxError(err.Error()).
			WithInput(comment).
			WithLocation(location.Shift(offset + len(Prefix))).
			WithSuggestion("use one of: once, ref, map")
	}

	rawArgs := strings.TrimSpace(header.Rest)
	argsOffset := offset + len(Prefix) + len(header.Kind) + len(header.Rest) - len(strings.TrimLeft(header.Rest, " \t"))

	return &ParsedAnnotation{
		Mode:         mode,
		RawArgs:      rawArgs,
		Raw:          comment,
		Location:     location,
		ArgsLocation: location.Shift(argsOffset),
	}, nil
}

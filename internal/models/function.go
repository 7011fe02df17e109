package models

import (
	"github.com/toyz/lazyattr/internal/annotations"
	"github.com/toyz/lazyattr/internal/errors"
)

// LazyFunction is an annotated function declaration as read from source
type LazyFunction struct {
	Name       string                        // function name
	Exported   bool                          // whether the name is exported
	Doc        []string                      // doc comment lines without lazy:: directives
	Annotation *annotations.ParsedAnnotation // the single lazy:: directive

	Receiver   string  // receiver source, empty for plain functions
	TypeParams string  // type parameter list source, empty when not generic
	Params     []Param // declared parameters, including a context marker
	Results    string  // result list source as written, empty when none
	ResultType string  // type of the single result, empty when none
	NumResults int     // number of declared results
	Body       string  // body source including braces, empty when absent

	Async     bool   // only parameter is a context.Context
	AsyncName string // the context parameter's name, possibly empty or "_"

	Start int // byte offset of the first doc line or the func keyword
	End   int // byte offset just past the declaration

	Location           errors.SourceLocation // func keyword
	NameLocation       errors.SourceLocation // function name
	ReceiverLocation   errors.SourceLocation // receiver list, if any
	ParamsLocation     errors.SourceLocation // opening parenthesis of the parameter list
	TypeParamsLocation errors.SourceLocation
	ResultsLocation    errors.SourceLocation
}

// Param is a single declared parameter
type Param struct {
	Name     string // may be empty or "_"
	Type     string // type source
	Location errors.SourceLocation
}

// Mode returns the annotation mode of the function
func (f *LazyFunction) Mode() annotations.Mode {
	if f.Annotation == nil {
		return annotations.ModePlain
	}
	return f.Annotation.Mode
}

// HasResult reports whether the function declares a result
func (f *LazyFunction) HasResult() bool {
	return f.NumResults > 0
}

// HasBody reports whether the declaration carries a body
func (f *LazyFunction) HasBody() bool {
	return f.Body != ""
}

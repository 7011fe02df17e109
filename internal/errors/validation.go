package errors

import "fmt"

// ValidationError is raised when an annotated function has an unsupported shape
type ValidationError struct {
	*BaseError
	Function string // annotated function name
	Rule     string // the shape rule that failed
}

// NewValidationError creates a new validation error
func NewValidationError(function, rule, message string) *ValidationError {
	return &ValidationError{
		BaseError: New(ValidationErrorCode, message),
		Function:  function,
		Rule:      rule,
	}
}

// WithLocation adds location information to the error
func (e *ValidationError) WithLocation(loc SourceLocation) *ValidationError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *ValidationError) WithSuggestion(suggestion string) *ValidationError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// SyntaxError represents a malformed annotation
type SyntaxError struct {
	*BaseError
	Input string // the text that failed to parse
}

// NewSyntaxError creates a new syntax error
func NewSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, message),
	}
}

// WithInput records the offending text
func (e *SyntaxError) WithInput(input string) *SyntaxError {
	e.Input = input
	return e
}

// WithLocation adds location information to the error
func (e *SyntaxError) WithLocation(loc SourceLocation) *SyntaxError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithCause adds an underlying error cause
func (e *SyntaxError) WithCause(cause error) *SyntaxError {
	e.BaseError.WithCause(cause)
	return e
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *SyntaxError) WithSuggestion(suggestion string) *SyntaxError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// DependencyError is raised when the facility module cannot be located
type DependencyError struct {
	*BaseError
	Module string // the module that was expected
	GoMod  string // the go.mod that was searched, if any
}

// NewDependencyError creates a new dependency error
func NewDependencyError(module, goMod string) *DependencyError {
	err := &DependencyError{
		BaseError: New(DependencyErrorCode, MissingFacilityMessage(module)),
		Module:    module,
		GoMod:     goMod,
	}
	err.BaseError.WithSuggestion(fmt.Sprintf("run `go get %s`", module))
	return err
}

// WithLocation adds location information to the error
func (e *DependencyError) WithLocation(loc SourceLocation) *DependencyError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithCause adds an underlying error cause
func (e *DependencyError) WithCause(cause error) *DependencyError {
	e.BaseError.WithCause(cause)
	return e
}

// GenerationError represents a failure while assembling or writing output
type GenerationError struct {
	*BaseError
	TargetFile string // file being generated
	Stage      string // generation stage (emit, format, write)
}

// NewGenerationError creates a new generation error
func NewGenerationError(message string) *GenerationError {
	return &GenerationError{
		BaseError: New(GenerationErrorCode, message),
	}
}

// WithTargetFile sets the file being generated
func (e *GenerationError) WithTargetFile(targetFile string) *GenerationError {
	e.TargetFile = targetFile
	return e
}

// WithStage sets the generation stage
func (e *GenerationError) WithStage(stage string) *GenerationError {
	e.Stage = stage
	return e
}

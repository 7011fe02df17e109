package errors

import "fmt"

// Fixed diagnostic texts reported for annotated functions.
const (
	MsgArgumentsNotSupported  = "Arguments are not supported on lazy functions"
	MsgAsyncNotEnabled        = "Async functions are only supported when the async feature is enabled"
	MsgTypeParamsNotSupported = "Type parameters are not supported on lazy functions"
	MsgMultipleResults        = "Multiple return values are not supported on lazy functions"
	MsgMissingBody            = "Functions without a body are not supported on lazy functions"
	MsgDuplicateAnnotation    = "Only one lazy annotation is allowed per function"
	MsgMapGrammar             = "expected //lazy::map <Type>, <func literal or function path>"
)

// Validation rule names carried by ValidationError.Rule
const (
	RuleNoArguments  = "no-arguments"
	RuleNoAsync      = "no-async"
	RuleNoTypeParams = "no-type-params"
	RuleSingleResult = "single-result"
	RuleHasBody      = "has-body"
)

// MissingFacilityMessage is the diagnostic text for an unresolvable facility module
func MissingFacilityMessage(module string) string {
	return fmt.Sprintf("Could not find %s module in your go.mod", module)
}

// ArgumentsNotSupported reports a function declaring parameters or a receiver
func ArgumentsNotSupported(function string, loc SourceLocation) *ValidationError {
	return NewValidationError(function, RuleNoArguments, MsgArgumentsNotSupported).
		WithLocation(loc).
		WithSuggestion("move the inputs into package-level state or drop the lazy annotation")
}

// AsyncNotEnabled reports a context-taking function while async support is off
func AsyncNotEnabled(function string, loc SourceLocation) *ValidationError {
	return NewValidationError(function, RuleNoAsync, MsgAsyncNotEnabled).
		WithLocation(loc).
		WithSuggestion("run lazyattr with --async")
}

// MapGrammar reports malformed //lazy::map arguments
func MapGrammar(input string, loc SourceLocation, cause error) *SyntaxError {
	err := NewSyntaxError(MsgMapGrammar).WithInput(input).WithLocation(loc)
	if cause != nil {
		err.WithCause(cause)
	}
	return err
}

package generator

import (
	"github.com/toyz/lazyattr/internal/annotations"
	"github.com/toyz/lazyattr/internal/errors"
	"github.com/toyz/lazyattr/internal/models"
)

// Expander runs one annotated function through argument parsing, shape
// validation, facility resolution and emission. Every entry point returns
// either a fragment or a single located diagnostic.
type Expander struct {
	validator FunctionValidator
	resolver  FacilityResolver
	emitter   CodeEmitter
}

// NewExpander creates an expander using the default emitter
func NewExpander(validator FunctionValidator, resolver FacilityResolver) *Expander {
	return NewExpanderWithEmitter(validator, resolver, NewEmitter())
}

// NewExpanderWithEmitter creates an expander with a custom emitter
func NewExpanderWithEmitter(validator FunctionValidator, resolver FacilityResolver, emitter CodeEmitter) *Expander {
	return &Expander{
		validator: validator,
		resolver:  resolver,
		emitter:   emitter,
	}
}

// Expand dispatches on the function's annotation mode
func (x *Expander) Expand(file *models.SourceFile, fn *models.LazyFunction) (models.Fragment, errors.LazyError) {
	switch fn.Mode() {
	case annotations.ModeRef:
		return x.ExpandRef(file, fn)
	case annotations.ModeMap:
		return x.ExpandMap(file, fn, rawArgs(fn))
	default:
		return x.ExpandOnce(file, fn)
	}
}

// ExpandOnce handles //lazy::once
func (x *Expander) ExpandOnce(file *models.SourceFile, fn *models.LazyFunction) (models.Fragment, errors.LazyError) {
	return x.expand(file, fn, annotations.ModePlain, rawArgs(fn))
}

// ExpandRef handles //lazy::ref
func (x *Expander) ExpandRef(file *models.SourceFile, fn *models.LazyFunction) (models.Fragment, errors.LazyError) {
	return x.expand(file, fn, annotations.ModeRef, rawArgs(fn))
}

// ExpandMap handles //lazy::map with the given argument text
func (x *Expander) ExpandMap(file *models.SourceFile, fn *models.LazyFunction, args string) (models.Fragment, errors.LazyError) {
	return x.expand(file, fn, annotations.ModeMap, args)
}

func (x *Expander) expand(file *models.SourceFile, fn *models.LazyFunction, mode annotations.Mode, raw string) (models.Fragment, errors.LazyError) {
	location := fn.NameLocation
	if fn.Annotation != nil {
		location = fn.Annotation.ArgsLocation
	}

	args, err := annotations.ParseArgs(mode, raw, location)
	if err != nil {
		return models.Fragment{}, toLazyError(err, location)
	}

	if lazyErr := x.validator.Validate(fn); lazyErr != nil {
		return models.Fragment{}, lazyErr
	}

	facility, lazyErr := x.resolver.Resolve(file, fn)
	if lazyErr != nil {
		return models.Fragment{}, lazyErr
	}

	fragment, err := x.emitter.Emit(fn, args, facility)
	if err != nil {
		genErr := errors.WrapGenerateError("emit", fn.Name, err)
		genErr.WithLocation(fn.Location)
		return models.Fragment{}, genErr
	}
	return fragment, nil
}

func rawArgs(fn *models.LazyFunction) string {
	if fn.Annotation == nil {
		return ""
	}
	return fn.Annotation.RawArgs
}

func toLazyError(err error, location errors.SourceLocation) errors.LazyError {
	if lazyErr, ok := err.(errors.LazyError); ok {
		return lazyErr
	}
	return errors.Wrap(errors.SyntaxErrorCode, err.Error(), err).WithLocation(location)
}

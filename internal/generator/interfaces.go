package generator

import (
	"github.com/toyz/lazyattr/internal/annotations"
	"github.com/toyz/lazyattr/internal/errors"
	"github.com/toyz/lazyattr/internal/models"
)

// FunctionValidator rejects annotated functions with an unsupported shape
type FunctionValidator interface {
	Validate(fn *models.LazyFunction) errors.LazyError
}

// FacilityResolver decides how generated code in file names the runtime package
type FacilityResolver interface {
	Resolve(file *models.SourceFile, fn *models.LazyFunction) (models.FacilityName, errors.LazyError)
}

// CodeEmitter turns a validated function into its Generated Fragment
type CodeEmitter interface {
	Emit(fn *models.LazyFunction, args annotations.Args, facility models.FacilityName) (models.Fragment, error)
}

// FileGenerator assembles the generated file for a tagged source file
type FileGenerator interface {
	GenerateFile(file *models.SourceFile, fragments []models.Fragment) (*models.GeneratedFile, error)
}

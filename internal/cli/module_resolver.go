package cli

import (
	"path/filepath"

	"github.com/toyz/lazyattr/internal/errors"
	"github.com/toyz/lazyattr/internal/models"
	"github.com/toyz/lazyattr/internal/parser"
	"github.com/toyz/lazyattr/internal/utils"
)

// ModuleResolver decides how generated code names the runtime package by
// looking at the go.mod governing the source file.
type ModuleResolver struct {
	goMod *utils.GoModParser
}

// NewModuleResolver creates a module resolver sharing reader's cache
func NewModuleResolver(reader *utils.FileReader) *ModuleResolver {
	return &ModuleResolver{
		goMod: utils.NewGoModParser(reader),
	}
}

// Resolve returns the facility name for fn, or a dependency diagnostic
// anchored at the function name when lazyattr is not reachable.
func (r *ModuleResolver) Resolve(file *models.SourceFile, fn *models.LazyFunction) (models.FacilityName, errors.LazyError) {
	dir := filepath.Dir(file.Path)

	module, err := r.goMod.FindModule(dir)
	if err != nil {
		return models.FacilityName{}, errors.NewDependencyError(parser.FacilityModule, "").
			WithLocation(fn.NameLocation).
			WithCause(err)
	}

	if module.Path == parser.FacilityModule {
		importPath, err := module.ImportPath(dir)
		if err == nil && importPath == parser.RuntimeImportPath {
			return models.FacilityName{Kind: models.FacilitySelf}, nil
		}
		return facilityFor(models.FacilitySelf, file), nil
	}

	if module.DependsOn(parser.FacilityModule) {
		return facilityFor(models.FacilityAlias, file), nil
	}

	return models.FacilityName{}, errors.NewDependencyError(parser.FacilityModule, module.GoMod).
		WithLocation(fn.NameLocation)
}

// facilityFor names the runtime package the way file already imports it,
// falling back to "lazy" or "lazyrt" when it does not.
func facilityFor(kind models.FacilityKind, file *models.SourceFile) models.FacilityName {
	if name, ok := file.ImportNameFor(parser.RuntimeImportPath); ok && name != "_" {
		switch name {
		case ".":
			return models.FacilityName{Kind: kind}
		case "":
			name = parser.RuntimePackageName
		}
		return models.FacilityName{Kind: kind, Name: name, ImportPath: parser.RuntimeImportPath}
	}

	name := parser.RuntimePackageName
	if file.UsesName(name, parser.DefaultImportName) {
		name = parser.RuntimeFallbackName
	}
	return models.FacilityName{Kind: kind, Name: name, ImportPath: parser.RuntimeImportPath}
}

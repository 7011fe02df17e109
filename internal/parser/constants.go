package parser

const (
	// DefaultTag is the build tag that marks lazyattr source files
	DefaultTag = "lazyattr"

	// GeneratedSuffix replaces ".go" in the name of a generated file
	GeneratedSuffix = "_lazygen.go"

	// GeneratedHeader is the first line of every generated file
	GeneratedHeader = "// Code generated by lazyattr. DO NOT EDIT."

	// StaticPrefix prefixes the hidden storage variable of a lazy function
	StaticPrefix = "_lazy_"

	// FacilityModule is the module path of lazyattr itself
	FacilityModule = "github.com/toyz/lazyattr"

	// RuntimeImportPath is the package holding the one-time cells
	RuntimeImportPath = FacilityModule + "/pkg/lazy"

	// RuntimePackageName is the package clause name of RuntimeImportPath
	RuntimePackageName = "lazy"

	// RuntimeFallbackName is used when RuntimePackageName is taken in a file
	RuntimeFallbackName = "lazyrt"

	contextImportPath = "context"
	contextTypeName   = "Context"
)

package models

import "github.com/toyz/lazyattr/internal/errors"

// FacilityKind tells how generated code reaches the runtime package
type FacilityKind int

const (
	// FacilitySelf means the code being generated lives in the lazyattr module
	FacilitySelf FacilityKind = iota
	// FacilityAlias means the consumer depends on lazyattr and imports it
	FacilityAlias
)

// String returns the string representation of the facility kind
func (k FacilityKind) String() string {
	if k == FacilityAlias {
		return "alias"
	}
	return "self"
}

// FacilityName is the resolved way generated code names the runtime package
type FacilityName struct {
	Kind       FacilityKind
	Name       string // package identifier, empty when referenced unqualified
	ImportPath string // runtime import path, empty when no import is needed
}

// Qualifier returns the prefix placed before runtime identifiers
func (f FacilityName) Qualifier() string {
	if f.Name == "" {
		return ""
	}
	return f.Name + "."
}

// NeedsImport reports whether the generated file must import the runtime
func (f FacilityName) NeedsImport() bool {
	return f.ImportPath != ""
}

// Fragment is the generated replacement of one annotated function
type Fragment struct {
	Function string       // original function name
	Static   string       // hidden storage declaration
	Func     string       // replacement function declaration, doc comment included
	Facility FacilityName // how Static and Func reach the runtime package
}

// String joins the storage declaration and the replacement function
func (f Fragment) String() string {
	return f.Static + "\n\n" + f.Func
}

// GeneratedFile is the output produced for one source file
type GeneratedFile struct {
	SourcePath string   // the tagged source file
	Path       string   // where the generated file is written
	Content    []byte   // formatted Go source
	Functions  []string // names of the rewritten functions
}

// FileResult is the outcome of processing one source file: either a
// generated file or the diagnostics that prevented it.
type FileResult struct {
	SourcePath  string
	Generated   *GeneratedFile
	Diagnostics *errors.MultipleErrors
}

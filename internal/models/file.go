package models

// SourceFile is a Go file guarded by the generation tag
type SourceFile struct {
	Path        string // file path
	PackageName string // package clause name
	Source      []byte // original contents

	Constraint      string // build constraint expression, without //go:build
	ConstraintStart int    // byte offset of the //go:build line
	ConstraintEnd   int    // byte offset just past the //go:build line

	Imports   []Import       // declared imports in source order
	Decls     []string       // names declared at package level in this file
	Functions []LazyFunction // annotated functions in source order
}

// Import is a single import spec
type Import struct {
	Name string // explicit name, empty when implicit
	Path string // unquoted import path
}

// ImportNameFor returns the explicit name under which path is imported and
// whether the file imports it at all.
func (f *SourceFile) ImportNameFor(path string) (string, bool) {
	for _, imp := range f.Imports {
		if imp.Path == path {
			return imp.Name, true
		}
	}
	return "", false
}

// UsesName reports whether an import or a package-level declaration of the
// file already binds name.
func (f *SourceFile) UsesName(name string, defaultName func(path string) string) bool {
	for _, decl := range f.Decls {
		if decl == name {
			return true
		}
	}
	for _, imp := range f.Imports {
		bound := imp.Name
		if bound == "" && defaultName != nil {
			bound = defaultName(imp.Path)
		}
		if bound == name {
			return true
		}
	}
	return false
}

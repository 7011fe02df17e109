package models

// PackageMetadata groups the tagged source files of one package directory
type PackageMetadata struct {
	PackageName string       // name of the Go package
	PackagePath string       // file system path to the package
	ImportPath  string       // import path, when the module is known
	Files       []SourceFile // tagged source files
}

// FunctionCount returns the number of annotated functions in the package
func (p *PackageMetadata) FunctionCount() int {
	count := 0
	for _, file := range p.Files {
		count += len(file.Functions)
	}
	return count
}

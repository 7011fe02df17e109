package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	pluralizer "github.com/gertd/go-pluralize"
	"golang.org/x/sync/errgroup"

	"github.com/toyz/lazyattr/internal/errors"
	"github.com/toyz/lazyattr/internal/generator"
	"github.com/toyz/lazyattr/internal/models"
	"github.com/toyz/lazyattr/internal/parser"
	"github.com/toyz/lazyattr/internal/utils"
)

var pluralizeClient = pluralizer.NewClient()

// GenerationSummary contains information about one generation run
type GenerationSummary struct {
	PackagesScanned    int
	FilesScanned       int
	FunctionsRewritten int
	GeneratedFiles     []string // written because their content changed
	UnchangedFiles     []string // already up to date
	RemovedFiles       []string // stale output of files that now fail
	Diagnostics        int
	Duration           time.Duration
}

// String renders the summary as a single line
func (s GenerationSummary) String() string {
	parts := []string{
		pluralizeClient.Pluralize("package", s.PackagesScanned, true),
		pluralizeClient.Pluralize("tagged file", s.FilesScanned, true),
		pluralizeClient.Pluralize("lazy function", s.FunctionsRewritten, true),
		fmt.Sprintf("%d written", len(s.GeneratedFiles)),
		fmt.Sprintf("%d unchanged", len(s.UnchangedFiles)),
	}
	if len(s.RemovedFiles) > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", len(s.RemovedFiles)))
	}
	if s.Diagnostics > 0 {
		parts = append(parts, pluralizeClient.Pluralize("diagnostic", s.Diagnostics, true))
	}
	return strings.Join(parts, ", ") + fmt.Sprintf(" in %s", s.Duration.Round(time.Millisecond))
}

// PackageResult is the outcome of processing one package directory
type PackageResult struct {
	Metadata  models.PackageMetadata
	Files     []models.FileResult
	Written   []string
	Unchanged []string
	Removed   []string
}

// Diagnostics collects the diagnostics of every file in the package
func (p *PackageResult) Diagnostics() *errors.MultipleErrors {
	all := errors.NewMultipleErrors()
	for _, file := range p.Files {
		all.Merge(file.Diagnostics)
	}
	return all
}

// RewrittenFunctions counts the functions of files that were generated
func (p *PackageResult) RewrittenFunctions() int {
	count := 0
	for _, file := range p.Files {
		if file.Generated != nil {
			count += len(file.Generated.Functions)
		}
	}
	return count
}

// Generator coordinates the CLI generation process
type Generator struct {
	config      Config
	fileReader  *utils.FileReader
	scanner     *DirectoryScanner
	resolver    *ModuleResolver
	validator   *parser.Validator
	expander    *generator.Expander
	files       generator.FileGenerator
	processor   *utils.FileProcessor
	diagnostics *utils.DiagnosticSystem
	reporter    *DiagnosticReporter
}

// NewGenerator creates a new CLI generator. The async toggle and the tag
// are read from config once, here.
func NewGenerator(config Config, diagnostics *utils.DiagnosticSystem) *Generator {
	config.Normalize()

	reader := utils.NewFileReader()
	resolver := NewModuleResolver(reader)
	validator := parser.NewValidator(config.Async)

	baseDir, _ := os.Getwd()

	return &Generator{
		config:      config,
		fileReader:  reader,
		scanner:     NewDirectoryScanner(reader, config.Exclude),
		resolver:    resolver,
		validator:   validator,
		expander:    generator.NewExpander(validator, resolver),
		files:       generator.NewGenerator(config.Tag),
		processor:   utils.NewFileProcessorWithReader(reader),
		diagnostics: diagnostics,
		reporter:    NewDiagnosticReporter(diagnostics, config.Verbose, baseDir),
	}
}

// Config returns the normalized configuration
func (g *Generator) Config() Config {
	return g.config
}

// Reporter returns the diagnostic reporter used for this generator
func (g *Generator) Reporter() *DiagnosticReporter {
	return g.reporter
}

// Scanner returns the directory scanner
func (g *Generator) Scanner() *DirectoryScanner {
	return g.scanner
}

// Clean removes generated files below the configured directories
func (g *Generator) Clean() ([]string, error) {
	return NewCleaner(g.scanner, g.fileReader).CleanGeneratedFiles(g.config.Directories)
}

// Run scans the configured directories and processes every package. The
// returned error is non-nil when any diagnostic was produced; all of them
// have already been reported.
func (g *Generator) Run(ctx context.Context) (GenerationSummary, error) {
	g.diagnostics.Verbose("Scanning %s", strings.Join(g.config.Directories, ", "))

	packageDirs, err := g.scanner.ScanDirectories(g.config.Directories)
	if err != nil {
		g.reporter.Report(err)
		return GenerationSummary{}, err
	}
	g.diagnostics.Debug("Validator rules: %s", strings.Join(g.validator.Rules(), ", "))

	return g.RunPackages(ctx, packageDirs)
}

// RunPackages processes the given package directories concurrently
func (g *Generator) RunPackages(ctx context.Context, packageDirs []string) (GenerationSummary, error) {
	start := time.Now()
	summary := GenerationSummary{PackagesScanned: len(packageDirs)}
	diagnostics := errors.NewMultipleErrors()

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(g.config.Concurrency)

	for _, dir := range packageDirs {
		group.Go(func() error {
			result, err := g.ProcessPackage(groupCtx, dir)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			summary.FilesScanned += len(result.Files)
			summary.FunctionsRewritten += result.RewrittenFunctions()
			summary.GeneratedFiles = append(summary.GeneratedFiles, result.Written...)
			summary.UnchangedFiles = append(summary.UnchangedFiles, result.Unchanged...)
			summary.RemovedFiles = append(summary.RemovedFiles, result.Removed...)
			diagnostics.Merge(result.Diagnostics())
			return nil
		})
	}

	err := group.Wait()

	sort.Strings(summary.GeneratedFiles)
	sort.Strings(summary.UnchangedFiles)
	sort.Strings(summary.RemovedFiles)
	summary.Diagnostics = g.reporter.Report(diagnostics.ErrOrNil())
	summary.Duration = time.Since(start)

	if err != nil {
		g.reporter.Report(err)
		return summary, err
	}
	return summary, diagnostics.ErrOrNil()
}

// ProcessPackage generates every tagged file in dir. Diagnostics are
// returned inside the result; the error is reserved for failures that stop
// the run, such as an unreadable directory or a cancelled context.
func (g *Generator) ProcessPackage(ctx context.Context, dir string) (*PackageResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	paths, err := g.scanner.SourceFiles(dir)
	if err != nil {
		return nil, err
	}

	result := &PackageResult{
		Metadata: models.PackageMetadata{PackagePath: dir},
	}
	if module, err := g.resolver.goMod.FindModule(dir); err == nil {
		result.Metadata.ImportPath, _ = module.ImportPath(dir)
	}

	p := parser.NewParser(g.config.Tag)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fileResult, source, err := g.ProcessFile(p, path)
		if err != nil {
			return nil, err
		}
		if fileResult == nil {
			continue
		}

		result.Files = append(result.Files, *fileResult)
		if source != nil {
			result.Metadata.PackageName = source.PackageName
			result.Metadata.Files = append(result.Metadata.Files, *source)
		}
	}

	if len(result.Files) > 0 {
		g.diagnostics.Debug("%s: %s", result.Metadata.ImportPath,
			pluralizeClient.Pluralize("lazy function", result.Metadata.FunctionCount(), true))
	}

	for _, file := range result.Files {
		if file.Generated == nil {
			// the previous output no longer matches the source
			output, err := g.removeGenerated(file.SourcePath)
			if err != nil {
				return nil, err
			}
			if output != "" {
				result.Removed = append(result.Removed, output)
			}
			continue
		}
		changed, err := utils.WriteFileIfChanged(file.Generated.Path, file.Generated.Content)
		if err != nil {
			return nil, errors.WrapFileSystemError("write", file.Generated.Path, err)
		}
		g.fileReader.InvalidateFile(file.Generated.Path)

		if changed {
			g.diagnostics.PhaseProgress("Writing " + g.reporter.relative(file.Generated.Path))
			result.Written = append(result.Written, file.Generated.Path)
		} else {
			g.diagnostics.Verbose("%s is up to date", g.reporter.relative(file.Generated.Path))
			result.Unchanged = append(result.Unchanged, file.Generated.Path)
		}
	}

	return result, nil
}

// ProcessFile parses, expands and assembles one source file. It returns a
// nil result for files that do not carry the generation tag. A file with
// any diagnostic yields no generated file.
func (g *Generator) ProcessFile(p *parser.Parser, path string) (*models.FileResult, *models.SourceFile, error) {
	content, err := g.fileReader.ReadFile(path)
	if err != nil {
		return nil, nil, errors.WrapFileSystemError("read", path, err)
	}
	if !p.IsTagged(content) {
		return nil, nil, nil
	}

	g.diagnostics.Verbose("Processing %s", g.reporter.relative(path))

	result := &models.FileResult{
		SourcePath:  path,
		Diagnostics: errors.NewMultipleErrors(),
	}

	source, err := p.ParseSource(path, content)
	if err != nil {
		addDiagnostics(result.Diagnostics, err)
	}
	if source == nil {
		return result, nil, nil
	}

	fragments := make([]models.Fragment, 0, len(source.Functions))
	for i := range source.Functions {
		fn := &source.Functions[i]
		g.diagnostics.Dump(fn.Name, fn.Annotation)

		fragment, lazyErr := g.expander.Expand(source, fn)
		if lazyErr != nil {
			result.Diagnostics.Add(lazyErr)
			continue
		}
		fragments = append(fragments, fragment)
	}

	if !result.Diagnostics.IsEmpty() {
		return result, source, nil
	}

	generated, err := g.files.GenerateFile(source, fragments)
	if err != nil {
		addDiagnostics(result.Diagnostics, err)
		return result, source, nil
	}

	result.Generated = generated
	return result, source, nil
}

// addDiagnostics flattens err into diagnostics
func addDiagnostics(diagnostics *errors.MultipleErrors, err error) {
	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) {
		diagnostics.Merge(multi)
		return
	}
	var lazyErr errors.LazyError
	if stderrors.As(err, &lazyErr) {
		diagnostics.Add(lazyErr)
		return
	}
	diagnostics.Add(errors.Wrap(errors.GenerationErrorCode, "generation failed", err))
}

// removeGenerated deletes the generated file of source if it carries the
// generated header and returns its path, or "" when nothing was removed.
func (g *Generator) removeGenerated(source string) (string, error) {
	output := generator.OutputPath(source)
	removed, err := g.processor.RemoveGeneratedFiles([]string{output}, parser.GeneratedHeader)
	if err != nil {
		return "", errors.WrapFileSystemError("remove", output, err)
	}
	if len(removed) == 0 {
		return "", nil
	}
	g.diagnostics.Verbose("Removed %s", g.reporter.relative(output))
	return output, nil
}

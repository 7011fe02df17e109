package cli

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/lazyattr/internal/errors"
	"github.com/toyz/lazyattr/internal/utils"
)

// DiagnosticReporter prints diagnostics compiler-style:
//
//	file:line:col: message
//
// Suggestions and underlying causes follow, indented, in verbose mode.
type DiagnosticReporter struct {
	diagnostics *utils.DiagnosticSystem
	verbose     bool
	baseDir     string
}

// NewDiagnosticReporter creates a new diagnostic reporter. Paths under
// baseDir are printed relative to it.
func NewDiagnosticReporter(diagnostics *utils.DiagnosticSystem, verbose bool, baseDir string) *DiagnosticReporter {
	return &DiagnosticReporter{
		diagnostics: diagnostics,
		verbose:     verbose,
		baseDir:     baseDir,
	}
}

// Report prints every diagnostic carried by err and returns how many were
// printed. MultipleErrors are flattened and sorted by location.
func (r *DiagnosticReporter) Report(err error) int {
	if err == nil {
		return 0
	}

	lazyErrors := Flatten(err)
	if len(lazyErrors) == 0 {
		r.diagnostics.Raw(r.diagnostics.Colorize("error: ", color.FgRed, color.Bold) + err.Error())
		return 1
	}

	for _, lazyErr := range lazyErrors {
		r.ReportError(lazyErr)
	}
	return len(lazyErrors)
}

// ReportError prints a single diagnostic
func (r *DiagnosticReporter) ReportError(lazyErr errors.LazyError) {
	r.diagnostics.Raw(r.Format(lazyErr))

	if !r.verbose {
		return
	}
	for _, suggestion := range lazyErr.Suggestions() {
		r.diagnostics.Raw("\t" + r.diagnostics.Colorize("help: ", color.FgCyan) + suggestion)
	}
	if cause := lazyErr.Unwrap(); cause != nil {
		r.diagnostics.Raw("\t" + r.diagnostics.Colorize("cause: ", color.FgHiBlack) + cause.Error())
	}
}

// ReportWarning prints a warning line
func (r *DiagnosticReporter) ReportWarning(message string) {
	r.diagnostics.Raw(r.diagnostics.Colorize("warning: ", color.FgYellow, color.Bold) + message)
}

// Format renders a diagnostic as "file:line:col: message". Diagnostics
// without a location render as "error: message".
func (r *DiagnosticReporter) Format(lazyErr errors.LazyError) string {
	message := messageOf(lazyErr)
	location := lazyErr.Location()
	if location.IsEmpty() {
		return r.diagnostics.Colorize("error: ", color.FgRed, color.Bold) + message
	}

	location.File = r.relative(location.File)
	return r.diagnostics.Colorize(location.String()+":", color.Bold) + " " + message
}

func (r *DiagnosticReporter) relative(path string) string {
	if r.baseDir == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(r.baseDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// messageOf returns the diagnostic text without the location prefix the
// error's own Error method adds. Unlocated errors carry their cause.
func messageOf(lazyErr errors.LazyError) string {
	location := lazyErr.Location()
	if !location.IsEmpty() {
		return strings.TrimPrefix(lazyErr.Error(), location.String()+": ")
	}
	if cause := lazyErr.Unwrap(); cause != nil {
		return fmt.Sprintf("%s: %v", lazyErr.Error(), cause)
	}
	return lazyErr.Error()
}

// Flatten collects the LazyErrors carried by err, sorted by file, line and
// column.
func Flatten(err error) []errors.LazyError {
	var out []errors.LazyError
	var collect func(error)
	collect = func(err error) {
		var multi *errors.MultipleErrors
		if stderrors.As(err, &multi) {
			for _, inner := range multi.Errors {
				collect(inner)
			}
			return
		}
		var lazyErr errors.LazyError
		if stderrors.As(err, &lazyErr) {
			out = append(out, lazyErr)
		}
	}
	collect(err)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Location(), out[j].Location()
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}

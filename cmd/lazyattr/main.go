// Command lazyattr rewrites //lazy:: annotated functions in files guarded by
// the lazyattr build tag into memoizing wrappers.
//
// Typical use is a go:generate directive in the package:
//
//	//go:generate go run github.com/toyz/lazyattr/cmd/lazyattr .
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	pluralizer "github.com/gertd/go-pluralize"

	"github.com/toyz/lazyattr/internal/cli"
	"github.com/toyz/lazyattr/internal/utils"
)

// CLI is the command line of lazyattr
type CLI struct {
	Dirs []string `arg:"" optional:"" default:"." help:"Package directories to process. A trailing /... scans the tree below."`

	Async       bool     `help:"Allow lazy functions whose only parameter is a context.Context."`
	Tag         string   `default:"lazyattr" help:"Build tag guarding source files."`
	Exclude     []string `placeholder:"GLOB" help:"Skip paths matching these doublestar patterns, relative to each scanned root."`
	Concurrency int      `default:"0" help:"Packages processed at once (0 means GOMAXPROCS)."`

	Verbose bool `short:"v" xor:"output" help:"Enable verbose output, including suggestions for each diagnostic."`
	Quiet   bool `short:"q" xor:"output" help:"Only show diagnostics."`
	Debug   bool `hidden:"" help:"Dump parsed annotations."`

	Clean bool `help:"Delete generated files instead of generating them."`
	Watch bool `short:"w" help:"Keep running and regenerate packages whose source files change."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes lazyattr with args and returns the process exit code:
// 0 on success, 1 when any diagnostic was reported, 2 on usage errors.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var flags CLI
	exitCode := -1

	parser, err := kong.New(&flags,
		kong.Name("lazyattr"),
		kong.Description("Generate memoizing wrappers for //lazy:: annotated Go functions."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exitCode = code }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "lazyattr: %v\n", err)
		return 2
	}

	if _, err := parser.Parse(args); err != nil {
		fmt.Fprintf(stderr, "lazyattr: %v\n", err)
		return 2
	}
	if exitCode >= 0 {
		return exitCode
	}

	diagnostics := newDiagnostics(flags, stdout, stderr)

	config := cli.Config{
		Directories: flags.Dirs,
		Tag:         flags.Tag,
		Async:       flags.Async,
		Exclude:     flags.Exclude,
		Concurrency: flags.Concurrency,
		Verbose:     flags.Verbose || flags.Debug,
	}
	config.Normalize()
	if err := config.Validate(); err != nil {
		cli.NewDiagnosticReporter(diagnostics, true, "").Report(err)
		return 2
	}

	generator := cli.NewGenerator(config, diagnostics)

	if flags.Clean {
		removed, err := generator.Clean()
		if err != nil {
			generator.Reporter().Report(err)
			return 1
		}
		if flags.Verbose {
			listFiles(diagnostics, "Removed:", removed)
		}
		diagnostics.Success("Removed %s", pluralizer.NewClient().Pluralize("generated file", len(removed), true))
		return 0
	}

	diagnostics.Header("generating in " + strings.Join(config.Directories, ", "))
	diagnostics.Dump("config", config)

	summary, err := generator.Run(ctx)
	if flags.Verbose {
		listFiles(diagnostics, "Written:", summary.GeneratedFiles)
	}
	code := 0
	if err != nil {
		code = 1
		diagnostics.Error("%s", summary.String())
	} else {
		diagnostics.Success("%s", summary.String())
	}

	if !flags.Watch {
		return code
	}

	watcher, err := cli.NewWatcher(generator)
	if err != nil {
		generator.Reporter().Report(err)
		return 1
	}
	if err := watcher.Watch(ctx); err != nil {
		generator.Reporter().Report(err)
		return 1
	}
	return 0
}

func listFiles(diagnostics *utils.DiagnosticSystem, title string, files []string) {
	if len(files) == 0 {
		return
	}
	diagnostics.Section(title)
	diagnostics.Indent()
	for _, file := range files {
		diagnostics.List("%s", file)
	}
	diagnostics.Unindent()
}

func newDiagnostics(flags CLI, stdout, stderr io.Writer) *utils.DiagnosticSystem {
	level := utils.DiagnosticInfo
	switch {
	case flags.Debug:
		level = utils.DiagnosticDebug
	case flags.Verbose:
		level = utils.DiagnosticVerbose
	case flags.Quiet:
		level = utils.DiagnosticError
	}

	diagnostics := utils.NewDiagnosticSystem(level)
	if stdout != io.Writer(os.Stdout) || stderr != io.Writer(os.Stderr) {
		diagnostics.SetOutput(stdout, stderr)
	}
	return diagnostics
}

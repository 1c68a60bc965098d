// Package main is the treedit command: it prints a file with syntax
// highlighting, or dumps its syntax tree.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dshills/treedit/internal/app"
	"github.com/dshills/treedit/internal/editor"
	"github.com/dshills/treedit/internal/engine/document"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	app.Options
	lang    string
	tree    bool
	from    uint
	height  uint
	width   uint
	noColor bool
	version bool
	file    string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, code, ok := parseFlags(args, stderr)
	if !ok {
		return code
	}
	if opts.version {
		fmt.Fprintln(stdout, "treedit", version, "commit", commit, "built", date)
		return 0
	}
	opts.LogOutput = stderr

	application, err := app.New(opts.Options)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	buf, err := openBuffer(application.Editor(), opts, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if opts.tree {
		fmt.Fprintln(stdout, buf.Doc.SExpr())
		return 0
	}

	pane := editor.NewPane(buf)
	if err := pane.ScrollTo(uint32(opts.from)); err != nil {
		if errors.Is(err, document.ErrOutOfRange) {
			fmt.Fprintf(stderr, "Error: -from %d: file has %d lines\n", opts.from, buf.Doc.LenLines())
			return 2
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	height := int(opts.height)
	if height == 0 {
		height = int(buf.Doc.LenLines() - uint32(opts.from))
	}
	view, err := pane.Render(int(opts.width), height)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	p := newPrinter(stdout, application.Theme(), !opts.noColor)
	for _, row := range view.Rows {
		p.row(row)
	}
	if err := p.flush(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// openBuffer opens the named file, or standard input for "-". An explicit
// language overrides the extension.
func openBuffer(ed *editor.Editor, opts options, stdin io.Reader) (*editor.Buffer, error) {
	if opts.file == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return ed.OpenString("stdin", string(data), opts.lang)
	}
	if opts.lang == "" {
		return ed.Open(opts.file)
	}
	data, err := os.ReadFile(opts.file)
	if err != nil {
		return nil, err
	}
	return ed.OpenString(filepath.Base(opts.file), string(data), opts.lang)
}

// parseFlags returns the options, or ok=false with the exit code to use.
func parseFlags(args []string, stderr io.Writer) (opts options, code int, ok bool) {
	fs := flag.NewFlagSet("treedit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.ConfigPath, "config", "", "Path to a TOML or YAML configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.lang, "lang", "", "Language name, overriding the file extension")
	fs.BoolVar(&opts.tree, "tree", false, "Print the syntax tree instead of the text")
	fs.UintVar(&opts.from, "from", 0, "First row to print (0-indexed)")
	fs.UintVar(&opts.height, "height", 0, "Number of rows to print (0 = to the end)")
	fs.UintVar(&opts.width, "width", 0, "Clip rows to this many columns (0 = no clipping)")
	fs.BoolVar(&opts.noColor, "no-color", false, "Print plain text")
	fs.BoolVar(&opts.version, "version", false, "Show version information")
	fs.BoolVar(&opts.version, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "treedit - syntax highlighting text viewer\n\n")
		fmt.Fprintf(stderr, "Usage: treedit [options] file\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  treedit main.go                  Print a highlighted file\n")
		fmt.Fprintf(stderr, "  treedit -from 40 -height 20 a.js Print rows 40-59\n")
		fmt.Fprintf(stderr, "  treedit -lang python -tree -     Dump the tree of stdin\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, 0, false
		}
		return opts, 2, false
	}
	if opts.version {
		return opts, 0, true
	}

	switch fs.NArg() {
	case 1:
		opts.file = fs.Arg(0)
	case 0:
		fmt.Fprintln(stderr, "Error: no file given")
		fs.Usage()
		return opts, 2, false
	default:
		fmt.Fprintln(stderr, "Error: only one file may be given")
		return opts, 2, false
	}
	return opts, 0, true
}

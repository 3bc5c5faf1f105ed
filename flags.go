package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/peterbourgon/ff/v3"
	"go.abhg.dev/pt2html/internal/flagvalue"
	"go.abhg.dev/pt2html/internal/html"
)

var (
	errHelp             = flag.ErrHelp
	errInvalidArguments = errors.New("invalid arguments")
)

// _envPrefix is the prefix for environment variables
// that may be used in place of flags.
const _envPrefix = "PT2HTML"

// params holds all arguments for pt2html.
type params struct {
	version bool
	help    Help

	Debug flagvalue.FileSwitch

	OutputDir string
	Title     string

	Marks       []flagvalue.MarkSpec
	FallbackTag string
	BaseURL     string
	PerSpan     bool
	Dangling    html.DanglingPolicy
	Normalize   html.Normalization

	Highlight        string
	HighlightClasses bool

	Standalone      bool
	Frontmatter     string
	FrontmatterFile string
	Concurrency     int

	Inputs []string
}

// cliParser parses the command line arguments for pt2html.
type cliParser struct {
	Stdout io.Writer
	Stderr io.Writer

	// NoEnv disables reading PT2HTML_* environment variables.
	NoEnv bool
}

func (cmd *cliParser) newFlagSet() (*params, *flag.FlagSet) {
	flag := flag.NewFlagSet("pt2html", flag.ContinueOnError)
	flag.SetOutput(cmd.Stderr)
	flag.Usage = func() {
		_ = DefaultHelp.Write(cmd.Stderr)
	}

	var p params

	// Output:
	flag.StringVar(&p.OutputDir, "out", "", "")
	flag.StringVar(&p.Title, "title", "", "")
	flag.BoolVar(&p.Standalone, "standalone", false, "")
	flag.StringVar(&p.Frontmatter, "frontmatter", "", "")
	flag.StringVar(&p.FrontmatterFile, "frontmatter-file", "", "")

	// Marks:
	flag.Var(flagvalue.ListOf(&p.Marks), "mark", "")
	flag.StringVar(&p.FallbackTag, "fallback-tag", "span", "")
	flag.StringVar(&p.BaseURL, "base-url", "", "")
	flag.BoolVar(&p.PerSpan, "per-span", false, "")
	flag.Var(&p.Dangling, "dangling", "")
	flag.Var(&p.Normalize, "normalize", "")

	// Code blocks:
	flag.StringVar(&p.Highlight, "highlight", "", "")
	flag.BoolVar(&p.HighlightClasses, "highlight-classes", false, "")

	// Program-level:
	flag.IntVar(&p.Concurrency, "j", 1, "")
	flag.String("config", "", "")
	flag.Var(&p.Debug, "debug", "")
	flag.BoolVar(&p.version, "version", false, "")
	flag.Var(&p.help, "help", "")
	flag.Var(&p.help, "h", "")

	return &p, flag
}

func (cmd *cliParser) Parse(args []string) (*params, error) {
	p, flag := cmd.newFlagSet()

	opts := []ff.Option{
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	}
	if !cmd.NoEnv {
		opts = append(opts, ff.WithEnvVarPrefix(_envPrefix))
	}
	if err := ff.Parse(flag, args, opts...); err != nil {
		return nil, err
	}
	args = flag.Args()

	if p.version {
		fmt.Fprintln(cmd.Stdout, "pt2html", _version)
		return nil, errHelp
	}

	if p.help == DefaultHelp && len(args) > 0 {
		// The user might have done "-h foo"
		// instead of "-h=foo".
		// If the argument is a known help topic,
		// take it.
		var h Help
		if err := h.Set(args[0]); err == nil && h.Known() {
			p.help = h
		}
	}

	switch p.help {
	case NoHelp:
		// proceed as usual
	default:
		if err := p.help.Write(cmd.Stderr); err != nil {
			fmt.Fprintln(cmd.Stderr, err)
		}
		return nil, errHelp
	}

	if p.Frontmatter != "" && p.FrontmatterFile != "" {
		fmt.Fprintln(cmd.Stderr, "-frontmatter and -frontmatter-file cannot be used together.")
		return nil, errInvalidArguments
	}

	if p.Concurrency < 1 {
		fmt.Fprintln(cmd.Stderr, "-j must be at least 1.")
		return nil, errInvalidArguments
	}

	p.Inputs = args
	if len(p.Inputs) == 0 {
		fmt.Fprintln(cmd.Stderr, "Please provide at least one file.")
		_ = UsageHelp.Write(cmd.Stderr)
		return nil, errInvalidArguments
	}

	return p, nil
}

// pt2html renders Portable Text documents as HTML.
//
// See -help for usage.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"text/template"

	"braces.dev/errtrace"
	"go.abhg.dev/pt2html/internal/errdefer"
	"go.abhg.dev/pt2html/internal/flagvalue"
	"go.abhg.dev/pt2html/internal/highlight"
	"go.abhg.dev/pt2html/internal/html"
	"go.abhg.dev/pt2html/internal/marker"
)

func main() {
	cmd := mainCmd{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	os.Exit(cmd.Run(os.Args[1:]))
}

// mainCmd is the actual entry point to the program.
type mainCmd struct {
	Stdin  io.Reader // == os.Stdin
	Stdout io.Writer // == os.Stdout
	Stderr io.Writer // == os.Stderr

	// noEnv disables reading options from the environment.
	noEnv bool
}

func (cmd *mainCmd) Run(args []string) (exitCode int) {
	opts, err := (&cliParser{
		Stdout: cmd.Stdout,
		Stderr: cmd.Stderr,
		NoEnv:  cmd.noEnv,
	}).Parse(args)
	if err != nil {
		// '$cmd -h' should exit with zero.
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		// No need to print anything.
		// Parse prints messages.
		return 1
	}

	if err := cmd.run(opts); err != nil {
		if opts.Debug.Bool() {
			fmt.Fprintf(cmd.Stderr, "pt2html: %s", errtrace.FormatString(err))
		} else {
			fmt.Fprintf(cmd.Stderr, "pt2html: %v\n", err)
		}
		return 1
	}
	return 0
}

func (cmd *mainCmd) run(opts *params) (err error) {
	debugw, closeDebug, err := opts.Debug.Create(cmd.Stderr)
	if err != nil {
		return errtrace.Errorf("open debug log: %w", err)
	}
	defer errdefer.Invoke(&err, closeDebug)
	debugLog := log.New(debugw, "", 0)

	markers, err := newMarkerRegistry(opts)
	if err != nil {
		return errtrace.Wrap(err)
	}

	frontmatter, err := loadFrontmatter(opts)
	if err != nil {
		return errtrace.Wrap(err)
	}

	renderer := html.Renderer{
		Markers:     markers,
		Dangling:    opts.Dangling,
		Normalize:   opts.Normalize,
		Concurrency: opts.Concurrency,
		Standalone:  opts.Standalone,
		FrontMatter: frontmatter,
		Log:         debugLog,
	}
	if opts.PerSpan {
		renderer.Strategy = html.PerSpan
	}
	if opts.Highlight != "" {
		style, ok := highlight.Style(opts.Highlight)
		if !ok {
			return errtrace.Errorf("unknown highlight style %q", opts.Highlight)
		}
		renderer.Highlighter = &highlight.Highlighter{
			Style:      style,
			UseClasses: opts.HighlightClasses,
		}
	}

	gen := Generator{
		Log:      debugLog,
		Renderer: &renderer,
		Stdin:    cmd.Stdin,
		Stdout:   cmd.Stdout,
		OutDir:   opts.OutputDir,
		Title:    opts.Title,
	}
	return errtrace.Wrap(gen.Generate(opts.Inputs))
}

// newMarkerRegistry builds the registry of mark serializers
// from the standard set and the user's overrides.
func newMarkerRegistry(opts *params) (*marker.Registry, error) {
	reg := marker.NewRegistry()

	if opts.FallbackTag != "" {
		name, err := flagvalue.ElementName(opts.FallbackTag)
		if err != nil {
			return nil, errtrace.Errorf("bad -fallback-tag: %w", err)
		}
		reg.SetFallback(&marker.Tag{Name: name})
	}

	if opts.BaseURL != "" {
		base, err := url.Parse(opts.BaseURL)
		if err != nil {
			return nil, errtrace.Errorf("bad -base-url: %w", err)
		}
		reg.Register(marker.LinkType, &marker.Link{BaseURL: base})
	}

	for _, m := range opts.Marks {
		reg.Register(m.Type, m.Serializer())
	}

	return reg, nil
}

func loadFrontmatter(opts *params) (*template.Template, error) {
	text := opts.Frontmatter
	if opts.FrontmatterFile != "" {
		bs, err := os.ReadFile(opts.FrontmatterFile)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		text = string(bs)
	}
	if text == "" {
		return nil, nil
	}

	tmpl, err := template.New("frontmatter").Parse(text)
	if err != nil {
		return nil, errtrace.Errorf("bad frontmatter template: %w", err)
	}
	return tmpl, nil
}

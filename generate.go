package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"braces.dev/errtrace"
	"go.abhg.dev/pt2html/internal/errdefer"
	"go.abhg.dev/pt2html/internal/html"
	"go.abhg.dev/pt2html/internal/ptext"
)

// _stdinName is the name of documents read from stdin.
const _stdinName = "stdin"

// Renderer renders a Portable Text document as an HTML page.
type Renderer interface {
	RenderPage(io.Writer, *html.PageInfo) error
}

var _ Renderer = (*html.Renderer)(nil)

// Generator renders user-specified Portable Text files.
//
// In terms of code organization,
// Generator's purpose is to add a separation between main
// and the program's core logic to aid in testability.
type Generator struct {
	Log      *log.Logger
	Renderer Renderer

	Stdin  io.Reader // used for "-"
	Stdout io.Writer // used if OutDir is empty

	// OutDir is the directory to which pages are written.
	// If empty, pages are written to Stdout one after another.
	OutDir string

	// Title of every page.
	// If empty, each page gets the title of its first heading.
	Title string

	// Create opens a page in OutDir for writing.
	// Defaults to os.Create.
	Create func(path string) (io.WriteCloser, error)
}

func (g *Generator) create(path string) (io.WriteCloser, error) {
	if g.Create != nil {
		return errtrace.Wrap2(g.Create(path))
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return f, nil
}

// Generate renders each of the given files in order.
// It stops at the first file that fails.
func (g *Generator) Generate(inputs []string) error {
	if g.OutDir != "" {
		if err := os.MkdirAll(g.OutDir, 0o1755); err != nil {
			return errtrace.Wrap(err)
		}
	}

	for _, input := range inputs {
		if err := g.generate(input); err != nil {
			return errtrace.Errorf("%v: %w", input, err)
		}
	}
	return nil
}

func (g *Generator) generate(input string) (err error) {
	name := documentName(input)
	g.Log.Printf("Rendering %v", input)

	doc, err := g.read(input)
	if err != nil {
		return errtrace.Wrap(err)
	}

	var w io.Writer = g.Stdout
	if g.OutDir != "" {
		var f io.WriteCloser
		f, err = g.create(filepath.Join(g.OutDir, name+".html"))
		if err != nil {
			return errtrace.Wrap(err)
		}
		defer errdefer.Close(&err, f)
		w = f
	}

	return errtrace.Wrap(g.Renderer.RenderPage(w, &html.PageInfo{
		Title:    g.Title,
		Name:     name,
		Document: doc,
	}))
}

func (g *Generator) read(input string) (_ ptext.Document, err error) {
	if input == "-" {
		return errtrace.Wrap2(ptext.Decode(g.Stdin))
	}

	f, err := os.Open(input)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	defer errdefer.Close(&err, f)

	return errtrace.Wrap2(ptext.Decode(f))
}

// documentName returns the name of the page for the given input:
// its base name without an extension.
func documentName(input string) string {
	if input == "-" {
		return _stdinName
	}
	base := filepath.Base(input)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name
	}
	return base
}

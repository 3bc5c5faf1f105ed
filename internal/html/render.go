// Package html renders Portable Text documents as HTML.
package html

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log"
	"strings"
	"sync"
	ttemplate "text/template"

	"braces.dev/errtrace"
	"go.abhg.dev/pt2html/internal/highlight"
	"go.abhg.dev/pt2html/internal/marker"
	"go.abhg.dev/pt2html/internal/ptext"
	"golang.org/x/sync/errgroup"
)

// Highlighter renders code blocks into HTML.
type Highlighter interface {
	Highlight(lang, src string) (string, error)
	WriteCSS(io.Writer) error
}

var _ Highlighter = (*highlight.Highlighter)(nil)

// CodeType is the _type of code blocks.
const CodeType = "code"

// Renderer renders Portable Text into HTML.
//
// A Renderer must not be modified once rendering has started.
// It's safe to render multiple documents concurrently.
type Renderer struct {
	// Markers resolves marks to serializers.
	// Defaults to marker.NewRegistry().
	Markers *marker.Registry

	// Strategy for rendering marks across spans.
	Strategy Strategy

	// Dangling specifies how annotations
	// without mark definitions are handled.
	Dangling DanglingPolicy

	// Normalize is the Unicode normalization form for span text.
	Normalize Normalization

	// Highlighter renders code blocks.
	// If unset, code blocks are escaped but not highlighted.
	Highlighter Highlighter

	// Concurrency is the maximum number of blocks
	// rendered in parallel.
	// Values below 2 render blocks one at a time.
	Concurrency int

	// Standalone specifies whether RenderPage
	// generates a complete HTML page
	// or only the rendered document.
	Standalone bool

	// FrontMatter to include at the top of each page, if any.
	FrontMatter *ttemplate.Template

	// Log receives warnings about content that was skipped.
	Log *log.Logger

	once           sync.Once
	defaultMarkers *marker.Registry
}

func (r *Renderer) markers() *marker.Registry {
	if r.Markers != nil {
		return r.Markers
	}
	r.once.Do(func() {
		r.defaultMarkers = marker.NewRegistry()
	})
	return r.defaultMarkers
}

func (r *Renderer) logf(format string, args ...any) {
	if r.Log != nil {
		r.Log.Printf(format, args...)
	}
}

// BlockError is a failure to render a specific block.
type BlockError struct {
	Index int    // position of the block in the document
	Key   string // _key of the block, if any
	Err   error
}

func (e *BlockError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("block %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("block %d (%q): %v", e.Index, e.Key, e.Err)
}

func (e *BlockError) Unwrap() error { return e.Err }

// RenderString renders a document and returns the HTML.
func (r *Renderer) RenderString(doc ptext.Document) (string, error) {
	var sb strings.Builder
	if err := r.RenderDocument(&sb, doc); err != nil {
		return "", errtrace.Wrap(err)
	}
	return sb.String(), nil
}

// RenderDocument renders all blocks of a document to w in order.
//
// Consecutive list items are grouped into lists.
// Blocks of unknown types are skipped.
func (r *Renderer) RenderDocument(w io.Writer, doc ptext.Document) error {
	contents, err := r.renderContents(doc)
	if err != nil {
		return err
	}

	var (
		buf   bytes.Buffer
		lists listStack
	)
	for i, b := range doc {
		if b.IsText() && b.ListItem != "" {
			lists.Item(&buf, listTag(b.ListItem), b.ListLevel())
			buf.WriteString(contents[i])
			continue
		}

		lists.CloseAll(&buf)
		buf.WriteString(contents[i])
	}
	lists.CloseAll(&buf)

	_, err = buf.WriteTo(w)
	return errtrace.Wrap(err)
}

// renderContents renders each block of the document,
// possibly in parallel.
// List items are rendered without their <li> or list elements.
func (r *Renderer) renderContents(doc ptext.Document) ([]string, error) {
	contents := make([]string, len(doc))
	render := func(i int) error {
		s, err := r.renderContent(doc[i])
		if err != nil {
			return errtrace.Wrap(&BlockError{Index: i, Key: doc[i].Key, Err: err})
		}
		contents[i] = s
		return nil
	}

	if r.Concurrency < 2 || len(doc) < 2 {
		for i := range doc {
			if err := render(i); err != nil {
				return nil, err
			}
		}
		return contents, nil
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(r.Concurrency)
	for i := range doc {
		i := i
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error { return render(i) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return contents, nil
}

// RenderBlock renders a single block with its container element.
// A list item is rendered as a list with a single item.
func (r *Renderer) RenderBlock(block *ptext.Block) (string, error) {
	return errtrace.Wrap2(r.RenderString(ptext.Document{block}))
}

func (r *Renderer) renderContent(b *ptext.Block) (string, error) {
	switch {
	case b.IsText():
		inline, err := r.RenderBlockInline(b)
		if err != nil {
			return "", errtrace.Wrap(err)
		}
		if b.ListItem != "" {
			return inline, nil
		}
		tag := blockTag(b.Style)
		return "<" + tag + ">" + inline + "</" + tag + ">", nil

	case b.Type == CodeType:
		return errtrace.Wrap2(r.renderCode(b))

	default:
		r.logf("skipping block of unknown type %q", b.Type)
		return "", nil
	}
}

func (r *Renderer) renderCode(b *ptext.Block) (string, error) {
	lang, src := b.Field("language"), b.Field("code")
	if r.Highlighter != nil {
		return errtrace.Wrap2(r.Highlighter.Highlight(lang, src))
	}

	var sb strings.Builder
	sb.WriteString("<pre><code")
	if lang != "" {
		sb.WriteString(` class="language-`)
		sb.WriteString(template.HTMLEscapeString(lang))
		sb.WriteString(`"`)
	}
	sb.WriteString(">")
	sb.WriteString(template.HTMLEscapeString(src))
	sb.WriteString("</code></pre>")
	return sb.String(), nil
}

// blockTag returns the element that contains a text block
// with the given style.
func blockTag(style string) string {
	switch style {
	case "h1", "h2", "h3", "h4", "h5", "h6", "blockquote":
		return style
	default:
		return "p"
	}
}

func listTag(listItem string) string {
	if listItem == "number" {
		return "ol"
	}
	return "ul"
}

// listStack tracks the lists that are currently open.
// Every open list has an open <li>.
type listStack []openList

type openList struct {
	Tag   string // "ul" or "ol"
	Level int
}

// Item starts a new list item at the given level,
// opening and closing lists as needed.
func (s *listStack) Item(buf *bytes.Buffer, tag string, level int) {
	for len(*s) > 0 && s.top().Level > level {
		s.pop(buf)
	}

	if len(*s) > 0 && s.top().Level == level {
		if s.top().Tag == tag {
			buf.WriteString("</li>")
		} else {
			s.pop(buf)
		}
	}

	if len(*s) == 0 || s.top().Level < level {
		buf.WriteString("<" + tag + ">")
		*s = append(*s, openList{Tag: tag, Level: level})
	}
	buf.WriteString("<li>")
}

// CloseAll closes every open list.
func (s *listStack) CloseAll(buf *bytes.Buffer) {
	for len(*s) > 0 {
		s.pop(buf)
	}
}

func (s listStack) top() openList { return s[len(s)-1] }

func (s *listStack) pop(buf *bytes.Buffer) {
	buf.WriteString("</li></" + s.top().Tag + ">")
	*s = (*s)[:len(*s)-1]
}

package html

import (
	"errors"
	"fmt"
	"html/template"
	"strings"

	"braces.dev/errtrace"
	"go.abhg.dev/pt2html/internal/marker"
	"go.abhg.dev/pt2html/internal/ptext"
	"go.abhg.dev/pt2html/internal/sliceutil"
)

// ErrMalformedMarks indicates that a span's mark list
// cannot be rendered unambiguously.
var ErrMalformedMarks = errors.New("malformed marks")

// Strategy specifies how marks that span
// multiple consecutive spans are rendered.
type Strategy int

const (
	// Minimal keeps a mark's element open across consecutive spans
	// that share it, so "<strong>a</strong><strong>b</strong>"
	// becomes "<strong>ab</strong>".
	Minimal Strategy = iota

	// PerSpan renders every span independently.
	PerSpan
)

// DanglingPolicy specifies what happens when an annotation
// refers to a mark definition that doesn't exist.
type DanglingPolicy int

const (
	// DanglingFail fails rendering of the block.
	DanglingFail DanglingPolicy = iota

	// DanglingFallback renders the mark
	// with the registry's fallback serializer.
	DanglingFallback
)

// String returns "error" or "fallback".
func (p DanglingPolicy) String() string {
	if p == DanglingFallback {
		return "fallback"
	}
	return "error"
}

// Set parses a policy from a command line flag.
func (p *DanglingPolicy) Set(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		*p = DanglingFail
	case "fallback":
		*p = DanglingFallback
	default:
		return fmt.Errorf("unknown policy %q: expected error or fallback", s)
	}
	return nil
}

// Get returns the policy.
// This is to comply with the [flag.Getter] interface.
func (p *DanglingPolicy) Get() any { return *p }

// RenderSpan renders a single span of block as HTML.
//
// The first mark of the span becomes the outermost element,
// and the last mark the innermost.
func (r *Renderer) RenderSpan(span *ptext.Span, block *ptext.Block) (string, error) {
	w := r.newInlineWriter(block)
	if err := w.WriteSpan(span); err != nil {
		return "", errtrace.Wrap(err)
	}
	return w.String(), nil
}

// RenderBlockInline renders the spans of a block as HTML,
// without the element that contains the block.
func (r *Renderer) RenderBlockInline(block *ptext.Block) (string, error) {
	if r.Strategy == PerSpan {
		var sb strings.Builder
		for _, span := range block.Children {
			s, err := r.RenderSpan(span, block)
			if err != nil {
				return "", errtrace.Wrap(err)
			}
			sb.WriteString(s)
		}
		return sb.String(), nil
	}

	w := r.newInlineWriter(block)
	for _, span := range block.Children {
		if err := w.writeMarked(span); err != nil {
			return "", errtrace.Wrap(err)
		}
	}
	w.closeTo(0)
	return w.String(), nil
}

// openMark is a mark whose prefix has been written
// but not its suffix.
type openMark struct {
	marker.Mark

	// Span that opened the mark.
	Span *ptext.Span
}

// inlineWriter writes spans of a single block,
// tracking which marks are currently open.
type inlineWriter struct {
	strings.Builder

	r     *Renderer
	block *ptext.Block
	open  []openMark // outermost first
}

func (r *Renderer) newInlineWriter(block *ptext.Block) *inlineWriter {
	return &inlineWriter{r: r, block: block}
}

// WriteSpan writes a span with all its marks opened and closed.
func (w *inlineWriter) WriteSpan(span *ptext.Span) error {
	if err := w.writeMarked(span); err != nil {
		return err
	}
	w.closeTo(0)
	return nil
}

// writeMarked writes a span, leaving its marks open
// so that the next span may continue them.
func (w *inlineWriter) writeMarked(span *ptext.Span) error {
	if !span.IsText() {
		w.r.logf("skipping inline object of type %q", span.Type)
		return nil
	}

	marks, err := w.r.resolveMarks(span, w.block)
	if err != nil {
		return err
	}

	keep := sliceutil.CommonPrefixLen(w.open, marks, func(o openMark, m marker.Mark) bool {
		return sameMark(o.Mark, m)
	})
	w.closeTo(keep)

	for _, m := range marks[keep:] {
		prefix, err := m.Serializer.Prefix(span, m.Key, w.block)
		if err != nil {
			if !errors.Is(err, marker.ErrDangling) || w.r.Dangling != DanglingFallback {
				return errtrace.Wrap(err)
			}
			w.r.logf("mark %q has no definition, using fallback", m.Key)
			m.Serializer = w.r.markers().Fallback()
			if prefix, err = m.Serializer.Prefix(span, m.Key, w.block); err != nil {
				return errtrace.Wrap(err)
			}
		}
		w.WriteString(prefix)
		w.open = append(w.open, openMark{Mark: m, Span: span})
	}

	w.WriteString(template.HTMLEscapeString(w.r.Normalize.apply(span.Text)))
	return nil
}

// closeTo closes open marks, innermost first,
// until only n marks remain open.
func (w *inlineWriter) closeTo(n int) {
	for i := len(w.open) - 1; i >= n; i-- {
		m := w.open[i]
		w.WriteString(m.Serializer.Suffix(m.Span, m.Key, w.block))
	}
	w.open = w.open[:n]
}

// sameMark reports whether an open mark continues into the next span.
// Distinct annotations of the same type are never merged.
func sameMark(a, b marker.Mark) bool {
	return a.Key == b.Key && a.Type == b.Type
}

func (r *Renderer) resolveMarks(span *ptext.Span, block *ptext.Block) ([]marker.Mark, error) {
	if len(span.Marks) == 0 {
		return nil, nil
	}

	reg := r.markers()
	seen := make(map[string]struct{}, len(span.Marks))
	marks := make([]marker.Mark, len(span.Marks))
	for i, key := range span.Marks {
		if _, ok := seen[key]; ok {
			return nil, errtrace.Errorf("%w: mark %q appears more than once", ErrMalformedMarks, key)
		}
		seen[key] = struct{}{}
		marks[i] = reg.Resolve(key, block)
	}
	return marks, nil
}

package highlight

import (
	"bytes"
	"html/template"
	"io"
	"sync"

	"braces.dev/errtrace"
	chroma "github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
)

// Highlighter turns code blocks into HTML.
type Highlighter struct {
	// Style used for syntax highlighting of code.
	// Defaults to PlainStyle.
	Style *chroma.Style

	// UseClasses specifies whether the highlighter
	// uses inline 'style' attributes for highlighting,
	// or classes, assumign use of an appropriate style sheet.
	UseClasses bool

	once      sync.Once
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

func (h *Highlighter) init() {
	h.once.Do(func() {
		h.style = h.Style
		if h.style == nil {
			h.style = PlainStyle
		}
		h.formatter = chromahtml.New(
			chromahtml.PreventSurroundingPre(true),
			chromahtml.WithClasses(h.UseClasses),
		)
	})
}

// WriteCSS writes the style classes for this highlighter to writer.
// If this highlighter is not using classes, WriteCSS is a no-op.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	h.init()
	if !h.UseClasses {
		return nil
	}
	return errtrace.Wrap(h.formatter.WriteCSS(w, h.style))
}

// Highlight renders source code in the given language into HTML.
// The result is a complete <pre> element.
//
// Source in an unknown language is escaped and left unhighlighted.
func (h *Highlighter) Highlight(lang, src string) (string, error) {
	h.init()

	var buf bytes.Buffer
	buf.WriteString("<pre")
	if h.UseClasses {
		writeAttr(&buf, "class", chroma.StandardTypes[chroma.PreWrapper])
	} else {
		writeAttr(&buf, "style", chromahtml.StyleEntryToCSS(h.style.Get(chroma.PreWrapper)))
	}
	buf.WriteString("><code")
	if lang != "" {
		writeAttr(&buf, "class", "language-"+lang)
	}
	buf.WriteString(">")

	tokens, err := LexerFor(lang).Lex(src)
	if err != nil {
		template.HTMLEscape(&buf, []byte(src))
	} else if err := h.formatter.Format(&buf, h.style, chroma.Literator(tokens...)); err != nil {
		return "", errtrace.Errorf("highlight %v: %w", lang, err)
	}

	buf.WriteString("</code></pre>")
	return buf.String(), nil
}

func writeAttr(buf *bytes.Buffer, name, value string) {
	buf.WriteString(" ")
	buf.WriteString(name)
	buf.WriteString(`="`)
	template.HTMLEscape(buf, []byte(value))
	buf.WriteString(`"`)
}

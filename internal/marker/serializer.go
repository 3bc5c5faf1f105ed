// Package marker turns Portable Text marks into HTML.
//
// Every mark applied to a span is resolved through a [Registry]
// to a [Serializer], which produces the opening and closing markup
// placed around the span's escaped text.
//
// Style marks such as "strong" or "em" are self-contained.
// Annotations such as links look up their attributes
// in the mark definitions of the block that owns the span.
package marker

import (
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"braces.dev/errtrace"
	"go.abhg.dev/pt2html/internal/ptext"
)

// Kind classifies serializers.
type Kind int

const (
	// Style serializers render the same markup for every span.
	Style Kind = iota

	// Annotation serializers depend on a mark definition
	// looked up from the owning block.
	Annotation
)

func (k Kind) String() string {
	switch k {
	case Style:
		return "style"
	case Annotation:
		return "annotation"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Serializer renders the markup around a marked span.
//
// Serializers must be stateless:
// the same instance is shared by concurrent renders.
type Serializer interface {
	Kind() Kind

	// Prefix returns the markup that opens the mark,
	// for the mark with the given key on span.
	// block is the block that owns span.
	Prefix(span *ptext.Span, key string, block *ptext.Block) (string, error)

	// Suffix returns the markup that closes the mark.
	Suffix(span *ptext.Span, key string, block *ptext.Block) string
}

// Render renders a span with a single mark:
// the prefix, the escaped text of the span, and the suffix.
//
// Spans with multiple marks are composed by the caller.
func Render(s Serializer, span *ptext.Span, key string, block *ptext.Block) (string, error) {
	prefix, err := s.Prefix(span, key, block)
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	return prefix + template.HTMLEscapeString(span.Text) + s.Suffix(span, key, block), nil
}

// ErrDangling matches a [DanglingError] with errors.Is.
var ErrDangling = errors.New("dangling mark reference")

// DanglingError reports an annotation
// whose key has no mark definition in the owning block.
type DanglingError struct {
	Key string
}

func (e *DanglingError) Error() string {
	return fmt.Sprintf("mark definition for key %q not found in block", e.Key)
}

// Is reports whether target is [ErrDangling].
func (e *DanglingError) Is(target error) bool {
	return target == ErrDangling
}

// Tag is a style mark that wraps text in an HTML element.
type Tag struct {
	// Name of the element, e.g. "strong".
	Name string // required

	// Style is an optional inline style attribute.
	Style string

	// Class is an optional class attribute.
	Class string
}

var _ Serializer = (*Tag)(nil)

// Kind returns [Style].
func (*Tag) Kind() Kind { return Style }

// Prefix returns the opening tag.
func (t *Tag) Prefix(*ptext.Span, string, *ptext.Block) (string, error) {
	if t.Style == "" && t.Class == "" {
		return "<" + t.Name + ">", nil
	}

	var sb strings.Builder
	sb.WriteString("<")
	sb.WriteString(t.Name)
	writeAttr(&sb, "class", t.Class)
	writeAttr(&sb, "style", t.Style)
	sb.WriteString(">")
	return sb.String(), nil
}

// Suffix returns the closing tag.
func (t *Tag) Suffix(*ptext.Span, string, *ptext.Block) string {
	return "</" + t.Name + ">"
}

// Link is an annotation that renders an anchor
// using the href of the mark definition.
type Link struct {
	// BaseURL, if set, resolves relative hrefs.
	BaseURL *url.URL
}

var _ Serializer = (*Link)(nil)

// Kind returns [Annotation].
func (*Link) Kind() Kind { return Annotation }

// Prefix returns an opening anchor tag.
// It fails with a [DanglingError] if the block does not define key.
func (l *Link) Prefix(_ *ptext.Span, key string, block *ptext.Block) (string, error) {
	md, ok := block.MarkDef(key)
	if !ok {
		return "", errtrace.Wrap(&DanglingError{Key: key})
	}

	href := md.Attr("href")
	if l.BaseURL != nil && href != "" {
		if u, err := url.Parse(href); err == nil {
			href = l.BaseURL.ResolveReference(u).String()
		}
	}

	var sb strings.Builder
	sb.WriteString(`<a href="`)
	sb.WriteString(template.HTMLEscapeString(href))
	sb.WriteString(`"`)
	writeAttr(&sb, "title", md.Attr("title"))
	if md.Attrs["blank"] == true {
		sb.WriteString(` target="_blank" rel="noopener"`)
	} else {
		writeAttr(&sb, "target", md.Attr("target"))
	}
	sb.WriteString(">")
	return sb.String(), nil
}

// Suffix returns the closing anchor tag.
func (*Link) Suffix(*ptext.Span, string, *ptext.Block) string {
	return "</a>"
}

// Comment is an annotation that places text inside an HTML comment.
//
// Marks nested inside a comment end up inside the comment too,
// so documents should not combine comments with other marks.
type Comment struct{}

var _ Serializer = Comment{}

// Kind returns [Annotation].
func (Comment) Kind() Kind { return Annotation }

// Prefix opens an HTML comment.
func (Comment) Prefix(*ptext.Span, string, *ptext.Block) (string, error) {
	return "<!-- ", nil
}

// Suffix closes an HTML comment.
func (Comment) Suffix(*ptext.Span, string, *ptext.Block) string {
	return " -->"
}

func writeAttr(sb *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	sb.WriteString(" ")
	sb.WriteString(name)
	sb.WriteString(`="`)
	sb.WriteString(template.HTMLEscapeString(value))
	sb.WriteString(`"`)
}

package html

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"strings"

	"braces.dev/errtrace"
	"go.abhg.dev/pt2html/internal/ptext"
)

var (
	//go:embed tmpl/*.html
	_tmplFS embed.FS

	_pageTmpl = template.Must(template.ParseFS(_tmplFS, "tmpl/page.html"))
)

// PageInfo describes a page holding a single document.
type PageInfo struct {
	// Title of the page.
	// If empty, the text of the first heading is used.
	Title string

	// Name of the source of the document, e.g. its file name.
	Name string

	Document ptext.Document
}

type pageData struct {
	Title string
	CSS   template.CSS
	Body  template.HTML
}

type frontmatterData struct {
	Title     string
	Name      string
	NumBlocks int
}

func (r *Renderer) templateName() string {
	if r.Standalone {
		return "Page"
	}
	return "Body"
}

// RenderPage renders a document as an HTML page.
//
// In standalone mode, the output is a complete HTML document
// including the highlighter's style sheet.
// Otherwise only the rendered document is written.
func (r *Renderer) RenderPage(w io.Writer, info *PageInfo) error {
	body, err := r.RenderString(info.Document)
	if err != nil {
		return errtrace.Wrap(err)
	}

	title := info.Title
	if title == "" {
		title = firstHeading(info.Document)
	}

	if err := r.renderFrontmatter(w, frontmatterData{
		Title:     title,
		Name:      info.Name,
		NumBlocks: len(info.Document),
	}); err != nil {
		return errtrace.Wrap(err)
	}

	data := pageData{
		Title: title,
		Body:  template.HTML(body),
	}
	if r.Standalone && r.Highlighter != nil {
		var css bytes.Buffer
		if err := r.Highlighter.WriteCSS(&css); err != nil {
			return errtrace.Wrap(err)
		}
		data.CSS = template.CSS(strings.TrimSpace(css.String()))
	}

	return errtrace.Wrap(_pageTmpl.ExecuteTemplate(w, r.templateName(), data))
}

func (r *Renderer) renderFrontmatter(w io.Writer, d frontmatterData) error {
	if r.FrontMatter == nil {
		return nil
	}

	var buff bytes.Buffer
	if err := r.FrontMatter.Execute(&buff, d); err != nil {
		return errtrace.Wrap(err)
	}

	bs := bytes.TrimSpace(buff.Bytes())
	if len(bs) == 0 {
		return nil
	}
	bs = append(bs, '\n', '\n')

	_, err := w.Write(bs)
	return errtrace.Wrap(err)
}

// firstHeading returns the plain text of the first heading in doc.
func firstHeading(doc ptext.Document) string {
	for _, b := range doc {
		if !b.IsText() || len(b.Style) != 2 || b.Style[0] != 'h' {
			continue
		}
		if blockTag(b.Style) != b.Style {
			continue
		}

		var sb strings.Builder
		for _, s := range b.Children {
			if s.IsText() {
				sb.WriteString(s.Text)
			}
		}
		return sb.String()
	}
	return ""
}

// Package render turns article markdown into the HTML served on article pages.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

const (
	// DefaultStyle is the chroma theme used for code blocks.
	DefaultStyle = "dracula"

	scrollableClass = "scrollable-item"
	containerClass  = "render-md-box"
)

// Renderer converts markdown to sanitized, post-processed HTML.
type Renderer struct {
	md    goldmark.Markdown
	style string
}

// NewRenderer builds a renderer with GFM and class-based syntax highlighting.
func NewRenderer(style string) *Renderer {
	if styles.Get(style) == styles.Fallback || strings.TrimSpace(style) == "" {
		style = DefaultStyle
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
					chromahtml.WrapLongLines(true),
				),
			),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	return &Renderer{md: md, style: style}
}

// Markdown renders src. Raw HTML inside the source is not passed through.
func (r *Renderer) Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return "", fmt.Errorf("parse rendered html: %w", err)
	}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if href, _ := a.Attr("href"); strings.HasPrefix(href, "#") {
			return
		}
		a.SetAttr("target", "_blank")
		a.SetAttr("rel", "noopener noreferrer")
	})
	doc.Find("img").SetAttr("loading", "lazy")
	doc.Find("table").WrapHtml(`<div class="` + scrollableClass + `"></div>`)

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("serialize rendered html: %w", err)
	}
	return template.HTML(`<div class="` + containerClass + `">` + strings.TrimSpace(body) + `</div>`), nil
}

// WriteCSS writes the stylesheet matching the highlighter's classes.
func (r *Renderer) WriteCSS(w io.Writer) error {
	formatter := chromahtml.New(chromahtml.WithClasses(true), chromahtml.WrapLongLines(true))
	if err := formatter.WriteCSS(w, styles.Get(r.style)); err != nil {
		return fmt.Errorf("write highlight css: %w", err)
	}
	return nil
}

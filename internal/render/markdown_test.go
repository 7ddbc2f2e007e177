package render

import (
	"bytes"
	"strings"
	"testing"
)

func TestMarkdownOpensLinksInNewTab(t *testing.T) {
	out, err := NewRenderer("").Markdown("See [Go](https://go.dev) and [below](#usage).")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `href="https://go.dev" target="_blank" rel="noopener noreferrer"`) {
		t.Fatalf("external link not rewritten: %s", html)
	}
	if strings.Contains(html, `href="#usage" target`) {
		t.Fatalf("in-page anchors should stay in the tab: %s", html)
	}
}

func TestMarkdownLazyLoadsImages(t *testing.T) {
	out, err := NewRenderer("").Markdown("![diagram](https://cdn.example.com/d.png)")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if !strings.Contains(string(out), `loading="lazy"`) {
		t.Fatalf("image not lazy: %s", out)
	}
}

func TestMarkdownWrapsTables(t *testing.T) {
	src := "| a | b |\n| - | - |\n| 1 | 2 |\n"
	out, err := NewRenderer("").Markdown(src)
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if !strings.Contains(string(out), `<div class="scrollable-item"><table>`) {
		t.Fatalf("table not wrapped: %s", out)
	}
}

func TestMarkdownHighlightsFencedCode(t *testing.T) {
	src := "```go\nfunc main() {}\n```\n\nInline `x := 1` code."
	out, err := NewRenderer("").Markdown(src)
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `class="chroma"`) {
		t.Fatalf("block code not highlighted: %s", html)
	}
	if !strings.Contains(html, "<code>x := 1</code>") {
		t.Fatalf("inline code should stay plain: %s", html)
	}
}

func TestMarkdownDropsRawHTML(t *testing.T) {
	out, err := NewRenderer("").Markdown("<script>alert(1)</script>\n\nhello")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Fatalf("raw html leaked: %s", out)
	}
}

func TestWriteCSSUsesClasses(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer("github").WriteCSS(&buf); err != nil {
		t.Fatalf("WriteCSS: %v", err)
	}
	if !strings.Contains(buf.String(), ".chroma") {
		t.Fatalf("stylesheet missing chroma classes: %s", buf.String())
	}
}

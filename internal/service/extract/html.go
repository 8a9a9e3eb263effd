// Package extract pulls plain text and page references out of host HTML
// documents (journals, compendium entries). Deterministic, no external calls.
package extract

import (
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/lorekeep/gm-assist/pkg/textx"
)

// Document is the extracted content of one host document.
type Document struct {
	Title string
	Text  string
	Pages []string
}

// Text extracts the visible text of an HTML fragment, skipping script and
// style subtrees. Block-level boundaries become newlines.
func Text(r io.Reader) (string, error) {
	root, err := html.Parse(r)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	walk(root, &b)
	return textx.SanitizeText(collapseBlank(b.String())), nil
}

func walk(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "template":
			return
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, b)
	}
	if n.Type == html.ElementNode && isBlock(n.Data) {
		b.WriteString("\n")
	}
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "br", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6", "section", "article":
		return true
	}
	return false
}

var blankLines = regexp.MustCompile(`\n{3,}`)

func collapseBlank(s string) string {
	return blankLines.ReplaceAllString(s, "\n\n")
}

var pageRef = regexp.MustCompile(`(?i)\b(?:pp?\.|pages?)\s*(\d+(?:\s*[-–]\s*\d+)?)`)

// PageRefs collects page references ("p. 42", "pages 10-12") from text,
// in order of appearance, deduplicated.
func PageRefs(text string) []string {
	matches := pageRef.FindAllStringSubmatch(text, -1)
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		ref := strings.Join(strings.Fields(m[1]), "")
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		out = append(out, ref)
	}
	return out
}

// FromDocument extracts title, text, and page references from a full HTML
// document string.
func FromDocument(doc string) (Document, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return Document{}, err
	}
	var b strings.Builder
	walk(root, &b)
	text := textx.SanitizeText(collapseBlank(b.String()))
	return Document{
		Title: findTitle(root),
		Text:  text,
		Pages: PageRefs(text),
	}, nil
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
		return strings.TrimSpace(n.FirstChild.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

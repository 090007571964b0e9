package extract

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTMLExtractor flattens an HTML document into lines: headings and
// block elements each become one line, in document order.
type HTMLExtractor struct{}

func (p *HTMLExtractor) Extract(ctx context.Context, r io.Reader, filename string, progress func(int)) (Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Result{}, fmt.Errorf("parse html: %w", err)
	}

	body := findBody(doc)
	if body == nil {
		body = doc
	}
	lines := flattenHTML(body)

	if progress != nil {
		progress(100)
	}
	return Result{Text: strings.Join(lines, "\n"), Pages: 1}, nil
}

// flattenHTML walks an element tree collecting one line per block.
func flattenHTML(root *html.Node) []string {
	var lines []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "h1", "h2", "h3", "h4", "h5", "h6",
				"p", "li", "td", "blockquote", "div":
				// Only treat as a block if it has no nested blocks;
				// otherwise recurse so inner paragraphs stay separate.
				if !hasBlockChild(n) {
					if t := textContent(n); t != "" {
						lines = append(lines, t)
					}
					return
				}
			case "br", "hr":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return lines
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6", "p", "li", "td", "blockquote", "div", "ul", "ol", "table":
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

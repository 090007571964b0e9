package extract

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor flattens a markdown document into lines using the
// goldmark AST: each heading and each block becomes one line.
type MarkdownExtractor struct{}

func (p *MarkdownExtractor) Extract(ctx context.Context, r io.Reader, filename string, progress func(int)) (Result, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return Result{}, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var lines []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if t := blockText(n, src); t != "" {
			lines = append(lines, t)
		}
	}

	if progress != nil {
		progress(100)
	}
	return Result{Text: strings.Join(lines, "\n"), Pages: 1}, nil
}

// blockText gets the text content of a goldmark AST node.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Kind() != ast.KindHeading {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	if buf.Len() == 0 {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Value(src))
				if t.HardLineBreak() || t.SoftLineBreak() {
					buf.WriteByte('\n')
				}
			} else {
				buf.WriteString(blockText(c, src))
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

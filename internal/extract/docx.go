package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXExtractor emits one line per document paragraph, in body order.
// Heading-styled paragraphs are plain lines too; the reflow engine's
// classifier decides what is structural.
type DOCXExtractor struct{}

func (p *DOCXExtractor) Extract(ctx context.Context, r io.Reader, filename string, progress func(int)) (Result, error) {
	// go-docx needs a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "textreflow-docx-*.docx")
	if err != nil {
		return Result{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return Result{}, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return Result{}, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return Result{}, fmt.Errorf("parse docx: %w", err)
	}

	items := doc.Document.Body.Items
	var buf strings.Builder
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if text := paragraphText(para); text != "" {
			buf.WriteString(text)
			buf.WriteString("\n")
		}

		reportProgress(progress, i+1, len(items))
	}

	return Result{Text: buf.String(), Pages: 1}, nil
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

package extract

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/hqzhou/textreflow/internal/overlay"
)

// PDFExtractor reads the embedded text layer of a PDF. It works at the
// text-object level so watermark overlays can be stripped before the
// objects are joined into lines; pages where object extraction fails
// fall back to the library's plain-text path.
type PDFExtractor struct{}

func (p *PDFExtractor) Extract(ctx context.Context, r io.Reader, filename string, progress func(int)) (Result, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "textreflow-pdf-*.pdf")
	if err != nil {
		return Result{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return Result{}, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return Result{}, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		// Cancellation is cooperative and checked once per page.
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			reportProgress(progress, i, numPages)
			continue
		}

		text := extractPageObjects(page)
		if text == "" {
			if plain, err := page.GetPlainText(nil); err == nil {
				text = plain
			}
		}

		if i > 1 {
			buf.WriteString("\n")
		}
		buf.WriteString(PageMarker(i, numPages))
		buf.WriteString("\n")
		buf.WriteString(strings.TrimRight(text, "\n"))
		buf.WriteString("\n")

		reportProgress(progress, i, numPages)
	}

	return Result{Text: buf.String(), Pages: numPages}, nil
}

// extractPageObjects pulls positioned text objects from one page, runs
// the overlay filter over them and joins the survivors into lines.
// Returns "" when the page has no usable content stream.
func extractPageObjects(page pdflib.Page) (out string) {
	// The content-stream interpreter panics on malformed streams;
	// degrade to the plain-text path instead of taking the job down.
	defer func() {
		if recover() != nil {
			out = ""
		}
	}()

	content := page.Content()
	if len(content.Text) == 0 {
		return ""
	}

	// Glue per-glyph runs into fragments: consecutive items sharing a
	// baseline belong to the same text object.
	var frags []overlay.Fragment
	var cur strings.Builder
	curY := math.NaN()
	for _, t := range content.Text {
		if cur.Len() > 0 && math.Abs(t.Y-curY) > 0.5 {
			frags = append(frags, overlay.Fragment{Text: cur.String(), Y: curY})
			cur.Reset()
		}
		cur.WriteString(t.S)
		curY = t.Y
	}
	if cur.Len() > 0 {
		frags = append(frags, overlay.Fragment{Text: cur.String(), Y: curY})
	}

	return overlay.JoinLines(overlay.FilterPage(frags))
}

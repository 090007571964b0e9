package extract

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// TextExtractor passes plain text through with newline normalization.
type TextExtractor struct{}

func (p *TextExtractor) Extract(ctx context.Context, r io.Reader, filename string, progress func(int)) (Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var buf strings.Builder
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		buf.WriteString(scanner.Text())
		buf.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return Result{}, err
	}

	if progress != nil {
		progress(100)
	}
	return Result{Text: buf.String(), Pages: 1}, nil
}

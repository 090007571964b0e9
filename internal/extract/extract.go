// Package extract turns uploaded documents into the raw line-oriented
// text the reflow engine consumes. Each extractor preserves physical
// line breaks as found in the container; paragraph reconstruction is
// the reflow engine's job, not ours.
package extract

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Result is the raw extracted text plus the page (or part) count.
type Result struct {
	Text  string
	Pages int
}

// Extractor pulls raw text out of one document format. Implementations
// check ctx between pages and report integer percent progress through
// the callback; pass nil to ignore progress.
type Extractor interface {
	Extract(ctx context.Context, r io.Reader, filename string, progress func(percent int)) (Result, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".epub":     true,
	".docx":     true,
}

// ForFile returns the extractor for a filename.
func ForFile(filename string) (Extractor, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".txt":
		return &TextExtractor{}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{}, nil
	case ".epub":
		return &EPUBExtractor{}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// PageMarker formats the literal page marker line the reflow engine
// recognizes.
func PageMarker(page, total int) string {
	return fmt.Sprintf("=== [Page %d/%d] ===", page, total)
}

// progressStep returns how many pages to process between progress
// reports: every page for short documents, roughly 5% steps for long
// ones, so huge documents do not flood the callback.
func progressStep(totalPages int) int {
	if totalPages <= 20 {
		return 1
	}
	return totalPages / 20
}

// reportProgress invokes the callback with the percentage for page
// done of total, respecting the adaptive cadence.
func reportProgress(progress func(int), done, total int) {
	if progress == nil || total <= 0 {
		return
	}
	if step := progressStep(total); done%step == 0 || done == total {
		progress(done * 100 / total)
	}
}

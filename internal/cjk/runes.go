// Package cjk classifies runes and spans of extracted document text.
//
// The predicates here deliberately cover only the BMP ideograph blocks:
// extracted PDF/EPUB text from Chinese ebooks almost never reaches the
// supplementary planes, and treating unknown code points as "not CJK"
// keeps every function total.
package cjk

// IsCJK reports whether r is a CJK ideograph. Covers CJK Unified
// Ideographs, Extension A and the Compatibility Ideographs block.
func IsCJK(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF: // CJK Unified Ideographs
		return true
	case r >= 0x3400 && r <= 0x4DBF: // Extension A
		return true
	case r >= 0xF900 && r <= 0xFAFF: // Compatibility Ideographs
		return true
	}
	return false
}

// IsASCIIDigit reports whether r is 0-9.
func IsASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// IsFullWidthDigit reports whether r is a full-width digit ０-９.
func IsFullWidthDigit(r rune) bool {
	return r >= 0xFF10 && r <= 0xFF19
}

// IsASCIILetter reports whether r is A-Z or a-z.
func IsASCIILetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// IsMostlyCJK reports whether a span reads as CJK text. It counts CJK
// ideographs against ASCII letters; digits (half or full width) and
// punctuation are neutral, so OCR artifacts like stray dots or quote
// marks never tip a Chinese line toward "not CJK".
func IsMostlyCJK(s string) bool {
	var cjk, ascii int
	for _, r := range s {
		switch {
		case IsCJK(r):
			cjk++
		case IsASCIILetter(r):
			ascii++
		}
	}
	return cjk > 0 && cjk >= ascii
}

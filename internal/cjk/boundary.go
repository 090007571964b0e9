package cjk

// Sentence boundary strictness levels. PDF and OCR text substitutes
// ASCII punctuation for CJK punctuation near line and page breaks; the
// level trades recall against false paragraph splits.
const (
	BoundaryVeryLenient = 1 // also accept bare colons/semicolons
	BoundaryLenient     = 2 // default: quote closers, OCR dots, ellipsis
	BoundaryStrict      = 3 // true terminators only
)

// EndsWithBoundary reports whether s ends at a sentence boundary under
// the given strictness level. Levels outside 1..3 are clamped.
func EndsWithBoundary(s string, level int) bool {
	if level < BoundaryVeryLenient {
		level = BoundaryVeryLenient
	}
	if level > BoundaryStrict {
		level = BoundaryStrict
	}

	runes := []rune(TrimOuterSpace(s))
	n := len(runes)
	if n == 0 {
		return false
	}
	last := runes[n-1]

	// A true strong terminator always ends the sentence.
	if IsStrongEnder(last) {
		return true
	}

	// OCR artifact: an ASCII dot or colon standing in for 。/： right
	// after an ideograph. Accepted at every level.
	if (last == '.' || last == ':') && n >= 2 && IsCJK(runes[n-2]) && IsMostlyCJK(s) {
		return true
	}

	if level >= BoundaryStrict {
		return false
	}

	// Level 2: closing quote or bracket directly after a terminator,
	// the classic 。」 / ！” endings.
	if (IsDialogueCloser(last) || IsCloseBracket(last)) && n >= 2 {
		prev := runes[n-2]
		if IsStrongEnder(prev) || prev == '…' {
			return true
		}
		// OCR dot standing in for 。 before the closer.
		if prev == '.' && IsMostlyCJK(s) {
			return true
		}
	}

	// Full-width colon ending a mostly-CJK line: the weak "he said:"
	// boundary.
	if last == '：' && IsMostlyCJK(s) {
		return true
	}

	// Ellipsis, either the single glyph or an OCR three-dot run.
	if last == '…' {
		return true
	}
	if last == '.' && n >= 3 && runes[n-2] == '.' && runes[n-3] == '.' {
		return true
	}

	if level >= BoundaryLenient {
		return false
	}

	// Level 1: any clause separator ends the paragraph.
	switch last {
	case '；', '：', ';', ':':
		return true
	}
	return false
}

// IsWrappedCJKBracket reports whether the trimmed line is exactly one
// matching bracket pair around mostly-CJK content, such as 【第三卷】 or
// （场景转换）. ASCII-style brackets around pure Latin text do not
// qualify, and the matched bracket type must balance within the line.
func IsWrappedCJKBracket(s string) bool {
	runes := []rune(TrimOuterSpace(s))
	n := len(runes)
	if n < 3 {
		return false
	}
	open := runes[0]
	closing := CloserFor(open)
	if closing == 0 || runes[n-1] != closing {
		return false
	}

	// IsMostlyCJK requires at least one ideograph, so ASCII parens
	// around pure Latin text never qualify.
	inner := string(runes[1 : n-1])
	if !IsMostlyCJK(inner) {
		return false
	}
	return BalancedPair(string(runes), open, closing)
}

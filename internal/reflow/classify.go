package reflow

import (
	"strings"

	"github.com/hqzhou/textreflow/internal/cjk"
)

// lineKind is the classification of one input line. Exactly one kind
// is assigned per line; classification is ordered and first-match-wins.
type lineKind int

const (
	kindProse lineKind = iota
	kindEmpty
	kindDivider
	kindPageMarker
	kindTitleHeading
	kindCustomTitle
	kindMetadata
	kindShortHeading
	kindBracketStructural
)

// ShortHeadingSettings controls which character patterns qualify a
// short standalone line as a heading.
type ShortHeadingSettings struct {
	MaxLen        int  // maximum heading length in runes, clamped to 3..30
	AllCJK        bool // e.g. 人物介紹
	AllASCII      bool // e.g. INTERLUDE
	AllASCIIDigit bool // e.g. 03
	MixedCJKASCII bool // e.g. Act2 終焉
}

// DefaultShortHeading returns the tuned default settings.
func DefaultShortHeading() ShortHeadingSettings {
	return ShortHeadingSettings{
		MaxLen:        8,
		AllCJK:        true,
		AllASCII:      true,
		AllASCIIDigit: true,
		MixedCJKASCII: false,
	}
}

func (s ShortHeadingSettings) maxLen() int {
	switch {
	case s.MaxLen < 3:
		return 3
	case s.MaxLen > 30:
		return 30
	}
	return s.MaxLen
}

// classifyLine assigns a lineKind to the probe form of a line.
// bufTail is the tail of the paragraph buffer currently being
// assembled; a short-heading candidate that would cut a sentence in
// half is downgraded to prose and merged instead.
func classifyLine(probe string, opts Options, bufTail string) lineKind {
	if probe == "" {
		return kindEmpty
	}
	if cjk.IsDividerLine(probe) {
		return kindDivider
	}
	if isPageMarker(probe) {
		return kindPageMarker
	}
	if isTitleHeading(probe) {
		return kindTitleHeading
	}
	if opts.TitlePattern != nil && opts.TitlePattern.MatchString(probe) {
		return kindCustomTitle
	}
	if isMetadataLine(probe) {
		return kindMetadata
	}
	if isShortHeading(probe, opts.ShortHeading, bufTail, opts.BoundaryLevel) {
		return kindShortHeading
	}
	if cjk.IsWrappedCJKBracket(probe) {
		return kindBracketStructural
	}
	return kindProse
}

// collapseStyleRepeats collapses tokens or phrases repeated three or
// more times in a row, an artifact of styled PDF headings where the
// same text is painted once per style layer.
func collapseStyleRepeats(s string) string {
	// Whitespace-separated token runs: "第一章 第一章 第一章" → "第一章".
	if fields := strings.Fields(s); len(fields) >= 3 {
		out := fields[:0:0]
		i := 0
		for i < len(fields) {
			j := i
			for j < len(fields) && fields[j] == fields[i] {
				j++
			}
			out = append(out, fields[i])
			if j-i < 3 {
				out = append(out, fields[i+1:j]...)
			}
			i = j
		}
		if len(out) < len(fields) {
			s = strings.Join(out, " ")
		}
	}

	// Whole-line phrase repetition without separators: "序章序章序章".
	// Single-rune units are left alone: 哈哈哈 is prose, not styling.
	runes := []rune(s)
	n := len(runes)
	for size := 2; size <= n/3; size++ {
		if n%size != 0 {
			continue
		}
		if n/size < 3 {
			break
		}
		unit := string(runes[:size])
		if strings.Repeat(unit, n/size) == s {
			return unit
		}
	}
	return s
}

func isShortHeading(probe string, set ShortHeadingSettings, bufTail string, boundaryLevel int) bool {
	runes := []rune(probe)
	n := len(runes)
	if n == 0 {
		return false
	}

	last := runes[n-1]
	allCJKPrefix := func(rs []rune) bool {
		for _, r := range rs {
			if !cjk.IsCJK(r) {
				return false
			}
		}
		return len(rs) > 0
	}

	// An all-CJK prefix with a trailing colon is an item-list style
	// header (人物介紹：) regardless of length gating.
	hardColon := (last == '：' || last == ':') && allCJKPrefix(runes[:n-1])

	allCJKCandidate := false
	if !hardColon {
		var cjkCount, asciiLetters, digits, other int
		for _, r := range runes {
			switch {
			case cjk.IsCJK(r):
				cjkCount++
			case cjk.IsASCIILetter(r):
				asciiLetters++
			case cjk.IsASCIIDigit(r) || cjk.IsFullWidthDigit(r):
				digits++
			case r == ' ':
			default:
				other++
			}
		}

		// ASCII-only and mixed lines run longer for the same visual
		// width, so they get double the budget, clamped to 10..30.
		limit := set.maxLen()
		if cjkCount == 0 || asciiLetters > 0 {
			limit = set.maxLen() * 2
			if limit < 10 {
				limit = 10
			}
			if limit > 30 {
				limit = 30
			}
		}
		if n > limit {
			return false
		}
		if cjk.IsCJKPunct(last) {
			return false
		}
		for _, r := range runes {
			if cjk.IsCommaLike(r) {
				return false
			}
		}
		if !cjk.BalancedBrackets(probe) {
			return false
		}

		matched := false
		switch {
		case other > 0:
			// Punctuation disqualifies every pattern class.
		case cjkCount > 0 && asciiLetters == 0:
			matched = set.AllCJK
			allCJKCandidate = true
		case cjkCount > 0 && asciiLetters > 0:
			matched = set.MixedCJKASCII
		case digits > 0 && asciiLetters == 0:
			matched = set.AllASCIIDigit
		case asciiLetters > 0:
			matched = set.AllASCII
		}
		if !matched {
			return false
		}
	}

	// Downgrade-to-merge: a "heading" arriving mid-sentence is a
	// continuation, not a heading. Only the immediately preceding
	// buffer tail is consulted; this shallow check was tuned
	// empirically and deeper context does not pay for itself.
	if bufTail != "" && cjk.IsCommaLike(cjk.LastRune(bufTail)) {
		return false
	}
	// A bare all-CJK line is indistinguishable from the first wrapped
	// line of a paragraph, so it only counts as a heading right after
	// a finished sentence.
	if allCJKCandidate && !cjk.EndsWithBoundary(bufTail, boundaryLevel) {
		return false
	}
	return true
}

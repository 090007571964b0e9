package cjk

import "strings"

// Dialogue quote glyphs used in CJK typesetting, in matching order:
// curly double, curly single, corner, bold corner, and the vertical
// corner variants produced by some vertical-layout PDFs.
var (
	dialogueOpeners = map[rune]bool{'“': true, '‘': true, '「': true, '『': true, '﹁': true, '﹃': true}
	dialogueClosers = map[rune]bool{'”': true, '’': true, '」': true, '』': true, '﹂': true, '﹄': true}
)

// strongEnders end a sentence unambiguously.
var strongEnders = map[rune]bool{'。': true, '！': true, '？': true, '!': true, '?': true}

// clauseEnders is the broader "clause or end" set: strong enders plus
// colons, semicolons and closing quotes/brackets.
var clauseEnders = map[rune]bool{
	'。': true, '！': true, '？': true, '!': true, '?': true,
	'：': true, ':': true, '；': true, ';': true, '…': true,
	'”': true, '’': true, '」': true, '』': true, '﹂': true, '﹄': true,
	'）': true, ')': true, '】': true, '》': true, '〕': true, '〗': true, ']': true, '｝': true, '}': true, '〉': true, '>': true,
}

// commaLike separators signal an unfinished sentence.
var commaLike = map[rune]bool{'，': true, ',': true, '、': true}

// bracketPairs maps each opening bracket to its closer. Covers ASCII
// and full-width forms plus the CJK-specific book/lenticular brackets.
var bracketPairs = map[rune]rune{
	'(': ')', '（': '）',
	'[': ']', '［': '］',
	'{': '}', '｛': '｝',
	'<': '>', '〈': '〉',
	'【': '】', '《': '》', '〔': '〕', '〖': '〗',
}

var bracketClosers = func() map[rune]rune {
	m := make(map[rune]rune, len(bracketPairs))
	for o, c := range bracketPairs {
		m[c] = o
	}
	return m
}()

// MetadataSeparators split a metadata key from its value.
var MetadataSeparators = map[rune]bool{':': true, '：': true, '　': true, '·': true, '・': true}

// dividerGlyphs are the glyphs visual divider lines are drawn with.
var dividerGlyphs = map[rune]bool{
	'─': true, '━': true, '═': true, '―': true, '—': true, '–': true,
	'-': true, '=': true, '_': true, '＿': true, '~': true, '～': true,
	'*': true, '＊': true, '☆': true, '★': true, '◆': true, '◇': true,
	'■': true, '□': true, '▲': true, '△': true, '●': true, '○': true,
	'·': true, '•': true, '※': true, '❖': true, '√': true, '＝': true,
}

// IsDialogueOpener reports whether r opens spoken dialogue.
func IsDialogueOpener(r rune) bool { return dialogueOpeners[r] }

// IsDialogueCloser reports whether r closes spoken dialogue.
func IsDialogueCloser(r rune) bool { return dialogueClosers[r] }

// IsStrongEnder reports whether r terminates a sentence.
func IsStrongEnder(r rune) bool { return strongEnders[r] }

// IsClauseEnder reports whether r ends a clause or sentence.
func IsClauseEnder(r rune) bool { return clauseEnders[r] }

// IsCommaLike reports whether r is a comma-class separator.
func IsCommaLike(r rune) bool { return commaLike[r] }

// IsOpenBracket reports whether r opens a bracket pair.
func IsOpenBracket(r rune) bool { _, ok := bracketPairs[r]; return ok }

// IsCloseBracket reports whether r closes a bracket pair.
func IsCloseBracket(r rune) bool { _, ok := bracketClosers[r]; return ok }

// CloserFor returns the closing bracket for an opener, or 0.
func CloserFor(open rune) rune { return bracketPairs[open] }

// IsCJKPunct reports whether r is CJK (or sentence-level) punctuation.
// Used to reject punctuation-terminated lines as headings.
func IsCJKPunct(r rune) bool {
	return strongEnders[r] || commaLike[r] || clauseEnders[r] || dialogueOpeners[r] || dialogueClosers[r]
}

// IsDividerLine reports whether s is a visual divider: at least three
// divider glyphs and nothing else but whitespace.
func IsDividerLine(s string) bool {
	n := 0
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '　' {
			continue
		}
		if !dividerGlyphs[r] {
			return false
		}
		n++
	}
	return n >= 3
}

// BalancedBrackets walks s with an explicit stack and reports whether
// every bracket opened in s is closed in s, in order. An unmatched
// closer or a mismatched pair is unbalanced.
func BalancedBrackets(s string) bool {
	var stack []rune
	for _, r := range s {
		if IsOpenBracket(r) {
			stack = append(stack, r)
			continue
		}
		if open, ok := bracketClosers[r]; ok {
			if len(stack) == 0 || stack[len(stack)-1] != open {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}

// BalancedPair reports whether the open/closing runes balance within s,
// with depth never going negative.
func BalancedPair(s string, open, closing rune) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case open:
			depth++
		case closing:
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// LastRune returns the final rune of s, or 0 for an empty string.
func LastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}

// FirstRune returns the first rune of s, or 0 for an empty string.
func FirstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

// TrimOuterSpace trims half-width and ideographic whitespace from both
// ends of s.
func TrimOuterSpace(s string) string {
	return strings.Trim(s, " \t　")
}

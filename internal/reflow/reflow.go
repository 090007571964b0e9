// Package reflow reconstructs paragraphs from line-oriented text
// extracted out of PDF, EPUB and office documents, where physical line
// breaks follow page layout rather than sentence structure. It is a
// rule-driven classifier over Unicode code points: heading and metadata
// detection, dialogue-quote tracking across broken lines, OCR
// punctuation repair, and a boundary state machine that decides merge
// versus flush per line.
//
// Everything here is a total function: degenerate input yields an
// empty result, never an error.
package reflow

import (
	"regexp"
	"strings"

	"github.com/hqzhou/textreflow/internal/cjk"
)

// Options configures one reflow pass. The zero value is not useful;
// start from DefaultOptions.
type Options struct {
	// AddPageHeaders keeps === [Page X/Y] === marker lines in the
	// output. When false, markers are stripped and blank lines that
	// interrupt an unfinished sentence are treated as page-layout
	// artifacts and swallowed.
	AddPageHeaders bool

	// Compact joins segments with a single newline; otherwise novel
	// style, a blank line between segments.
	Compact bool

	// BoundaryLevel is the sentence boundary strictness, 1..3.
	BoundaryLevel int

	// ShortHeading controls short standalone heading detection.
	ShortHeading ShortHeadingSettings

	// TitlePattern is an optional user-supplied heading pattern,
	// checked at the same priority tier as the built-in patterns.
	TitlePattern *regexp.Regexp
}

// DefaultOptions returns the tuned defaults.
func DefaultOptions() Options {
	return Options{
		AddPageHeaders: true,
		Compact:        false,
		BoundaryLevel:  cjk.BoundaryLenient,
		ShortHeading:   DefaultShortHeading(),
	}
}

// engine owns the mutable per-pass state: the paragraph being
// assembled and its dialogue counters. Both reset only at flush points.
type engine struct {
	opts     Options
	segments []string
	buf      strings.Builder
	dialog   dialogState
}

// Reflow merges broken lines back into paragraphs and returns the
// reassembled text. Structural lines (headings, dividers, metadata,
// page markers) are emitted verbatim as their own segments.
func Reflow(text string, opts Options) string {
	if opts.BoundaryLevel == 0 {
		opts.BoundaryLevel = cjk.BoundaryLenient
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	e := &engine{opts: opts}
	for _, raw := range strings.Split(text, "\n") {
		e.step(raw)
	}
	e.flush()

	sep := "\n\n"
	if opts.Compact {
		sep = "\n"
	}
	return strings.Join(e.segments, sep)
}

// flush moves the paragraph buffer into the segment list and resets
// the dialogue counters. Empty buffers produce no segment.
func (e *engine) flush() {
	if e.buf.Len() > 0 {
		e.segments = append(e.segments, e.buf.String())
		e.buf.Reset()
	}
	e.dialog.reset()
}

// emit flushes any open paragraph and appends a structural line as its
// own segment.
func (e *engine) emit(line string) {
	e.flush()
	e.segments = append(e.segments, line)
}

// step consumes one raw input line.
func (e *engine) step(raw string) {
	stripped := stripLine(raw)
	probe := strings.TrimLeft(stripped, " \t　")

	// Divider lines are recognized before style-repeat collapse, which
	// would otherwise fold a run of identical divider glyphs.
	if cjk.IsDividerLine(probe) {
		e.emit(probe)
		return
	}
	probe = collapseStyleRepeats(probe)

	switch classifyLine(probe, e.opts, e.bufferTail()) {
	case kindEmpty:
		// A blank line inside an unfinished sentence is page furniture
		// when markers are disabled; otherwise a real paragraph break.
		if !e.opts.AddPageHeaders && e.buf.Len() > 0 && !cjk.IsStrongEnder(e.lastRune()) {
			return
		}
		e.flush()

	case kindPageMarker:
		if e.opts.AddPageHeaders {
			e.emit(probe)
		}
		// Stripped markers vanish without flushing so paragraphs
		// continue across the page boundary.

	case kindDivider, kindTitleHeading, kindCustomTitle, kindMetadata,
		kindShortHeading, kindBracketStructural:
		e.emit(probe)

	case kindProse:
		e.prose(raw, stripped, probe)
	}
}

// prose runs the merge-versus-flush decision for one prose line.
func (e *engine) prose(raw, stripped, probe string) {
	if e.buf.Len() == 0 {
		e.start(stripped)
		return
	}

	last := e.lastRune()
	startsDialogue := cjk.IsDialogueOpener(cjk.FirstRune(probe))

	// "he said: 「...」" always continues, regardless of other rules.
	if (last == '：' || last == ':') && startsDialogue {
		e.merge(probe)
		return
	}

	// The dialogue safety gate outranks everything else: never split
	// while a quote or bracket opened in this paragraph is unclosed.
	if e.dialog.unclosed() {
		e.merge(probe)
		return
	}

	if startsDialogue {
		if cjk.IsCommaLike(last) {
			e.merge(probe)
			return
		}
		e.flush()
		e.start(stripped)
		return
	}

	if cjk.EndsWithBoundary(e.buf.String(), e.opts.BoundaryLevel) || leadingIndent(raw) >= 2 {
		e.flush()
		e.start(stripped)
		return
	}
	e.merge(probe)
}

// start opens a new paragraph with the stripped line, keeping any
// ideographic indentation.
func (e *engine) start(stripped string) {
	e.buf.WriteString(stripped)
	e.dialog.update(stripped)
}

// merge appends the probe form (all leading whitespace dropped) to the
// open paragraph. CJK text joins without a separator; two Latin word
// characters meeting at the seam get a space back.
func (e *engine) merge(probe string) {
	if probe == "" {
		return
	}
	if isASCIIWord(e.lastRune()) && isASCIIWord(cjk.FirstRune(probe)) {
		e.buf.WriteByte(' ')
	}
	e.buf.WriteString(probe)
	e.dialog.update(probe)
}

func isASCIIWord(r rune) bool {
	return cjk.IsASCIILetter(r) || cjk.IsASCIIDigit(r)
}

func (e *engine) bufferTail() string {
	const tail = 64
	s := e.buf.String()
	runes := []rune(s)
	if len(runes) > tail {
		return string(runes[len(runes)-tail:])
	}
	return s
}

func (e *engine) lastRune() rune {
	return cjk.LastRune(e.bufferTail())
}

// stripLine removes trailing whitespace and leading half-width spaces
// and tabs, keeping full-width ideographic indentation (a deliberate
// paragraph indent in CJK typesetting).
func stripLine(raw string) string {
	s := strings.TrimRight(raw, " \t\r　")
	return strings.TrimLeft(s, " \t")
}

// leadingIndent counts leading indentation characters on the raw line.
// Both half-width and ideographic spaces count; tabs count double.
func leadingIndent(raw string) int {
	n := 0
	for _, r := range raw {
		switch r {
		case ' ', '　':
			n++
		case '\t':
			n += 2
		default:
			return n
		}
	}
	return n
}

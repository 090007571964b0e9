package reflow

import "github.com/hqzhou/textreflow/internal/cjk"

// quoteFamilies lists the quote pairs tracked across lines within one
// paragraph: curly double, curly single, corner, bold corner, and the
// two vertical corner variants.
var quoteFamilies = [6]struct{ open, close rune }{
	{'“', '”'},
	{'‘', '’'},
	{'「', '」'},
	{'『', '』'},
	{'﹁', '﹂'},
	{'﹃', '﹄'},
}

// dialogState tracks open quotes and brackets for the paragraph
// currently being assembled. Updates are incremental and line-local:
// a paragraph can span many broken PDF lines, so already-buffered text
// is never rescanned. Counters reset only when the paragraph flushes.
type dialogState struct {
	quotes   [len(quoteFamilies)]int
	brackets int
}

// update scans one incoming line fragment and adjusts the counters.
// Counters floor at zero so a stray closer never corrupts later lines.
func (d *dialogState) update(fragment string) {
	for _, r := range fragment {
		for i, f := range quoteFamilies {
			switch r {
			case f.open:
				d.quotes[i]++
			case f.close:
				if d.quotes[i] > 0 {
					d.quotes[i]--
				}
			}
		}
		if cjk.IsOpenBracket(r) {
			d.brackets++
		} else if cjk.IsCloseBracket(r) && d.brackets > 0 {
			d.brackets--
		}
	}
}

// unclosed reports whether any quote or bracket opened in the current
// paragraph is still waiting for its closer.
func (d *dialogState) unclosed() bool {
	for _, n := range d.quotes {
		if n > 0 {
			return true
		}
	}
	return d.brackets > 0
}

func (d *dialogState) reset() {
	*d = dialogState{}
}

// Package overlay suppresses watermark and page-furniture text in
// object-level PDF extraction. Overlay text repeats identically across
// a page: the same string painted many times in one vertical band, or
// a single word tiled across the sheet. It is detected by spatial
// bucketing plus frequency counting rather than by content.
package overlay

import (
	"math"
	"strings"
)

// Fragment is one extracted text object with its page-relative
// vertical position.
type Fragment struct {
	Text string
	Y    float64
}

// bandStep quantizes Y coordinates into coarse bands; text drawn at
// slightly different baselines still lands in one band.
const bandStep = 12.0

// maxBandRepeats is how many identical strings may share a band before
// the whole group is treated as an overlay signature.
const maxBandRepeats = 4

// tiled-watermark detection: at least this many space-separated tokens
// where all but at most one are the same short token.
const (
	minTiledTokens   = 6
	maxTiledTokenLen = 12
)

// joinGapBands is the bucket distance above which a line break is
// inserted when fragments are concatenated. One band of slack absorbs
// the bounding-box jitter of quotes and punctuation glyphs.
const joinGapBands = 1

func bucket(y float64) int {
	return int(math.Floor(y / bandStep))
}

// normalize collapses runs of whitespace into single spaces so that
// kerning differences between copies of the same watermark do not
// defeat the frequency count.
func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// FilterPage drops untrusted overlay fragments from one page and
// returns the survivors in their original order.
func FilterPage(frags []Fragment) []Fragment {
	type key struct {
		text string
		band int
	}
	counts := make(map[key]int, len(frags))
	for _, f := range frags {
		n := normalize(f.Text)
		if n == "" {
			continue
		}
		counts[key{n, bucket(f.Y)}]++
	}

	kept := make([]Fragment, 0, len(frags))
	for _, f := range frags {
		n := normalize(f.Text)
		if n == "" {
			continue
		}
		if counts[key{n, bucket(f.Y)}] >= maxBandRepeats {
			continue
		}
		if isTiledWatermark(n) {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// isTiledWatermark reports whether a fragment is one word stamped many
// times across its own text object ("DRAFT DRAFT DRAFT ...").
func isTiledWatermark(normalized string) bool {
	tokens := strings.Fields(normalized)
	if len(tokens) < minTiledTokens {
		return false
	}
	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		if len([]rune(tok)) > maxTiledTokenLen {
			return false
		}
		counts[tok]++
	}
	// All but at most one token identical.
	best := 0
	for _, n := range counts {
		if n > best {
			best = n
		}
	}
	return best >= len(tokens)-1
}

// JoinLines concatenates surviving fragments in page order, starting a
// new line only when the vertical band gap to the previous fragment
// exceeds the jitter tolerance. The result is the line-oriented input
// the reflow engine consumes.
func JoinLines(frags []Fragment) string {
	var b strings.Builder
	prev := 0
	for i, f := range frags {
		band := bucket(f.Y)
		if i > 0 {
			if gap := band - prev; gap > joinGapBands || gap < -joinGapBands {
				b.WriteByte('\n')
			}
		}
		b.WriteString(f.Text)
		prev = band
	}
	return b.String()
}

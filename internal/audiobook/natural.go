package audiobook

import (
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// naturalKeyWidth exceeds any digit run found in real track names.
const naturalKeyWidth = 20

var digitRun = regexp.MustCompile(`[0-9]+`)

// NaturalKey left-pads every run of digits with zeros so that plain string
// comparison orders "track2" before "track10". The key is NFC-composed so
// names listed in decomposed form (as macOS reports them) compare equal to
// their composed spelling; track names themselves are never rewritten.
func NaturalKey(name string) string {
	return digitRun.ReplaceAllStringFunc(norm.NFC.String(name), func(run string) string {
		if len(run) >= naturalKeyWidth {
			return run
		}
		return strings.Repeat("0", naturalKeyWidth-len(run)) + run
	})
}

// SortNatural orders tracks by the natural key of their file names.
// Tracks with equal keys keep their relative order.
func SortNatural(tracks []Track) {
	keys := make(map[string]string, len(tracks))
	for _, track := range tracks {
		keys[track.Path] = NaturalKey(track.Name())
	}
	slices.SortStableFunc(tracks, func(a, b Track) int {
		return strings.Compare(keys[a.Path], keys[b.Path])
	})
}

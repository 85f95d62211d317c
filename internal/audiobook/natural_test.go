package audiobook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaturalKeyPadsDigitRuns(t *testing.T) {
	assert.Equal(t, "t00000000000000000002.mp00000000000000000003", NaturalKey("t2.mp3"))
	assert.Equal(t, "a00000000000000000001b00000000000000000010", NaturalKey("a1b10"))
	assert.Equal(t, "no digits", NaturalKey("no digits"))
}

func TestSortNaturalOrdersNumbersByValue(t *testing.T) {
	tracks := []Track{{Path: "/b/t2.mp3"}, {Path: "/b/t10.mp3"}, {Path: "/b/t1.mp3"}}
	SortNatural(tracks)

	names := make([]string, 0, len(tracks))
	for _, track := range tracks {
		names = append(names, track.Name())
	}
	assert.Equal(t, []string{"t1.mp3", "t2.mp3", "t10.mp3"}, names)
}

func TestSortNaturalIsStableForEqualKeys(t *testing.T) {
	// "01" and "1" pad to the same key.
	tracks := []Track{{Path: "/x/part1.mp3"}, {Path: "/y/part01.mp3"}, {Path: "/z/part0.mp3"}}
	SortNatural(tracks)

	assert.Equal(t, "/z/part0.mp3", tracks[0].Path)
	assert.Equal(t, "/x/part1.mp3", tracks[1].Path)
	assert.Equal(t, "/y/part01.mp3", tracks[2].Path)
}

func TestNaturalKeyComparesCompositionFormsEqually(t *testing.T) {
	assert.Equal(t, NaturalKey("Caf\u00e9 2.mp3"), NaturalKey("Cafe\u0301 2.mp3"))

	tracks := []Track{{Path: "/b/Cafe\u0301 10.mp3"}, {Path: "/b/Caf\u00e9 9.mp3"}}
	SortNatural(tracks)
	assert.Equal(t, "/b/Caf\u00e9 9.mp3", tracks[0].Path)
	assert.Equal(t, "/b/Cafe\u0301 10.mp3", tracks[1].Path, "path is not normalized")
}

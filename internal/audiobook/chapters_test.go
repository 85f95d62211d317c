package audiobook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChaptersFromMetadata(t *testing.T) {
	spine := []SpineItem{{Duration: 100}, {Duration: 200}}
	entries := []ChapterEntry{{Spine: 0, Offset: 10}, {Spine: 1, Offset: 0}}

	chapters := ChaptersFromMetadata(spine, entries, 300)

	require.Len(t, chapters, 2)
	assert.Equal(t, Chapter{Title: "Chapter 1", Start: 10, End: 100}, chapters[0])
	assert.Equal(t, Chapter{Title: "Chapter 2", Start: 100, End: 300}, chapters[1])
}

func TestChaptersFromMetadataKeepsTitlesVerbatim(t *testing.T) {
	spine := []SpineItem{{Duration: 40}, {Duration: 60}}
	entries := []ChapterEntry{{Title: "  Prologue ", Spine: 0}, {Title: " \t", Spine: 1}}

	chapters := ChaptersFromMetadata(spine, entries, 100)

	require.Len(t, chapters, 2)
	assert.Equal(t, "  Prologue ", chapters[0].Title)
	assert.Equal(t, "Chapter 2", chapters[1].Title)
	assert.Equal(t, 40.0, chapters[1].Start)
}

func TestChaptersFromMetadataOutOfRangeSpineStartsAtZero(t *testing.T) {
	spine := []SpineItem{{Duration: 50}}
	entries := []ChapterEntry{{Title: "Intro", Spine: 7, Offset: 12}, {Title: "Body", Spine: 1, Offset: 0}}

	chapters := ChaptersFromMetadata(spine, entries, 80)

	require.Len(t, chapters, 2)
	assert.Equal(t, 0.0, chapters[0].Start)
	assert.Equal(t, 50.0, chapters[0].End)
	assert.Equal(t, "Intro", chapters[0].Title)
	assert.Equal(t, 50.0, chapters[1].Start)
	assert.Equal(t, 80.0, chapters[1].End)
}

func TestChaptersFromFiles(t *testing.T) {
	tracks := []Track{{Path: "/book/01 - Opening.mp3"}, {Path: "/book/02 - Middle.mp3"}}

	chapters := ChaptersFromFiles(tracks, []float64{60, 90})

	require.Len(t, chapters, 2)
	assert.Equal(t, Chapter{Title: "01 - Opening", Start: 0, End: 60}, chapters[0])
	assert.Equal(t, Chapter{Title: "02 - Middle", Start: 60, End: 150}, chapters[1])
}

func TestChapterIntegerViewsTruncate(t *testing.T) {
	chapter := Chapter{Start: 59.99, End: 120.5}
	assert.Equal(t, int64(59), chapter.StartInt())
	assert.Equal(t, int64(120), chapter.EndInt())
}

func TestResolvePlanPrefersMetadata(t *testing.T) {
	tracks := []Track{{Path: "/b/a.mp3"}}
	meta := &SourceMetadata{
		Title:    "Real Title",
		Creators: []Creator{{Name: "Narrator", Role: "narrator"}, {Name: "Writer", Role: "Author"}},
		Spine:    []SpineItem{{Duration: 10}},
		Chapters: []ChapterEntry{{Title: "One"}},
	}

	plan := resolvePlan(meta, tracks, []float64{10})
	assert.Equal(t, ChapterSourceMetadata, plan.source())
	assert.Equal(t, "Real Title", plan.title("dir"))
	assert.Equal(t, "Writer", plan.author())

	plan = resolvePlan(&SourceMetadata{Title: "Ignored"}, tracks, []float64{10})
	assert.Equal(t, ChapterSourceFiles, plan.source())
	assert.Equal(t, "dir", plan.title("dir"))
	assert.Empty(t, plan.author())

	plan = resolvePlan(nil, tracks, []float64{10})
	assert.Equal(t, ChapterSourceFiles, plan.source())
}

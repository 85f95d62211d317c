package audiobook

import (
	"fmt"
	"strings"
)

// chapterPlan is the resolved chapter algorithm for one job.
type chapterPlan interface {
	source() ChapterSource
	title(dirName string) string
	author() string
	chapters(total float64) []Chapter
}

// resolvePlan picks metadata-derived chapters when the metadata carries a
// spine and chapter list, and file-derived chapters otherwise.
func resolvePlan(meta *SourceMetadata, tracks []Track, durations []float64) chapterPlan {
	if meta.HasChapterLayout() {
		return metadataPlan{meta: meta}
	}
	return filePlan{tracks: tracks, durations: durations}
}

type metadataPlan struct {
	meta *SourceMetadata
}

func (metadataPlan) source() ChapterSource { return ChapterSourceMetadata }

func (p metadataPlan) title(dirName string) string {
	if title := strings.TrimSpace(p.meta.Title); title != "" {
		return title
	}
	return dirName
}

func (p metadataPlan) author() string { return p.meta.Author() }

func (p metadataPlan) chapters(total float64) []Chapter {
	return ChaptersFromMetadata(p.meta.Spine, p.meta.Chapters, total)
}

type filePlan struct {
	tracks    []Track
	durations []float64
}

func (filePlan) source() ChapterSource { return ChapterSourceFiles }

func (filePlan) title(dirName string) string { return dirName }

func (filePlan) author() string { return "" }

func (p filePlan) chapters(float64) []Chapter {
	return ChaptersFromFiles(p.tracks, p.durations)
}

// ChaptersFromMetadata places each chapter at the cumulative duration of the
// spine items before its spine index plus its offset. A chapter ends where
// the next one starts; the last ends at total.
func ChaptersFromMetadata(spine []SpineItem, entries []ChapterEntry, total float64) []Chapter {
	prefix := make([]float64, len(spine)+1)
	for i, item := range spine {
		prefix[i+1] = prefix[i] + item.Duration
	}
	startOf := func(entry ChapterEntry) float64 {
		if entry.Spine < 0 || entry.Spine >= len(prefix) {
			return 0
		}
		return prefix[entry.Spine] + entry.Offset
	}

	chapters := make([]Chapter, 0, len(entries))
	for i, entry := range entries {
		end := total
		if i+1 < len(entries) {
			end = startOf(entries[i+1])
		}
		title := entry.Title
		if strings.TrimSpace(title) == "" {
			title = fmt.Sprintf("Chapter %d", i+1)
		}
		chapters = append(chapters, Chapter{
			Title: title,
			Start: startOf(entry),
			End:   end,
		})
	}
	return chapters
}

// ChaptersFromFiles makes one chapter per track, back to back.
func ChaptersFromFiles(tracks []Track, durations []float64) []Chapter {
	chapters := make([]Chapter, 0, len(tracks))
	current := 0.0
	for i, track := range tracks {
		var duration float64
		if i < len(durations) {
			duration = durations[i]
		}
		chapters = append(chapters, Chapter{
			Title: track.Stem(),
			Start: current,
			End:   current + duration,
		})
		current += duration
	}
	return chapters
}

package transcoder

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bookbinder/internal/audiobook"
)

// Artifact file names inside the work directory.
const (
	ConcatListName = "concat_list.txt"
	ChaptersName   = "chapters.txt"
)

// concatEscaper prepares a path for a single-quoted concat demuxer entry.
var concatEscaper = strings.NewReplacer(
	`\`, "/",
	"'", `'\''`,
)

// ffmetadataEscaper prefixes every character FFMETADATA reserves with a
// backslash. The backslash itself is listed first.
var ffmetadataEscaper = strings.NewReplacer(
	`\`, `\\`,
	"=", `\=`,
	";", `\;`,
	"#", `\#`,
	"\n", "\\\n",
)

// EscapeConcatPath escapes one path for a `file '...'` line.
func EscapeConcatPath(path string) string {
	return concatEscaper.Replace(path)
}

// EscapeMetadata escapes one free-text FFMETADATA value.
func EscapeMetadata(value string) string {
	return ffmetadataEscaper.Replace(value)
}

// RenderConcatList writes the concat demuxer list for tracks into workDir and
// returns its path. No tracks yields an empty file.
func (g *Gateway) RenderConcatList(tracks []audiobook.Track, workDir string) (string, error) {
	path := filepath.Join(workDir, ConcatListName)
	var b strings.Builder
	for _, track := range tracks {
		b.WriteString("file '")
		b.WriteString(EscapeConcatPath(track.Path))
		b.WriteString("'\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write concat list: %w", err)
	}
	return path, nil
}

// RenderChapterMetadata writes the FFMETADATA1 chapter file into workDir and
// returns its path. Title and album both carry the book title; blank title
// or author lines are omitted.
func (g *Gateway) RenderChapterMetadata(chapters []audiobook.Chapter, title, author, workDir string) (string, error) {
	path := filepath.Join(workDir, ChaptersName)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create chapter metadata: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	line := func(s string) {
		w.WriteString(s)
		w.WriteByte('\n')
	}

	line(";FFMETADATA1")
	if strings.TrimSpace(title) != "" {
		line("title=" + EscapeMetadata(title))
		line("album=" + EscapeMetadata(title))
	}
	if strings.TrimSpace(author) != "" {
		line("artist=" + EscapeMetadata(author))
	}
	line("genre=Audiobook")
	line("date=" + strconv.Itoa(g.now().Year()))
	line("")

	for _, chapter := range chapters {
		line("[CHAPTER]")
		line("TIMEBASE=1/1")
		line("START=" + strconv.FormatInt(chapter.StartInt(), 10))
		line("END=" + strconv.FormatInt(chapter.EndInt(), 10))
		line("title=" + EscapeMetadata(chapter.Title))
		line("")
	}

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("write chapter metadata: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close chapter metadata: %w", err)
	}
	return path, nil
}

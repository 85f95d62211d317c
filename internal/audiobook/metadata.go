package audiobook

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MetadataRelPath is where a source directory may carry structured metadata.
var MetadataRelPath = filepath.Join("metadata", "metadata.json")

// SourceMetadata mirrors the externally authored metadata.json document.
// Keys match case-insensitively.
type SourceMetadata struct {
	Title    string         `json:"title"`
	Creators []Creator      `json:"creator"`
	Spine    []SpineItem    `json:"spine"`
	Chapters []ChapterEntry `json:"chapters"`
}

// Creator is a named contributor with an optional role.
type Creator struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// SpineItem is one source segment of the original publication.
type SpineItem struct {
	Duration float64 `json:"duration"`
}

// ChapterEntry points into the spine: the chapter starts Offset seconds into
// spine item Spine.
type ChapterEntry struct {
	Title  string  `json:"title"`
	Spine  int     `json:"spine"`
	Offset float64 `json:"offset"`
}

// Author prefers a creator whose role is "author", then the first creator.
// Returns "" when no creator carries a name.
func (m *SourceMetadata) Author() string {
	if m == nil || len(m.Creators) == 0 {
		return ""
	}
	for _, creator := range m.Creators {
		if strings.EqualFold(strings.TrimSpace(creator.Role), "author") && strings.TrimSpace(creator.Name) != "" {
			return strings.TrimSpace(creator.Name)
		}
	}
	return strings.TrimSpace(m.Creators[0].Name)
}

// HasChapterLayout reports whether both the spine and chapter lists are usable.
func (m *SourceMetadata) HasChapterLayout() bool {
	return m != nil && m.Spine != nil && len(m.Chapters) > 0
}

// ParseMetadata decodes a metadata.json payload.
func ParseMetadata(data []byte) (*SourceMetadata, error) {
	var meta SourceMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return &meta, nil
}

// LoadMetadata reads metadata/metadata.json below dir. A missing file returns
// (nil, nil); unreadable or malformed files return an error the caller may
// choose to ignore.
func LoadMetadata(dir string) (*SourceMetadata, error) {
	path := filepath.Join(dir, MetadataRelPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	return ParseMetadata(data)
}

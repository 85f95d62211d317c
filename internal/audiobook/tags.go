package audiobook

import (
	"fmt"
	"os"

	"github.com/dhowden/tag"
)

// TrackTags holds the embedded tags of one source file.
type TrackTags struct {
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
	Track  int    `json:"track,omitempty"`
	Format string `json:"format,omitempty"`
}

// ReadTags reads the ID3 tags embedded in a track.
func ReadTags(track Track) (TrackTags, error) {
	file, err := os.Open(track.Path)
	if err != nil {
		return TrackTags{}, fmt.Errorf("open track: %w", err)
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		return TrackTags{}, fmt.Errorf("read tags: %w", err)
	}
	number, _ := meta.Track()
	return TrackTags{
		Title:  meta.Title(),
		Artist: meta.Artist(),
		Album:  meta.Album(),
		Track:  number,
		Format: string(meta.Format()),
	}, nil
}

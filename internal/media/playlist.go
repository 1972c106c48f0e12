package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"
)

// playlistTimeout bounds the metadata fetch.
const playlistTimeout = 60 * time.Second

// PlaylistItem is one video in a playlist.
type PlaylistItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ExtractPlaylistID pulls the list= parameter from a YouTube URL.
func ExtractPlaylistID(rawURL string) string {
	const param = "list="
	idx := strings.Index(rawURL, param)
	if idx < 0 {
		return ""
	}
	id := rawURL[idx+len(param):]
	if amp := strings.Index(id, "&"); amp >= 0 {
		id = id[:amp]
	}
	return id
}

// PlaylistItems lists a playlist's videos without needing the yt-dlp
// binary installed.
func PlaylistItems(ctx context.Context, rawURL string) ([]PlaylistItem, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}
	playlistID := ExtractPlaylistID(rawURL)
	if playlistID == "" {
		return nil, fmt.Errorf("not a playlist URL (no list= parameter): %s", rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, playlistTimeout)
	defer cancel()

	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	result := make([]PlaylistItem, 0, len(items))
	for _, it := range items {
		result = append(result, PlaylistItem{
			ID:    it.VideoID,
			Title: it.Title,
			URL:   "https://www.youtube.com/watch?v=" + it.VideoID,
		})
	}
	return result, nil
}

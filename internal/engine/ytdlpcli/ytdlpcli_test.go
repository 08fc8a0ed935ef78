package ytdlpcli

import (
	"testing"

	"github.com/lrstanley/go-ytdlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-webui/internal/engine"
)

const videoDump = `{
  "id": "dQw4w9WgXcQ",
  "title": "Never Gonna Give You Up",
  "uploader": "Rick Astley",
  "duration": 212.0,
  "view_count": 1500000000,
  "upload_date": "20091025",
  "description": "The official video",
  "thumbnail": "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",
  "formats": [
    {"format_id": "140", "ext": "m4a", "vcodec": "none", "acodec": "mp4a.40.2", "height": null, "fps": null},
    {"format_id": "136", "ext": "mp4", "height": 720, "width": 1280, "fps": 25, "vcodec": "avc1", "acodec": "none"},
    {"format_id": "137", "ext": "mp4", "height": 1080, "width": 1920, "fps": 25, "vcodec": "avc1", "acodec": "none"}
  ]
}`

func TestParseMetadata(t *testing.T) {
	md, err := parseMetadata([]byte(videoDump))
	require.NoError(t, err)

	assert.Equal(t, "dQw4w9WgXcQ", md.ID)
	assert.Equal(t, "Never Gonna Give You Up", md.Title)
	assert.Equal(t, "Rick Astley", md.Uploader)
	assert.Equal(t, 212.0, md.Duration)
	assert.Equal(t, int64(1500000000), md.ViewCount)
	assert.Equal(t, "20091025", md.UploadDate)
	require.Len(t, md.Formats, 3)
	assert.Equal(t, 0, md.Formats[0].Height)
	assert.Equal(t, 1080, md.Formats[2].Height)
	assert.Equal(t, 25.0, md.Formats[2].FPS)
}

func TestParseMetadata_ChannelFallback(t *testing.T) {
	md, err := parseMetadata([]byte(`{"id":"x","title":"t","channel":"Some Channel"}`))
	require.NoError(t, err)
	assert.Equal(t, "Some Channel", md.Uploader)
	assert.Empty(t, md.Formats)
}

func TestParseMetadata_Invalid(t *testing.T) {
	_, err := parseMetadata([]byte("ERROR: not json"))
	assert.Error(t, err)
}

func TestParsePlaylist(t *testing.T) {
	dump := `{
	  "id": "PL123",
	  "title": "Talks",
	  "_type": "playlist",
	  "entries": [
	    {"id": "a1", "title": "First", "url": "https://www.youtube.com/watch?v=a1", "duration": 61},
	    {"id": "b2", "title": "Second", "duration": null},
	    {"id": "", "title": "broken"}
	  ]
	}`

	listing, err := parsePlaylist([]byte(dump))
	require.NoError(t, err)
	assert.Equal(t, "PL123", listing.ID)
	assert.Equal(t, "Talks", listing.Title)
	require.Len(t, listing.Entries, 2)
	assert.Equal(t, 61.0, listing.Entries[0].Duration)
	assert.Equal(t, "https://www.youtube.com/watch?v=b2", listing.Entries[1].URL)
}

func TestToProgress(t *testing.T) {
	p := toProgress(ytdlp.ProgressUpdate{
		Status:          ytdlp.ProgressStatusDownloading,
		DownloadedBytes: 512,
		TotalBytes:      2048,
	})
	assert.Equal(t, engine.Progress{Status: engine.StatusDownloading, DownloadedBytes: 512, TotalBytes: 2048}, p)
}

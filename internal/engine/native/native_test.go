package native

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/kkdai/youtube/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yterrs "github.com/ytget/ytdlp/errs"
	ytgettypes "github.com/ytget/ytdlp/types"

	"github.com/ytget/yt-webui/internal/engine"
	"github.com/ytget/yt-webui/internal/remux"
)

func TestToMetadata(t *testing.T) {
	video := &youtube.Video{
		ID:          "abc123def45",
		Title:       "Conference Talk",
		Author:      "GopherCon",
		Description: "A talk about channels",
		Duration:    125 * time.Second,
		Views:       2500000,
		PublishDate: time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
		Thumbnails: youtube.Thumbnails{
			{URL: "https://i.ytimg.com/small.jpg", Width: 120, Height: 90},
			{URL: "https://i.ytimg.com/large.jpg", Width: 1280, Height: 720},
		},
		Formats: youtube.FormatList{
			{ItagNo: 22, MimeType: `video/mp4; codecs="avc1.64001F, mp4a.40.2"`, Height: 720, Width: 1280, FPS: 30, AudioChannels: 2},
			{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, AudioChannels: 2, Bitrate: 130000},
		},
	}

	md := toMetadata(video)
	assert.Equal(t, "abc123def45", md.ID)
	assert.Equal(t, "GopherCon", md.Uploader)
	assert.Equal(t, 125.0, md.Duration)
	assert.Equal(t, int64(2500000), md.ViewCount)
	assert.Equal(t, "20240131", md.UploadDate)
	assert.Equal(t, "https://i.ytimg.com/large.jpg", md.Thumbnail)
	require.Len(t, md.Formats, 2)
	assert.Equal(t, engine.Format{ID: "22", Ext: "mp4", Height: 720, Width: 1280, FPS: 30, VCodec: "avc1.64001F, mp4a.40.2", ACodec: "avc1.64001F, mp4a.40.2"}, md.Formats[0])
	assert.Equal(t, "m4a", md.Formats[1].Ext)
	assert.Equal(t, "none", md.Formats[1].VCodec)
}

func TestToMetadata_NoPublishDate(t *testing.T) {
	md := toMetadata(&youtube.Video{ID: "x"})
	assert.Empty(t, md.UploadDate)
	assert.Empty(t, md.Thumbnail)
}

func TestPickAudioFormat(t *testing.T) {
	formats := youtube.FormatList{
		{ItagNo: 18, MimeType: "video/mp4", Height: 360, AudioChannels: 2, Bitrate: 500000},
		{ItagNo: 251, MimeType: `audio/webm; codecs="opus"`, AudioChannels: 2, Bitrate: 160000},
		{ItagNo: 139, MimeType: `audio/mp4; codecs="mp4a.40.5"`, AudioChannels: 2, Bitrate: 48000},
		{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, AudioChannels: 2, AverageBitrate: 129000},
	}

	best := pickAudioFormat(formats)
	require.NotNil(t, best)
	assert.Equal(t, 140, best.ItagNo)

	assert.Nil(t, pickAudioFormat(youtube.FormatList{{ItagNo: 137, MimeType: "video/mp4", Height: 1080}}))
}

func TestClassify(t *testing.T) {
	e := &Engine{}

	tests := []struct {
		err      error
		expected string
	}{
		{fmt.Errorf("fetch video: %w", youtube.ErrVideoPrivate), engine.ReasonPrivate},
		{fmt.Errorf("download video: %w", yterrs.ErrPrivate), engine.ReasonPrivate},
		{yterrs.ErrAgeRestricted, engine.ReasonAgeLimit},
		{yterrs.ErrGeoBlocked, engine.ReasonGeoBlocked},
		{yterrs.ErrRateLimited, engine.ReasonRateLimited},
		{yterrs.ErrVideoUnavailable, engine.ReasonUnavailable},
		{errors.New("something else"), ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, e.Classify(tt.err), "error %v", tt.err)
	}

	assert.Equal(t, engine.ReasonGeoBlocked, engine.Reason(e, yterrs.ErrGeoBlocked))
}

func TestProgressWriter(t *testing.T) {
	var updates []engine.Progress
	pw := &progressWriter{total: 10, report: func(p engine.Progress) { updates = append(updates, p) }}

	n, err := pw.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	_, _ = pw.Write([]byte("world"))

	require.Len(t, updates, 2)
	assert.Equal(t, engine.Progress{Status: engine.StatusDownloading, DownloadedBytes: 10, TotalBytes: 10}, updates[1])
}

func TestNew_Defaults(t *testing.T) {
	e := New(Options{Remuxer: remux.New()})
	assert.Equal(t, Name, e.Name())
	assert.NotNil(t, e.httpClient)
	assert.Equal(t, e.httpClient, e.client.HTTPClient)
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()

	got := outputPath(engine.Options{OutputDir: dir}, "My Video", "abc", "mp4")
	assert.Equal(t, filepath.Join(dir, "My Video.mp4"), got)

	got = outputPath(engine.Options{OutputDir: dir, OutputTemplate: "%(id)s.%(ext)s"}, "My Video", "abc", "webm")
	assert.Equal(t, filepath.Join(dir, "abc.webm"), got)

	// concurrent downloads into one directory get their own names
	other := outputPath(engine.Options{OutputDir: dir}, "Other Session", "def", "webm")
	assert.NotEqual(t, filepath.Join(dir, "My Video.mp4"), other)
}

func TestFormatExt(t *testing.T) {
	formats := []ytgettypes.Format{
		{Itag: 22, MimeType: `video/mp4; codecs="avc1.64001F"`},
		{Itag: 243, MimeType: `video/webm; codecs="vp9"`},
	}

	assert.Equal(t, "webm", formatExt(formats, "https://rr1.googlevideo.com/videoplayback?itag=243&mime=video%2Fwebm"))
	assert.Equal(t, "mp4", formatExt(formats, "https://rr1.googlevideo.com/videoplayback?itag=22"))
	assert.Equal(t, videoExt, formatExt(formats, "https://rr1.googlevideo.com/videoplayback?itag=999"))
	assert.Equal(t, videoExt, formatExt(formats, "://bad"))
}

func TestRemuxProgress(t *testing.T) {
	assert.Nil(t, remuxProgress(engine.Options{}))

	var got []engine.Progress
	report := remuxProgress(engine.Options{Progress: func(p engine.Progress) { got = append(got, p) }})
	require.NotNil(t, report)
	report(0.5)

	require.Len(t, got, 1)
	assert.Equal(t, engine.Progress{Status: engine.StatusProcessing, Fraction: 0.5}, got[0])
}

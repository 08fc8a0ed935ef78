// Package engine defines the boundary to the external extraction/download engine.
//
// Adapters live in subpackages: ytdlpcli drives the yt-dlp binary, native uses pure
// Go YouTube clients. Callers depend only on the Engine interface.
package engine

import (
	"context"
	"errors"
)

// Progress statuses reported by engines
const (
	StatusDownloading = "downloading"
	StatusFinished    = "finished"
	StatusProcessing  = "processing"
	StatusError       = "error"
)

// ErrUnsupported is returned by adapters for operations they cannot perform
var ErrUnsupported = errors.New("operation not supported by engine")

// Engine is an external extraction/download engine.
type Engine interface {
	Name() string
	// Lookup fetches metadata without downloading.
	Lookup(ctx context.Context, url string) (*Metadata, error)
	// Download fetches the selected streams into opts.OutputDir.
	Download(ctx context.Context, opts Options) (*Result, error)
	// Playlist lists the entries of a playlist without resolving each video.
	Playlist(ctx context.Context, url string) (*PlaylistListing, error)
}

// Format is one stream as reported by the engine.
type Format struct {
	ID     string
	Ext    string
	Height int
	Width  int
	FPS    float64
	VCodec string
	ACodec string
}

// Metadata is the engine's metadata-only response.
type Metadata struct {
	ID          string
	Title       string
	Uploader    string
	Duration    float64 // seconds
	ViewCount   int64
	UploadDate  string // YYYYMMDD
	Description string
	Thumbnail   string
	Formats     []Format
}

// Selection describes which streams to fetch.
type Selection struct {
	// Expression is a yt-dlp style format selector.
	Expression string
	// MaxHeight caps the video height, 0 for no cap.
	MaxHeight int
	AudioOnly bool
	// Container is the merge/remux target ("mp4", "m4a").
	Container string
}

// Progress is one progress notification from the engine's own download loop.
type Progress struct {
	Status          string
	DownloadedBytes int64
	TotalBytes      int64 // 0 when unknown
	// Fraction is the post-processing completion (0..1) for StatusProcessing.
	Fraction float64
}

// Options configures a single download call.
type Options struct {
	URL            string
	Selection      Selection
	OutputDir      string
	OutputTemplate string // e.g. "%(title)s.%(ext)s"
	CookieFile     string // empty when no cookie file is available
	Progress       func(Progress)
}

// Result describes a finished download.
type Result struct {
	Title    string
	Filename string
}

// PlaylistEntry is one flat playlist item.
type PlaylistEntry struct {
	ID       string
	Title    string
	URL      string
	Duration float64
}

// PlaylistListing is a flat playlist.
type PlaylistListing struct {
	ID      string
	Title   string
	Entries []PlaylistEntry
}

// DefaultOutputTemplate names files after the video title
const DefaultOutputTemplate = "%(title)s.%(ext)s"

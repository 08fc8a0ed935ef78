// Package ytdlpcli implements engine.Engine on top of the yt-dlp binary through
// github.com/lrstanley/go-ytdlp.
package ytdlpcli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/rs/zerolog"

	"github.com/ytget/yt-webui/internal/engine"
	xlog "github.com/ytget/yt-webui/internal/log"
	"github.com/ytget/yt-webui/internal/platform"
)

// Name is the engine name used in configuration
const Name = "ytdlp"

// DefaultProgressInterval is how often yt-dlp is asked for progress lines
const DefaultProgressInterval = 500 * time.Millisecond

// Options configures the adapter
type Options struct {
	// Executable overrides the yt-dlp binary path; empty means PATH lookup.
	Executable string
	// Install downloads a yt-dlp binary into the cache when none is found.
	Install          bool
	ProgressInterval time.Duration
}

// Engine drives the yt-dlp binary
type Engine struct {
	opts   Options
	logger zerolog.Logger
}

// New creates a yt-dlp engine. With opts.Install set, the binary is resolved (and
// fetched if needed) before returning.
func New(ctx context.Context, opts Options) (*Engine, error) {
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = DefaultProgressInterval
	}
	e := &Engine{opts: opts, logger: xlog.WithComponent("engine.ytdlp")}

	if opts.Install && opts.Executable == "" {
		resolved, err := ytdlp.Install(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("install yt-dlp: %w", err)
		}
		e.opts.Executable = resolved.Executable
		e.logger.Info().Str("executable", resolved.Executable).Str("version", resolved.Version).Msg("yt-dlp ready")
	}
	return e, nil
}

// Name returns the engine name
func (e *Engine) Name() string { return Name }

func (e *Engine) command() *ytdlp.Command {
	cmd := ytdlp.New()
	if e.opts.Executable != "" {
		cmd.SetExecutable(e.opts.Executable)
	}
	return cmd
}

// Lookup runs yt-dlp in metadata-only mode and decodes its JSON dump
func (e *Engine) Lookup(ctx context.Context, url string) (*engine.Metadata, error) {
	res, err := e.command().
		SkipDownload().
		DumpSingleJSON().
		NoPlaylist().
		NoWarnings().
		Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp lookup: %w", err)
	}
	return parseMetadata([]byte(res.Stdout))
}

// Download runs yt-dlp with the selection, output template and optional cookie jar
func (e *Engine) Download(ctx context.Context, opts engine.Options) (*engine.Result, error) {
	tmpl := opts.OutputTemplate
	if tmpl == "" {
		tmpl = engine.DefaultOutputTemplate
	}

	dl := e.command().
		ForceOverwrites().
		NoWriteSubs().
		NoWriteAutoSubs().
		NoPlaylist().
		Format(opts.Selection.Expression).
		Output(filepath.Join(opts.OutputDir, tmpl))

	// yt-dlp only merges into video containers; audio-only tiers keep the stream as is.
	if !opts.Selection.AudioOnly && opts.Selection.Container != "" {
		dl.MergeOutputFormat(opts.Selection.Container)
	}
	if opts.CookieFile != "" {
		dl.Cookies(opts.CookieFile)
	}
	if opts.Progress != nil {
		dl.ProgressFunc(e.opts.ProgressInterval, func(update ytdlp.ProgressUpdate) {
			opts.Progress(toProgress(update))
		})
	}

	res, err := dl.Run(ctx, opts.URL)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp download: %w", err)
	}

	out := &engine.Result{}
	if info, err := res.GetExtractedInfo(); err == nil && len(info) > 0 {
		if info[0].Filename != nil {
			out.Filename = *info[0].Filename
		}
		if info[0].Title != nil {
			out.Title = *info[0].Title
		}
	}
	return out, nil
}

// Playlist lists a playlist in flat mode
func (e *Engine) Playlist(ctx context.Context, url string) (*engine.PlaylistListing, error) {
	res, err := e.command().
		FlatPlaylist().
		DumpSingleJSON().
		NoWarnings().
		Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp playlist: %w", err)
	}
	return parsePlaylist([]byte(res.Stdout))
}

func toProgress(update ytdlp.ProgressUpdate) engine.Progress {
	return engine.Progress{
		Status:          string(update.Status),
		DownloadedBytes: int64(update.DownloadedBytes),
		TotalBytes:      int64(update.TotalBytes),
	}
}

// infoJSON is the subset of the yt-dlp info dict this adapter reads
type infoJSON struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Uploader    string       `json:"uploader"`
	Channel     string       `json:"channel"`
	Duration    float64      `json:"duration"`
	ViewCount   int64        `json:"view_count"`
	UploadDate  string       `json:"upload_date"`
	Description string       `json:"description"`
	Thumbnail   string       `json:"thumbnail"`
	Formats     []formatJSON `json:"formats"`
	Entries     []entryJSON  `json:"entries"`
	URL         string       `json:"webpage_url"`
}

type formatJSON struct {
	FormatID string  `json:"format_id"`
	Ext      string  `json:"ext"`
	Height   int     `json:"height"`
	Width    int     `json:"width"`
	FPS      float64 `json:"fps"`
	VCodec   string  `json:"vcodec"`
	ACodec   string  `json:"acodec"`
}

type entryJSON struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	Duration float64 `json:"duration"`
}

func parseMetadata(data []byte) (*engine.Metadata, error) {
	var info infoJSON
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decode yt-dlp json: %w", err)
	}

	uploader := info.Uploader
	if uploader == "" {
		uploader = info.Channel
	}

	md := &engine.Metadata{
		ID:          info.ID,
		Title:       info.Title,
		Uploader:    uploader,
		Duration:    info.Duration,
		ViewCount:   info.ViewCount,
		UploadDate:  info.UploadDate,
		Description: info.Description,
		Thumbnail:   info.Thumbnail,
		Formats:     make([]engine.Format, 0, len(info.Formats)),
	}
	for _, f := range info.Formats {
		md.Formats = append(md.Formats, engine.Format{
			ID:     f.FormatID,
			Ext:    f.Ext,
			Height: f.Height,
			Width:  f.Width,
			FPS:    f.FPS,
			VCodec: f.VCodec,
			ACodec: f.ACodec,
		})
	}
	return md, nil
}

func parsePlaylist(data []byte) (*engine.PlaylistListing, error) {
	var info infoJSON
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decode yt-dlp json: %w", err)
	}

	listing := &engine.PlaylistListing{
		ID:      info.ID,
		Title:   info.Title,
		Entries: make([]engine.PlaylistEntry, 0, len(info.Entries)),
	}
	for _, entry := range info.Entries {
		if entry.ID == "" {
			continue
		}
		url := entry.URL
		if url == "" {
			url = platform.VideoURL(entry.ID)
		}
		listing.Entries = append(listing.Entries, engine.PlaylistEntry{
			ID:       entry.ID,
			Title:    entry.Title,
			URL:      url,
			Duration: entry.Duration,
		})
	}
	return listing, nil
}

// Package native implements engine.Engine without external binaries.
//
// Metadata and audio-only streams come from github.com/kkdai/youtube/v2. Video
// URLs are resolved and playlists listed with github.com/ytget/ytdlp/v2; the
// resolved stream is fetched into a file named from the output template. Container
// remuxing is delegated to the remux package.
package native

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"
	"github.com/rs/zerolog"
	ytdownloader "github.com/ytget/ytdlp/downloader"
	yterrs "github.com/ytget/ytdlp/errs"
	ytgettypes "github.com/ytget/ytdlp/types"
	ytget "github.com/ytget/ytdlp/v2"

	"github.com/ytget/yt-webui/internal/engine"
	xlog "github.com/ytget/yt-webui/internal/log"
	"github.com/ytget/yt-webui/internal/platform"
	"github.com/ytget/yt-webui/internal/remux"
)

// Name is the engine name used in configuration
const Name = "native"

// Defaults
const (
	DefaultHTTPTimeout = 30 * time.Second
	UploadDateLayout   = "20060102"
	selectorBest       = "best"
	selectorMaxHeight  = "height<=%d"
	videoExt           = "mp4"
)

// Options configures the adapter
type Options struct {
	HTTPClient *http.Client
	// RateLimit caps video download speed in bytes per second, 0 for unlimited.
	RateLimit int64
	Remuxer   *remux.Remuxer
}

// Engine is the pure Go engine
type Engine struct {
	client     *youtube.Client
	httpClient *http.Client
	rateLimit  int64
	remuxer    *remux.Remuxer
	logger     zerolog.Logger
}

// New creates a native engine
func New(opts Options) *Engine {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	remuxer := opts.Remuxer
	if remuxer == nil {
		remuxer = remux.New()
	}
	return &Engine{
		client:     &youtube.Client{HTTPClient: httpClient},
		httpClient: httpClient,
		rateLimit:  opts.RateLimit,
		remuxer:    remuxer,
		logger:     xlog.WithComponent("engine.native"),
	}
}

// Name returns the engine name
func (e *Engine) Name() string { return Name }

// Lookup fetches video metadata through the YouTube player API
func (e *Engine) Lookup(ctx context.Context, rawURL string) (*engine.Metadata, error) {
	video, err := e.client.GetVideoContext(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch video: %w", err)
	}
	return toMetadata(video), nil
}

// Download fetches audio-only selections as a single stream and video selections
// through the ytget downloader, then remuxes into the requested container.
func (e *Engine) Download(ctx context.Context, opts engine.Options) (*engine.Result, error) {
	if opts.Selection.AudioOnly {
		return e.downloadAudio(ctx, opts)
	}
	return e.downloadVideo(ctx, opts)
}

func (e *Engine) downloadVideo(ctx context.Context, opts engine.Options) (*engine.Result, error) {
	selector := selectorBest
	if opts.Selection.MaxHeight > 0 {
		selector = fmt.Sprintf(selectorMaxHeight, opts.Selection.MaxHeight)
	}

	mediaURL, info, err := ytget.New().
		WithHTTPClient(e.httpClient).
		WithFormat(selector, videoExt).
		ResolveURL(ctx, opts.URL)
	if err != nil {
		return nil, fmt.Errorf("resolve video: %w", err)
	}

	path := outputPath(opts, info.Title, info.ID, formatExt(info.Formats, mediaURL))
	var onProgress func(ytdownloader.Progress)
	if opts.Progress != nil {
		onProgress = func(p ytdownloader.Progress) {
			opts.Progress(engine.Progress{
				Status:          engine.StatusDownloading,
				DownloadedBytes: p.DownloadedSize,
				TotalBytes:      p.TotalSize,
			})
		}
	}
	if err := ytdownloader.New(e.httpClient, onProgress, e.rateLimit).Download(ctx, mediaURL, path); err != nil {
		return nil, fmt.Errorf("download video: %w", err)
	}

	path, err = e.remuxer.Remux(ctx, path, opts.Selection.Container, remuxProgress(opts))
	if err != nil {
		return nil, err
	}

	e.finished(opts)
	return &engine.Result{Title: info.Title, Filename: path}, nil
}

func (e *Engine) downloadAudio(ctx context.Context, opts engine.Options) (*engine.Result, error) {
	video, err := e.client.GetVideoContext(ctx, opts.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch video: %w", err)
	}

	format := pickAudioFormat(video.Formats)
	if format == nil {
		return nil, fmt.Errorf("%w: no audio stream", engine.ErrUnsupported)
	}

	stream, size, err := e.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, fmt.Errorf("start audio stream: %w", err)
	}
	defer stream.Close()

	path := outputPath(opts, video.Title, video.ID, platform.ExtFromMime(format.MimeType))
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}

	var w io.Writer = file
	if opts.Progress != nil {
		w = io.MultiWriter(file, &progressWriter{total: size, report: opts.Progress})
	}
	_, copyErr := io.Copy(w, stream)
	closeErr := file.Close()
	if copyErr != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write audio stream: %w", copyErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close output file: %w", closeErr)
	}

	path, err = e.remuxer.Remux(ctx, path, opts.Selection.Container, remuxProgress(opts))
	if err != nil {
		return nil, err
	}

	e.finished(opts)
	return &engine.Result{Title: video.Title, Filename: path}, nil
}

func (e *Engine) finished(opts engine.Options) {
	if opts.Progress != nil {
		opts.Progress(engine.Progress{Status: engine.StatusFinished})
	}
}

// outputPath names the file from the output template inside the output directory
func outputPath(opts engine.Options, title, id, ext string) string {
	tmpl := opts.OutputTemplate
	if tmpl == "" {
		tmpl = engine.DefaultOutputTemplate
	}
	return filepath.Join(opts.OutputDir, platform.OutputFilename(tmpl, title, id, ext))
}

// formatExt returns the extension of the format mediaURL was resolved from
func formatExt(formats []ytgettypes.Format, mediaURL string) string {
	u, err := url.Parse(mediaURL)
	if err != nil {
		return videoExt
	}
	itag := u.Query().Get("itag")
	for _, f := range formats {
		if itag != "" && strconv.Itoa(f.Itag) == itag {
			return platform.ExtFromMime(f.MimeType)
		}
	}
	return videoExt
}

// remuxProgress reports remux completion as processing progress
func remuxProgress(opts engine.Options) func(float64) {
	if opts.Progress == nil {
		return nil
	}
	return func(fraction float64) {
		opts.Progress(engine.Progress{Status: engine.StatusProcessing, Fraction: fraction})
	}
}

// Playlist lists playlist entries through the InnerTube browse API
func (e *Engine) Playlist(ctx context.Context, rawURL string) (*engine.PlaylistListing, error) {
	playlistID, err := platform.ExtractPlaylistID(rawURL)
	if err != nil {
		return nil, err
	}

	items, err := ytget.New().WithHTTPClient(e.httpClient).GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("list playlist: %w", err)
	}

	listing := &engine.PlaylistListing{
		ID:      playlistID,
		Entries: make([]engine.PlaylistEntry, 0, len(items)),
	}
	titles := make([]string, 0, len(items))
	for _, it := range items {
		listing.Entries = append(listing.Entries, engine.PlaylistEntry{
			ID:    it.VideoID,
			Title: it.Title,
			URL:   platform.VideoURL(it.VideoID),
		})
		titles = append(titles, it.Title)
	}
	listing.Title = platform.PlaylistTitle(titles)
	return listing, nil
}

// Classify maps library errors onto engine failure reasons
func (e *Engine) Classify(err error) string {
	switch {
	case errors.Is(err, yterrs.ErrPrivate), errors.Is(err, youtube.ErrVideoPrivate):
		return engine.ReasonPrivate
	case errors.Is(err, yterrs.ErrAgeRestricted), errors.Is(err, youtube.ErrLoginRequired):
		return engine.ReasonAgeLimit
	case errors.Is(err, yterrs.ErrGeoBlocked):
		return engine.ReasonGeoBlocked
	case errors.Is(err, yterrs.ErrRateLimited):
		return engine.ReasonRateLimited
	case errors.Is(err, yterrs.ErrVideoUnavailable), errors.Is(err, youtube.ErrNotPlayableInEmbed):
		return engine.ReasonUnavailable
	case errors.Is(err, youtube.ErrInvalidCharactersInVideoID), errors.Is(err, youtube.ErrVideoIDMinLength):
		return engine.ReasonUnsupported
	}
	var statusErr *youtube.ErrPlayabiltyStatus
	if errors.As(err, &statusErr) {
		return engine.ReasonUnavailable
	}
	return ""
}

func toMetadata(video *youtube.Video) *engine.Metadata {
	md := &engine.Metadata{
		ID:          video.ID,
		Title:       video.Title,
		Uploader:    video.Author,
		Duration:    video.Duration.Seconds(),
		ViewCount:   int64(video.Views),
		Description: video.Description,
		Formats:     make([]engine.Format, 0, len(video.Formats)),
	}
	if !video.PublishDate.IsZero() {
		md.UploadDate = video.PublishDate.Format(UploadDateLayout)
	}
	if n := len(video.Thumbnails); n > 0 {
		md.Thumbnail = video.Thumbnails[n-1].URL
	}
	for _, f := range video.Formats {
		md.Formats = append(md.Formats, engine.Format{
			ID:     strconv.Itoa(f.ItagNo),
			Ext:    platform.ExtFromMime(f.MimeType),
			Height: f.Height,
			Width:  f.Width,
			FPS:    float64(f.FPS),
			VCodec: codec(f.MimeType, f.Height > 0),
			ACodec: codec(f.MimeType, f.AudioChannels > 0),
		})
	}
	return md
}

// codec extracts the codecs="..." parameter when present, "none" otherwise
func codec(mime string, present bool) string {
	if !present {
		return "none"
	}
	i := strings.Index(mime, `codecs="`)
	if i < 0 {
		return ""
	}
	rest := mime[i+len(`codecs="`):]
	if j := strings.Index(rest, `"`); j >= 0 {
		rest = rest[:j]
	}
	return rest
}

// pickAudioFormat returns the highest bitrate audio-only stream, preferring MP4 audio
func pickAudioFormat(formats youtube.FormatList) *youtube.Format {
	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if f.AudioChannels == 0 || f.Height > 0 {
			continue
		}
		if best == nil || betterAudio(f, best) {
			best = f
		}
	}
	return best
}

func betterAudio(candidate, current *youtube.Format) bool {
	cm := strings.HasPrefix(candidate.MimeType, "audio/mp4")
	bm := strings.HasPrefix(current.MimeType, "audio/mp4")
	if cm != bm {
		return cm
	}
	return bitrate(candidate) > bitrate(current)
}

func bitrate(f *youtube.Format) int {
	if f.Bitrate > 0 {
		return f.Bitrate
	}
	return f.AverageBitrate
}

// progressWriter turns written byte counts into engine progress notifications
type progressWriter struct {
	total      int64
	downloaded int64
	report     func(engine.Progress)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.downloaded += int64(len(b))
	p.report(engine.Progress{
		Status:          engine.StatusDownloading,
		DownloadedBytes: p.downloaded,
		TotalBytes:      p.total,
	})
	return len(b), nil
}

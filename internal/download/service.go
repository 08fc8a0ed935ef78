package download

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ytget/yt-webui/internal/engine"
	xlog "github.com/ytget/yt-webui/internal/log"
	"github.com/ytget/yt-webui/internal/metrics"
	"github.com/ytget/yt-webui/internal/model"
	"github.com/ytget/yt-webui/internal/platform"
)

// TaskIDPrefix prefixes generated task IDs
const TaskIDPrefix = "task-"

// Options configures the service
type Options struct {
	// CookieFile is handed to the engine when the file exists.
	CookieFile string
	// OutputTemplate names downloaded files; defaults to engine.DefaultOutputTemplate.
	OutputTemplate string
}

// Service is the lookup and download shim over an engine
type Service struct {
	engine engine.Engine
	opts   atomic.Pointer[Options]
	logger zerolog.Logger
}

// NewService creates a new download service
func NewService(eng engine.Engine, opts Options) *Service {
	s := &Service{
		engine: eng,
		logger: xlog.WithComponent("download"),
	}
	s.SetOptions(opts)
	return s
}

// SetOptions replaces the options used by downloads started from now on
func (s *Service) SetOptions(opts Options) {
	if opts.CookieFile == "" {
		opts.CookieFile = platform.DefaultCookieFile
	}
	if opts.OutputTemplate == "" {
		opts.OutputTemplate = engine.DefaultOutputTemplate
	}
	s.opts.Store(&opts)
}

// Options returns the current options
func (s *Service) Options() Options {
	return *s.opts.Load()
}

// EngineName returns the name of the underlying engine
func (s *Service) EngineName() string {
	return s.engine.Name()
}

// Lookup fetches metadata for url and reshapes it into a display record
func (s *Service) Lookup(ctx context.Context, url string) (*model.VideoInfo, error) {
	md, err := s.engine.Lookup(ctx, url)
	metrics.RecordLookup(err)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("url", url).
			Str("engine", s.engine.Name()).
			Str("reason", engine.Reason(s.engine, err)).
			Msg("lookup failed")
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	return toVideoInfo(md), nil
}

// Download delegates one download to the engine. onProgress, when set, receives
// downloaded/total fractions from the engine's own progress loop.
func (s *Service) Download(ctx context.Context, req model.DownloadRequest, onProgress func(float64)) error {
	var hook func(engine.Progress, float64)
	if onProgress != nil {
		hook = func(p engine.Progress, fraction float64) {
			if p.Status == engine.StatusDownloading {
				onProgress(fraction)
			}
		}
	}
	_, err := s.download(ctx, req, hook)
	return err
}

// Run downloads into dir while driving task through its lifecycle. onUpdate
// receives a snapshot after every change. The task error never carries the
// engine cause.
func (s *Service) Run(ctx context.Context, task *model.DownloadTask, dir string, onUpdate func(model.DownloadTask)) error {
	var mu sync.Mutex
	emit := func() {
		if onUpdate != nil {
			onUpdate(*task)
		}
	}

	mu.Lock()
	task.Start()
	emit()
	mu.Unlock()

	req := model.DownloadRequest{URL: task.URL, Quality: task.Quality, OutputDir: dir}
	res, err := s.download(ctx, req, func(p engine.Progress, fraction float64) {
		mu.Lock()
		defer mu.Unlock()
		if task.Status.IsFinished() {
			return
		}
		if p.Status == engine.StatusProcessing {
			task.UpdateProcessing(fraction)
		} else {
			task.UpdateProgress(p.DownloadedBytes, p.TotalBytes, fraction)
		}
		emit()
	})

	mu.Lock()
	defer mu.Unlock()
	if err != nil {
		cause := err
		if errors.Is(err, ErrDownloadFailed) {
			cause = ErrDownloadFailed
		}
		task.Fail(cause)
		emit()
		return err
	}
	task.Title = res.Title
	task.Complete(res.Filename)
	emit()
	return nil
}

// QuickDownload downloads url at the best quality
func (s *Service) QuickDownload(ctx context.Context, url, dir string, onProgress func(float64)) error {
	return s.Download(ctx, model.DownloadRequest{URL: url, Quality: model.QualityBest, OutputDir: dir}, onProgress)
}

// ExtractAudio downloads the audio track of url only
func (s *Service) ExtractAudio(ctx context.Context, url, dir string) error {
	return s.Download(ctx, model.DownloadRequest{URL: url, Quality: model.QualityAudio, OutputDir: dir}, nil)
}

func (s *Service) download(ctx context.Context, req model.DownloadRequest, onProgress func(engine.Progress, float64)) (*engine.Result, error) {
	sel, err := SelectorFor(req.Quality)
	if err != nil {
		return nil, err
	}

	if err := platform.CreateDirectoryIfNotExists(req.OutputDir); err != nil {
		s.logger.Error().Err(err).Str("dir", req.OutputDir).Msg("failed to create output directory")
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}

	current := s.Options()
	opts := engine.Options{
		URL:            req.URL,
		Selection:      sel,
		OutputDir:      req.OutputDir,
		OutputTemplate: current.OutputTemplate,
		CookieFile:     platform.CookieFileIfExists(current.CookieFile),
	}
	if onProgress != nil {
		opts.Progress = func(p engine.Progress) {
			if fraction, ok := ProgressFraction(p); ok {
				onProgress(p, fraction)
			} else if fraction, ok := ProcessingFraction(p); ok {
				onProgress(p, fraction)
			}
		}
	}

	logger := s.logger.With().
		Str("url", req.URL).
		Str("quality", req.Quality.String()).
		Str("engine", s.engine.Name()).
		Logger()
	logger.Info().Str("dir", req.OutputDir).Bool("cookies", opts.CookieFile != "").Msg("download started")

	start := time.Now()
	done := metrics.DownloadStarted(req.Quality.String())
	res, err := s.engine.Download(ctx, opts)
	done(err)
	if err != nil {
		logger.Warn().Err(err).Str("reason", engine.Reason(s.engine, err)).Msg("download failed")
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	if res == nil {
		res = &engine.Result{}
	}

	logger.Info().
		Str("file", res.Filename).
		Dur("elapsed", time.Since(start)).
		Msg("download completed")
	return res, nil
}

// ListPlaylist lists the entries of a playlist URL
func (s *Service) ListPlaylist(ctx context.Context, url string) (*model.Playlist, error) {
	listing, err := s.engine.Playlist(ctx, url)
	metrics.RecordPlaylist(err)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("url", url).
			Str("reason", engine.Reason(s.engine, err)).
			Msg("playlist listing failed")
		return nil, fmt.Errorf("%w: %w", ErrPlaylistFailed, err)
	}

	playlist := model.NewPlaylist(url)
	playlist.ID = listing.ID
	playlist.Title = listing.Title
	for _, entry := range listing.Entries {
		playlist.AddVideo(&model.PlaylistVideo{
			ID:       entry.ID,
			Title:    entry.Title,
			URL:      entry.URL,
			Duration: model.FormatDuration(int(entry.Duration)),
		})
	}
	if playlist.Title == "" {
		titles := make([]string, 0, len(playlist.Videos))
		for _, v := range playlist.Videos {
			titles = append(titles, v.Title)
		}
		playlist.Title = platform.PlaylistTitle(titles)
	}
	playlist.UpdateStatus(model.PlaylistStatusReady)
	return playlist, nil
}

// DownloadPlaylist downloads pending entries one after the other. A failed entry is
// marked and the loop moves on. onItem receives a snapshot of every state change.
// It returns the number of completed entries.
func (s *Service) DownloadPlaylist(ctx context.Context, pl *model.Playlist, quality model.QualityTier, dir string, onItem func(model.PlaylistVideo)) (int, error) {
	if _, err := SelectorFor(quality); err != nil {
		return 0, err
	}

	var mu sync.Mutex
	emit := func(video *model.PlaylistVideo) {
		if onItem != nil {
			onItem(*video)
		}
	}

	mu.Lock()
	pl.Quality = quality
	pl.UpdateStatus(model.PlaylistStatusDownloading)
	pending := pl.PendingVideos()
	mu.Unlock()

	for _, video := range pending {
		if err := ctx.Err(); err != nil {
			mu.Lock()
			defer mu.Unlock()
			return pl.Downloaded, err
		}

		id := video.ID
		req := model.DownloadRequest{URL: video.URL, Quality: quality, OutputDir: dir}
		res, err := s.download(ctx, req, func(_ engine.Progress, fraction float64) {
			mu.Lock()
			defer mu.Unlock()
			pl.UpdateVideoProgress(id, fraction)
			emit(pl.Video(id))
		})

		mu.Lock()
		if err != nil {
			pl.MarkVideoFailed(id, ErrDownloadFailed)
		} else {
			pl.MarkVideoCompleted(id, res.Filename)
		}
		emit(pl.Video(id))
		mu.Unlock()
	}

	mu.Lock()
	defer mu.Unlock()
	if pl.Downloaded == 0 && pl.TotalVideos > 0 {
		pl.Error = ErrDownloadFailed.Error()
		pl.UpdateStatus(model.PlaylistStatusError)
	} else {
		pl.UpdateStatus(model.PlaylistStatusCompleted)
	}
	s.logger.Info().
		Str("playlist", pl.ID).
		Int("downloaded", pl.Downloaded).
		Int("failed", pl.Failed).
		Msg("playlist finished")
	return pl.Downloaded, nil
}

// NewTask creates a tracked task for a download request
func NewTask(req model.DownloadRequest) *model.DownloadTask {
	return model.NewDownloadTask(generateTaskID(), req.URL, req.Quality)
}

func toVideoInfo(md *engine.Metadata) *model.VideoInfo {
	info := &model.VideoInfo{
		Title:       md.Title,
		Uploader:    md.Uploader,
		Duration:    int(md.Duration),
		ViewCount:   md.ViewCount,
		UploadDate:  md.UploadDate,
		Description: model.TruncateDescription(md.Description),
		Thumbnail:   md.Thumbnail,
		Formats:     make([]model.StreamFormat, 0, len(md.Formats)),
	}
	if info.Title == "" {
		info.Title = model.UnknownTitle
	}
	if info.Uploader == "" {
		info.Uploader = model.UnknownUploader
	}
	for _, f := range md.Formats {
		info.Formats = append(info.Formats, model.StreamFormat{
			ID:     f.ID,
			Ext:    f.Ext,
			Height: f.Height,
			FPS:    f.FPS,
		})
	}
	return info
}

// generateTaskID generates a unique, time ordered task ID
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}

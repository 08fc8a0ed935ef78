package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	xlog "github.com/ytget/yt-webui/internal/log"
)

// ReloadDebounce coalesces bursts of file events into one reload
const ReloadDebounce = 500 * time.Millisecond

// Holder gives concurrent readers the current settings and swaps them on reload
type Holder struct {
	path    string
	current atomic.Pointer[Settings]
	logger  zerolog.Logger

	mu        sync.Mutex
	listeners []func(Settings)
}

// NewHolder creates a holder with initial settings loaded from path
func NewHolder(path string, initial Settings) *Holder {
	h := &Holder{
		path:   path,
		logger: xlog.WithComponent("config"),
	}
	h.current.Store(&initial)
	return h
}

// Get returns the current settings
func (h *Holder) Get() Settings {
	return *h.current.Load()
}

// Path returns the watched config file path
func (h *Holder) Path() string {
	return h.path
}

// OnChange registers fn to be called after every successful reload
func (h *Holder) OnChange(fn func(Settings)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// Reload re-reads the config file. Invalid settings are rejected and the
// previous ones kept.
func (h *Holder) Reload() error {
	next, err := Load(h.path)
	if err != nil {
		h.logger.Error().Err(err).Str("path", h.path).Msg("config reload failed")
		return err
	}

	prev := h.current.Swap(&next)
	h.logChanges(*prev, next)

	h.mu.Lock()
	listeners := append([]func(Settings){}, h.listeners...)
	h.mu.Unlock()
	for _, fn := range listeners {
		fn(next)
	}
	return nil
}

// Watch reloads the settings whenever the config file changes, until ctx is done.
// The parent directory is watched so editors that replace the file are seen.
func (h *Holder) Watch(ctx context.Context) error {
	if h.path == "" {
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(h.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch config dir: %w", err)
	}
	h.logger.Info().Str("path", target).Msg("watching config file")

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(ReloadDebounce, func() {
				_ = h.Reload()
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			h.logger.Warn().Err(err).Msg("config watcher error")
		}
	}
}

func (h *Holder) logChanges(old, next Settings) {
	if old.DownloadDir != next.DownloadDir {
		h.logger.Info().Str("old", old.DownloadDir).Str("new", next.DownloadDir).Msg("config changed: download_dir")
	}
	if old.DefaultQuality != next.DefaultQuality {
		h.logger.Info().Str("old", old.DefaultQuality).Str("new", next.DefaultQuality).Msg("config changed: default_quality")
	}
	if old.Language != next.Language {
		h.logger.Info().Str("old", old.Language).Str("new", next.Language).Msg("config changed: language")
	}
	if old.CookieFile != next.CookieFile {
		h.logger.Info().Str("old", old.CookieFile).Str("new", next.CookieFile).Msg("config changed: cookie_file")
	}
	if old.FilenameTemplate != next.FilenameTemplate {
		h.logger.Info().Str("old", old.FilenameTemplate).Str("new", next.FilenameTemplate).Msg("config changed: filename_template")
	}
	if old.LogLevel != next.LogLevel {
		h.logger.Info().Str("old", old.LogLevel).Str("new", next.LogLevel).Msg("config changed: log_level")
	}
	if old.ProgressInterval != next.ProgressInterval {
		h.logger.Info().Dur("old", old.ProgressInterval).Dur("new", next.ProgressInterval).Msg("config changed: progress_interval")
	}
	if old.Engine != next.Engine || old.ListenAddr != next.ListenAddr || old.RateLimitPerMinute != next.RateLimitPerMinute {
		h.logger.Warn().Msg("engine, listen_addr and rate_limit_per_minute changes take effect after restart")
	}
}

package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/ytget/yt-webui/internal/config"
	"github.com/ytget/yt-webui/internal/download"
	xlog "github.com/ytget/yt-webui/internal/log"
	"github.com/ytget/yt-webui/internal/model"
	"github.com/ytget/yt-webui/internal/platform"
	"github.com/ytget/yt-webui/internal/session"
)

// PreviewQualityLimit is how many quality labels the preview shows
const PreviewQualityLimit = 4

const maxBodyBytes = 64 << 10

type urlRequest struct {
	URL string `json:"url"`
	Dir string `json:"dir,omitempty"`
}

type previewResponse struct {
	Title           string   `json:"title"`
	Uploader        string   `json:"uploader"`
	Duration        string   `json:"duration"`
	DurationSeconds int      `json:"duration_seconds"`
	Views           string   `json:"views"`
	ViewCount       int64    `json:"view_count"`
	UploadDate      string   `json:"upload_date"`
	Description     string   `json:"description"`
	Thumbnail       string   `json:"thumbnail"`
	Qualities       []string `json:"qualities"`
}

type resultResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Downloads   int    `json:"downloads"`
	SuccessRate string `json:"success_rate"`
}

type playlistResponse struct {
	ID     string                `json:"id"`
	Title  string                `json:"title"`
	Count  int                   `json:"count"`
	Videos []model.PlaylistVideo `json:"videos"`
}

type cookiesResponse struct {
	*platform.CookiesInfo
	Size     string `json:"size,omitempty"`
	Modified string `json:"modified,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "engine": s.svc.EngineName()})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	cfg := s.cfg.Get()
	loc := s.localization(r, cfg)

	var req urlRequest
	if !decodeBody(w, r, &req, loc) {
		return
	}
	url, ok := requireURL(w, loc, req.URL)
	if !ok {
		return
	}

	info, err := s.svc.Lookup(context.WithoutCancel(r.Context()), url)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: loc.GetText(KeyPreviewFailed)})
		return
	}

	qualities := model.QualityLabels(info.Formats)
	if len(qualities) > PreviewQualityLimit {
		qualities = qualities[:PreviewQualityLimit]
	}
	writeJSON(w, http.StatusOK, previewResponse{
		Title:           info.Title,
		Uploader:        info.Uploader,
		Duration:        model.FormatDuration(info.Duration),
		DurationSeconds: info.Duration,
		Views:           model.FormatNumber(info.ViewCount),
		ViewCount:       info.ViewCount,
		UploadDate:      model.FormatUploadDate(info.UploadDate),
		Description:     info.Description,
		Thumbnail:       info.Thumbnail,
		Qualities:       qualities,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	s.streamDownload(w, r, "", KeyDownloadCompleted)
}

func (s *Server) handleQuick(w http.ResponseWriter, r *http.Request) {
	s.streamDownload(w, r, model.QualityBest, KeyQuickCompleted)
}

// streamDownload runs one download and streams task snapshots. A fixed quality
// overrides the quality query parameter.
func (s *Server) streamDownload(w http.ResponseWriter, r *http.Request, fixed model.QualityTier, doneKey string) {
	cfg := s.cfg.Get()
	loc := s.localization(r, cfg)
	q := r.URL.Query()

	url, ok := requireURL(w, loc, q.Get("url"))
	if !ok {
		return
	}
	quality := fixed
	if quality == "" {
		if quality, ok = requireQuality(w, loc, q.Get("quality"), cfg); !ok {
			return
		}
	}
	dir, ok := requireDir(w, loc, q.Get("dir"), cfg)
	if !ok {
		return
	}

	stream, err := newEventStream(w, cfg.GetProgressInterval())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	task := download.NewTask(model.DownloadRequest{URL: url, Quality: quality, OutputDir: dir})
	var (
		mu   sync.Mutex
		last model.DownloadTask
	)
	err = s.svc.Run(context.WithoutCancel(r.Context()), task, dir, func(snapshot model.DownloadTask) {
		mu.Lock()
		repeated := snapshot.Status == last.Status
		last = snapshot
		mu.Unlock()
		if repeated && snapshot.Status.IsActive() {
			stream.Throttled(eventProgress, snapshot)
		} else {
			_ = stream.Send(eventProgress, snapshot)
		}
	})

	mu.Lock()
	final := last
	mu.Unlock()
	stats := s.sessions.Record(session.FromRequest(r), err == nil)
	done := resultResponse{Success: err == nil, Downloads: stats.Downloads, SuccessRate: stats.SuccessRate}
	if err != nil {
		done.Message = loc.GetText(KeyDownloadFailed)
	} else {
		done.Message = loc.GetText(doneKey) + " " + loc.GetText(KeyFileSavedTo) + ": " + dir
	}
	logger := xlog.FromContext(r.Context(), "web")
	logger.Debug().Str("task", final.ID).Str("line", final.StatusLine()).Msg("download stream finished")
	_ = stream.Send(eventDone, done)
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	cfg := s.cfg.Get()
	loc := s.localization(r, cfg)

	var req urlRequest
	if !decodeBody(w, r, &req, loc) {
		return
	}
	url, ok := requireURL(w, loc, req.URL)
	if !ok {
		return
	}
	dir, ok := requireDir(w, loc, req.Dir, cfg)
	if !ok {
		return
	}

	// audio extractions are not counted as session downloads
	err := s.svc.ExtractAudio(context.WithoutCancel(r.Context()), url, dir)
	stats := s.sessions.Stats(session.FromRequest(r))
	resp := resultResponse{Success: err == nil, Downloads: stats.Downloads, SuccessRate: stats.SuccessRate}
	if err != nil {
		resp.Message = loc.GetText(KeyAudioFailed)
	} else {
		resp.Message = loc.GetText(KeyAudioCompleted) + " " + loc.GetText(KeyFileSavedTo) + ": " + dir
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	cfg := s.cfg.Get()
	loc := s.localization(r, cfg)

	var req urlRequest
	if !decodeBody(w, r, &req, loc) {
		return
	}
	url, ok := requirePlaylistURL(w, loc, req.URL)
	if !ok {
		return
	}

	pl, err := s.svc.ListPlaylist(context.WithoutCancel(r.Context()), url)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: loc.GetText(KeyPlaylistFailed)})
		return
	}
	writeJSON(w, http.StatusOK, toPlaylistResponse(pl))
}

func (s *Server) handlePlaylistDownload(w http.ResponseWriter, r *http.Request) {
	cfg := s.cfg.Get()
	loc := s.localization(r, cfg)
	q := r.URL.Query()

	url, ok := requirePlaylistURL(w, loc, q.Get("url"))
	if !ok {
		return
	}
	quality, ok := requireQuality(w, loc, q.Get("quality"), cfg)
	if !ok {
		return
	}
	dir, ok := requireDir(w, loc, q.Get("dir"), cfg)
	if !ok {
		return
	}

	stream, err := newEventStream(w, cfg.GetProgressInterval())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	sid := session.FromRequest(r)
	ctx := context.WithoutCancel(r.Context())
	pl, err := s.svc.ListPlaylist(ctx, url)
	if err != nil {
		stats := s.sessions.Stats(sid)
		_ = stream.Send(eventDone, resultResponse{
			Message:     loc.GetText(KeyPlaylistFailed),
			Downloads:   stats.Downloads,
			SuccessRate: stats.SuccessRate,
		})
		return
	}
	_ = stream.Send(eventItem, toPlaylistResponse(pl))

	completed, err := s.svc.DownloadPlaylist(ctx, pl, quality, dir, func(v model.PlaylistVideo) {
		switch v.Status {
		case model.VideoStatusCompleted, model.VideoStatusError:
			s.sessions.Record(sid, v.Status == model.VideoStatusCompleted)
			_ = stream.Send(eventItem, v)
		default:
			stream.Throttled(eventItem, v)
		}
	})

	stats := s.sessions.Stats(sid)
	done := resultResponse{Success: err == nil && completed > 0, Downloads: stats.Downloads, SuccessRate: stats.SuccessRate}
	if done.Success {
		done.Message = loc.GetText(KeyPlaylistDownloaded) + ": " + humanize.Comma(int64(completed)) + "/" + humanize.Comma(int64(pl.TotalVideos)) +
			" " + loc.GetText(KeyFileSavedTo) + ": " + dir
	} else {
		done.Message = loc.GetText(KeyDownloadFailed)
	}
	_ = stream.Send(eventDone, done)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessions.Stats(session.FromRequest(r)))
}

func (s *Server) handleCookies(w http.ResponseWriter, r *http.Request) {
	settings := s.cfg.Get()
	info, err := platform.CheckCookiesFile(settings.GetCookieFile())
	if err != nil {
		logger := xlog.FromContext(r.Context(), "web")
		logger.Warn().Err(err).Msg("cookie file check failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	resp := cookiesResponse{CookiesInfo: info}
	if info.Exists {
		resp.Size = humanize.Bytes(uint64(info.SizeBytes))
		resp.Modified = humanize.Time(info.LastModified)
	}
	writeJSON(w, http.StatusOK, resp)
}

func toPlaylistResponse(pl *model.Playlist) playlistResponse {
	videos := make([]model.PlaylistVideo, 0, len(pl.Videos))
	for _, v := range pl.Videos {
		videos = append(videos, *v)
	}
	return playlistResponse{ID: pl.ID, Title: pl.Title, Count: pl.TotalVideos, Videos: videos}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any, loc *Localization) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: loc.GetText(KeyPleaseEnterURL)})
		return false
	}
	return true
}

func requireURL(w http.ResponseWriter, loc *Localization, raw string) (string, bool) {
	url, err := platform.ValidateURL(raw)
	switch {
	case err == nil:
		return url, true
	case errors.Is(err, platform.ErrEmptyURL):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: loc.GetText(KeyPleaseEnterURL)})
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: loc.GetText(KeyInvalidURL)})
	}
	return "", false
}

func requirePlaylistURL(w http.ResponseWriter, loc *Localization, raw string) (string, bool) {
	url, ok := requireURL(w, loc, raw)
	if !ok {
		return "", false
	}
	if !platform.IsPlaylistURL(url) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: loc.GetText(KeyNotPlaylist)})
		return "", false
	}
	return url, true
}

func requireQuality(w http.ResponseWriter, loc *Localization, raw string, cfg config.Settings) (model.QualityTier, bool) {
	if strings.TrimSpace(raw) == "" {
		return cfg.GetDefaultQuality(), true
	}
	q, err := model.ParseQualityTier(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: loc.GetText(KeyUnknownQuality)})
		return "", false
	}
	return q, true
}

func requireDir(w http.ResponseWriter, loc *Localization, raw string, cfg config.Settings) (string, bool) {
	dir, err := platform.ResolveDownloadDir(raw, cfg.GetDownloadDirectory())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: loc.GetText(KeyInvalidDirectory)})
		return "", false
	}
	return dir, true
}

package model

import (
	"time"
)

// PlaylistStatus represents the current status of a playlist batch
type PlaylistStatus string

const (
	PlaylistStatusListing     PlaylistStatus = "listing"
	PlaylistStatusReady       PlaylistStatus = "ready"
	PlaylistStatusDownloading PlaylistStatus = "downloading"
	PlaylistStatusCompleted   PlaylistStatus = "completed"
	PlaylistStatusError       PlaylistStatus = "error"
)

// VideoStatus represents the status of a single entry in a playlist batch
type VideoStatus string

const (
	VideoStatusPending     VideoStatus = "pending"
	VideoStatusDownloading VideoStatus = "downloading"
	VideoStatusCompleted   VideoStatus = "completed"
	VideoStatusError       VideoStatus = "error"
)

// PlaylistVideo is one entry of a flat playlist listing
type PlaylistVideo struct {
	ID         string      `json:"id"`
	Index      int         `json:"index"`
	Title      string      `json:"title"`
	Duration   string      `json:"duration"`
	URL        string      `json:"url"`
	Status     VideoStatus `json:"status"`
	Progress   float64     `json:"progress"`
	Error      string      `json:"error,omitempty"`
	OutputPath string      `json:"output_path,omitempty"`
}

// Playlist is the listing of a playlist URL plus batch download state
type Playlist struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	URL         string           `json:"url"`
	Quality     QualityTier      `json:"quality"`
	Videos      []*PlaylistVideo `json:"videos"`
	Status      PlaylistStatus   `json:"status"`
	TotalVideos int              `json:"total_videos"`
	Downloaded  int              `json:"downloaded"`
	Failed      int              `json:"failed"`
	Error       string           `json:"error,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewPlaylist creates an empty playlist in listing state
func NewPlaylist(url string) *Playlist {
	now := time.Now()
	return &Playlist{
		URL:       url,
		Quality:   QualityBest,
		Status:    PlaylistStatusListing,
		Videos:    make([]*PlaylistVideo, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddVideo appends an entry and assigns its 1-based index
func (p *Playlist) AddVideo(video *PlaylistVideo) {
	if video.Status == "" {
		video.Status = VideoStatusPending
	}
	video.Index = len(p.Videos) + 1
	p.Videos = append(p.Videos, video)
	p.TotalVideos = len(p.Videos)
	p.UpdatedAt = time.Now()
}

// UpdateStatus updates the playlist status
func (p *Playlist) UpdateStatus(status PlaylistStatus) {
	p.Status = status
	p.UpdatedAt = time.Now()
}

// Video returns the entry with the given ID, nil if absent
func (p *Playlist) Video(videoID string) *PlaylistVideo {
	for _, video := range p.Videos {
		if video.ID == videoID {
			return video
		}
	}
	return nil
}

// MarkVideoCompleted records a finished entry and bumps the batch counter
func (p *Playlist) MarkVideoCompleted(videoID, outputPath string) {
	video := p.Video(videoID)
	if video == nil || video.Status == VideoStatusCompleted {
		return
	}
	video.Status = VideoStatusCompleted
	video.Progress = 1
	video.OutputPath = outputPath
	p.Downloaded++
	p.UpdatedAt = time.Now()
}

// MarkVideoFailed records a failed entry; the batch continues with the next one
func (p *Playlist) MarkVideoFailed(videoID string, err error) {
	video := p.Video(videoID)
	if video == nil || video.Status == VideoStatusError {
		return
	}
	video.Status = VideoStatusError
	if err != nil {
		video.Error = err.Error()
	}
	p.Failed++
	p.UpdatedAt = time.Now()
}

// UpdateVideoProgress updates the progress of an entry that has not finished yet
func (p *Playlist) UpdateVideoProgress(videoID string, progress float64) {
	video := p.Video(videoID)
	if video == nil || video.Status == VideoStatusCompleted || video.Status == VideoStatusError {
		return
	}
	video.Status = VideoStatusDownloading
	video.Progress = progress
	p.UpdatedAt = time.Now()
}

// PendingVideos returns all entries not yet attempted
func (p *Playlist) PendingVideos() []*PlaylistVideo {
	var pending []*PlaylistVideo
	for _, video := range p.Videos {
		if video.Status == VideoStatusPending {
			pending = append(pending, video)
		}
	}
	return pending
}

// DownloadProgress returns the share of attempted entries as a 0..1 fraction
func (p *Playlist) DownloadProgress() float64 {
	if p.TotalVideos == 0 {
		return 0
	}
	return float64(p.Downloaded+p.Failed) / float64(p.TotalVideos)
}

// HasErrors checks if any entry failed
func (p *Playlist) HasErrors() bool {
	return p.Failed > 0
}

package model

import (
	"fmt"
	"strings"
	"time"
)

// DownloadTask tracks one delegated download for progress reporting
type DownloadTask struct {
	ID              string      `json:"id"`
	URL             string      `json:"url"`
	Quality         QualityTier `json:"quality"`
	Status          TaskStatus  `json:"status"`
	Progress        float64     `json:"progress"` // 0.0 to 1.0
	DownloadedBytes int64       `json:"downloaded_bytes"`
	TotalBytes      int64       `json:"total_bytes"`
	ETASec          int         `json:"eta_seconds"` // -1 if unknown
	Title           string      `json:"title,omitempty"`
	OutputPath      string      `json:"output_path,omitempty"`
	LastError       string      `json:"error,omitempty"`
	StartedAt       time.Time   `json:"started_at"`
	FinishedAt      time.Time   `json:"finished_at,omitempty"`
}

// NewDownloadTask creates a pending task
func NewDownloadTask(id, url string, quality QualityTier) *DownloadTask {
	return &DownloadTask{
		ID:      id,
		URL:     url,
		Quality: quality,
		Status:  TaskStatusPending,
		ETASec:  -1,
	}
}

// Start moves the task into starting state
func (dt *DownloadTask) Start() {
	dt.Status = TaskStatusStarting
	dt.StartedAt = time.Now()
}

// UpdateProgress records byte counters and the derived fraction. The ETA is
// extrapolated from the average rate since Start.
func (dt *DownloadTask) UpdateProgress(downloaded, total int64, fraction float64) {
	dt.Status = TaskStatusDownloading
	dt.DownloadedBytes = downloaded
	dt.TotalBytes = total
	dt.Progress = fraction
	dt.ETASec = -1
	if !dt.StartedAt.IsZero() {
		dt.ETASec = EstimateETA(time.Since(dt.StartedAt), fraction)
	}
}

// UpdateProcessing records post-processing (remux) progress
func (dt *DownloadTask) UpdateProcessing(fraction float64) {
	dt.Status = TaskStatusProcessing
	dt.Progress = fraction
	dt.ETASec = -1
}

// EstimateETA returns the seconds left when fraction of the work took elapsed,
// or -1 when nothing can be extrapolated yet.
func EstimateETA(elapsed time.Duration, fraction float64) int {
	if fraction >= 1 {
		return 0
	}
	if fraction <= 0 || elapsed <= 0 {
		return -1
	}
	remaining := time.Duration(float64(elapsed) * (1 - fraction) / fraction)
	return int(remaining.Round(time.Second) / time.Second)
}

// ETAString returns ETA formatted as mm:ss or hh:mm:ss, or "-" if unknown
func (dt *DownloadTask) ETAString() string {
	if dt.ETASec <= 0 {
		return "-"
	}

	hours := dt.ETASec / 3600
	minutes := (dt.ETASec % 3600) / 60
	seconds := dt.ETASec % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// Complete marks the task as finished successfully
func (dt *DownloadTask) Complete(outputPath string) {
	dt.Status = TaskStatusCompleted
	dt.Progress = 1
	dt.ETASec = 0
	dt.OutputPath = outputPath
	dt.FinishedAt = time.Now()
}

// Fail marks the task as failed
func (dt *DownloadTask) Fail(err error) {
	dt.Status = TaskStatusError
	if err != nil {
		dt.LastError = err.Error()
	}
	dt.FinishedAt = time.Now()
}

// Percent returns progress as a whole percentage
func (dt *DownloadTask) Percent() int {
	return int(dt.Progress * 100)
}

// Elapsed returns the run time, up to now for unfinished tasks
func (dt *DownloadTask) Elapsed() time.Duration {
	if dt.StartedAt.IsZero() {
		return 0
	}
	if dt.FinishedAt.IsZero() {
		return time.Since(dt.StartedAt)
	}
	return dt.FinishedAt.Sub(dt.StartedAt)
}

// StatusLine renders a short human readable progress summary
func (dt *DownloadTask) StatusLine() string {
	switch dt.Status {
	case TaskStatusDownloading:
		line := fmt.Sprintf("%s downloading %s", FormatPercent(dt.Progress), dt.DisplayTitle())
		if dt.ETASec > 0 {
			line += ", ETA " + dt.ETAString()
		}
		return line
	case TaskStatusProcessing:
		return fmt.Sprintf("%s processing %s", FormatPercent(dt.Progress), dt.DisplayTitle())
	case TaskStatusCompleted:
		return "completed " + dt.DisplayTitle()
	case TaskStatusError:
		return "error: " + dt.LastError
	default:
		return dt.Status.String()
	}
}

// DisplayTitle returns title, filename, or URL in order of preference
func (dt *DownloadTask) DisplayTitle() string {
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		return dt.Title
	}

	if dt.OutputPath != "" {
		parts := strings.FieldsFunc(dt.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) == 0 {
			return dt.URL
		}
		name := parts[len(parts)-1]
		if idx := strings.LastIndex(name, "."); idx > 0 {
			name = name[:idx]
		}
		return name
	}

	return dt.URL
}

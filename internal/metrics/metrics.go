// Package metrics exposes Prometheus collectors for lookup and download activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	lookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytwebui_lookups_total",
		Help: "Metadata lookup attempts by result",
	}, []string{"result"})

	downloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytwebui_downloads_total",
		Help: "Delegated downloads by quality tier and result",
	}, []string{"tier", "result"})

	playlistsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytwebui_playlists_total",
		Help: "Playlist listings by result",
	}, []string{"result"})

	downloadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ytwebui_download_duration_seconds",
		Help:    "Wall time of delegated downloads",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
	}, []string{"tier"})

	activeDownloads = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ytwebui_active_downloads",
		Help: "Downloads currently delegated to the engine",
	})
)

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

// RecordLookup counts one lookup outcome.
func RecordLookup(err error) {
	lookupsTotal.WithLabelValues(result(err)).Inc()
}

// RecordPlaylist counts one playlist listing outcome.
func RecordPlaylist(err error) {
	playlistsTotal.WithLabelValues(result(err)).Inc()
}

// DownloadStarted bumps the active gauge and returns the completion hook.
func DownloadStarted(tier string) func(err error) {
	activeDownloads.Inc()
	start := time.Now()
	return func(err error) {
		activeDownloads.Dec()
		downloadsTotal.WithLabelValues(tier, result(err)).Inc()
		downloadDuration.WithLabelValues(tier).Observe(time.Since(start).Seconds())
	}
}

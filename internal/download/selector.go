package download

import (
	"fmt"

	"github.com/ytget/yt-webui/internal/engine"
	"github.com/ytget/yt-webui/internal/model"
)

// Format selection expressions
const (
	SelectorBest      = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"
	SelectorAudio     = "bestaudio[ext=m4a]/bestaudio/best"
	selectorHeightFmt = "bestvideo[height<=%d][ext=mp4]+bestaudio[ext=m4a]/best[height<=%d][ext=mp4]/best"
)

// Output containers
const (
	ContainerVideo = "mp4"
	ContainerAudio = "m4a"
)

// SelectorFor maps a quality tier to the engine selection
func SelectorFor(q model.QualityTier) (engine.Selection, error) {
	switch {
	case q == model.QualityBest:
		return engine.Selection{Expression: SelectorBest, Container: ContainerVideo}, nil
	case q.IsAudio():
		return engine.Selection{Expression: SelectorAudio, AudioOnly: true, Container: ContainerAudio}, nil
	case q.Valid() && q.Height() > 0:
		h := q.Height()
		return engine.Selection{
			Expression: fmt.Sprintf(selectorHeightFmt, h, h),
			MaxHeight:  h,
			Container:  ContainerVideo,
		}, nil
	default:
		return engine.Selection{}, fmt.Errorf("%w: %q", model.ErrUnknownQuality, string(q))
	}
}

// ProgressFraction converts an engine progress update into a 0..1 fraction.
// Only downloading updates with a known total are reportable.
func ProgressFraction(p engine.Progress) (float64, bool) {
	if p.Status != engine.StatusDownloading || p.TotalBytes <= 0 {
		return 0, false
	}
	return clamp(float64(p.DownloadedBytes) / float64(p.TotalBytes)), true
}

// ProcessingFraction returns the post-processing fraction of a processing update
func ProcessingFraction(p engine.Progress) (float64, bool) {
	if p.Status != engine.StatusProcessing {
		return 0, false
	}
	return clamp(p.Fraction), true
}

func clamp(fraction float64) float64 {
	switch {
	case fraction < 0:
		return 0
	case fraction > 1:
		return 1
	}
	return fraction
}

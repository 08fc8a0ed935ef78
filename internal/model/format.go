package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Display defaults
const (
	UnknownDuration     = "Unknown"
	UnknownTitle        = "Unknown Title"
	UnknownUploader     = "Unknown"
	NoDescription       = "No description"
	DescriptionLimit    = 200
	DescriptionEllipsis = "..."
	UploadDateLayout    = "20060102"
	DisplayDateLayout   = "January 02, 2006"
)

// Time formatting constants
const (
	SecondsPerHour   = 3600
	SecondsPerMinute = 60
)

// FormatDuration renders seconds as "1h 1m 5s", "2m 5s" or "45s"
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return UnknownDuration
	}

	hours := seconds / SecondsPerHour
	minutes := (seconds % SecondsPerHour) / SecondsPerMinute
	secs := seconds % SecondsPerMinute

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

// FormatNumber renders large counts with K, M and B suffixes
func FormatNumber(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// FormatUploadDate turns "20240131" into "January 31, 2024".
// Input that does not parse is returned unchanged.
func FormatUploadDate(date string) string {
	if date == "" {
		return ""
	}
	t, err := time.Parse(UploadDateLayout, date)
	if err != nil {
		return date
	}
	return t.Format(DisplayDateLayout)
}

// FormatPercent renders a 0..1 fraction as "12.3%"
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// TruncateDescription keeps the first DescriptionLimit characters and marks the cut
func TruncateDescription(desc string) string {
	if desc == "" {
		return NoDescription
	}
	runes := []rune(desc)
	if len(runes) > DescriptionLimit {
		runes = runes[:DescriptionLimit]
	}
	return string(runes) + DescriptionEllipsis
}

// QualityLabels derives the distinct "HEIGHTp" labels (with " (FPSfps)" when the
// frame rate is known) sorted by height, highest first.
func QualityLabels(formats []StreamFormat) []string {
	heights := make(map[string]int)
	for _, f := range formats {
		if f.Height <= 0 {
			continue
		}
		label := strconv.Itoa(f.Height) + "p"
		if f.FPS > 0 {
			label += " (" + strconv.FormatFloat(f.FPS, 'f', -1, 64) + "fps)"
		}
		heights[label] = f.Height
	}

	labels := make([]string, 0, len(heights))
	for label := range heights {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if heights[labels[i]] != heights[labels[j]] {
			return heights[labels[i]] > heights[labels[j]]
		}
		return strings.Compare(labels[i], labels[j]) > 0
	})
	return labels
}

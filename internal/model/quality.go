package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// QualityTier is a user-facing download preset
type QualityTier string

const (
	QualityBest  QualityTier = "best"
	Quality1080  QualityTier = "1080p"
	Quality720   QualityTier = "720p"
	Quality480   QualityTier = "480p"
	Quality360   QualityTier = "360p"
	QualityAudio QualityTier = "audio"
)

// ErrUnknownQuality is returned for tiers outside the fixed enumeration
var ErrUnknownQuality = errors.New("unknown quality tier")

// QualityTiers returns the tiers in the order they are offered to the user
func QualityTiers() []QualityTier {
	return []QualityTier{QualityBest, Quality1080, Quality720, Quality480, Quality360, QualityAudio}
}

// ParseQualityTier maps user input onto a known tier. Empty input means best.
func ParseQualityTier(s string) (QualityTier, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return QualityBest, nil
	}
	for _, q := range QualityTiers() {
		if string(q) == s {
			return q, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownQuality, s)
}

// Valid reports whether the tier belongs to the enumeration
func (q QualityTier) Valid() bool {
	_, err := ParseQualityTier(string(q))
	return err == nil && q != ""
}

// IsAudio reports whether the tier requests an audio-only download
func (q QualityTier) IsAudio() bool {
	return q == QualityAudio
}

// Height returns the height cap of a numeric tier, 0 for best and audio
func (q QualityTier) Height() int {
	if q == QualityBest || q == QualityAudio {
		return 0
	}
	h, err := strconv.Atoi(strings.TrimSuffix(string(q), "p"))
	if err != nil {
		return 0
	}
	return h
}

// String returns the string representation of QualityTier
func (q QualityTier) String() string {
	return string(q)
}

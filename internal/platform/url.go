package platform

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// URL errors
var (
	ErrEmptyURL    = errors.New("URL is empty")
	ErrInvalidURL  = errors.New("URL must start with http:// or https://")
	ErrNotPlaylist = errors.New("URL does not contain playlist parameter")
)

// URL parameters
const (
	PlaylistURLParam = "list"
)

// URL templates
const (
	YouTubeVideoURLTemplate    = "https://www.youtube.com/watch?v=%s"
	YouTubePlaylistURLTemplate = "https://www.youtube.com/playlist?list=%s"
)

// Playlist title constants
const (
	DefaultPlaylistName = "Unknown Playlist"
	PlaylistSuffix      = " Playlist"
	MinPrefixLength     = 10
)

// CleanURL strips line breaks and surrounding whitespace pasted along with a URL
func CleanURL(input string) string {
	cleaned := strings.ReplaceAll(input, "\n", "")
	cleaned = strings.ReplaceAll(cleaned, "\r", "")
	cleaned = strings.ReplaceAll(cleaned, "\t", " ")
	return strings.TrimSpace(cleaned)
}

// ValidateURL validates a user supplied URL and returns its cleaned form
func ValidateURL(input string) (string, error) {
	cleaned := CleanURL(input)
	if cleaned == "" {
		return "", ErrEmptyURL
	}

	parsedURL, err := url.Parse(cleaned)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", ErrInvalidURL
	}
	if parsedURL.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	return cleaned, nil
}

// IsPlaylistURL reports whether the URL carries a playlist parameter
func IsPlaylistURL(rawURL string) bool {
	id, err := ExtractPlaylistID(rawURL)
	return err == nil && id != ""
}

// ExtractPlaylistID extracts the playlist ID from a YouTube URL.
// Supported forms:
//   - https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&start_radio=1
//   - https://www.youtube.com/playlist?list=PLAYLIST_ID
func ExtractPlaylistID(rawURL string) (string, error) {
	parsedURL, err := url.Parse(CleanURL(rawURL))
	if err != nil {
		return "", fmt.Errorf("could not parse URL: %w", err)
	}
	id := parsedURL.Query().Get(PlaylistURLParam)
	if id == "" {
		return "", ErrNotPlaylist
	}
	return id, nil
}

// VideoURL builds the watch URL for a video ID
func VideoURL(videoID string) string {
	return fmt.Sprintf(YouTubeVideoURLTemplate, videoID)
}

// PlaylistURL builds the canonical playlist URL for a playlist ID
func PlaylistURL(playlistID string) string {
	return fmt.Sprintf(YouTubePlaylistURLTemplate, playlistID)
}

// PlaylistTitle derives a title for a playlist from its entry titles when the
// engine does not report one.
func PlaylistTitle(titles []string) string {
	if len(titles) == 0 {
		return DefaultPlaylistName
	}
	if len(titles) > 1 {
		commonPrefix := findCommonPrefix(titles[0], titles[1])
		if len(commonPrefix) > MinPrefixLength {
			return strings.TrimSpace(commonPrefix) + PlaylistSuffix
		}
	}
	return titles[0] + PlaylistSuffix
}

// findCommonPrefix finds the common prefix between two strings on rune boundaries
func findCommonPrefix(s1, s2 string) string {
	r1, r2 := []rune(s1), []rune(s2)
	minLen := min(len(r1), len(r2))
	for i := 0; i < minLen; i++ {
		if r1[i] != r2[i] {
			return string(r1[:i])
		}
	}
	return string(r1[:minLen])
}

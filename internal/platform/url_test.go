package platform

import (
	"errors"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  error
	}{
		{
			name:     "plain watch URL",
			input:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			expected: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name:     "pasted with line break and spaces",
			input:    "  https://youtu.be/dQw4w9WgXcQ\r\n",
			expected: "https://youtu.be/dQw4w9WgXcQ",
		},
		{
			name:    "empty input",
			input:   "   ",
			wantErr: ErrEmptyURL,
		},
		{
			name:    "ftp scheme",
			input:   "ftp://example.com/video",
			wantErr: ErrInvalidURL,
		},
		{
			name:    "no scheme",
			input:   "youtube.com/watch?v=x",
			wantErr: ErrInvalidURL,
		},
		{
			name:    "missing host",
			input:   "https:///watch",
			wantErr: ErrInvalidURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateURL(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "extract playlist ID from watch URL",
			url:      "https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID",
			expected: "PLAYLIST_ID",
		},
		{
			name:     "extract playlist ID from playlist URL",
			url:      "https://www.youtube.com/playlist?list=PLAYLIST_ID",
			expected: "PLAYLIST_ID",
		},
		{
			name:     "extract playlist ID with additional parameters",
			url:      "https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&index=1&t=30",
			expected: "PLAYLIST_ID",
		},
		{
			name:     "extract playlist ID with multiple list parameters",
			url:      "https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&list=OTHER_ID",
			expected: "PLAYLIST_ID",
		},
		{
			name:     "URL without playlist parameter",
			url:      "https://www.youtube.com/watch?v=VIDEO_ID",
			expected: "",
		},
		{
			name:     "URL with empty playlist parameter",
			url:      "https://www.youtube.com/watch?v=VIDEO_ID&list=",
			expected: "",
		},
		{
			name:     "empty URL",
			url:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ExtractPlaylistID(tt.url)
			if tt.expected == "" {
				if err == nil {
					t.Errorf("expected error for URL %q, got ID %q", tt.url, result)
				}
				if IsPlaylistURL(tt.url) {
					t.Errorf("IsPlaylistURL(%q) = true, expected false", tt.url)
				}
				return
			}
			if result != tt.expected {
				t.Errorf("expected %q, got %q for URL: %s", tt.expected, result, tt.url)
			}
			if !IsPlaylistURL(tt.url) {
				t.Errorf("IsPlaylistURL(%q) = false, expected true", tt.url)
			}
		})
	}
}

func TestFindCommonPrefix(t *testing.T) {
	tests := []struct {
		name     string
		s1       string
		s2       string
		expected string
	}{
		{"identical strings", "hello world", "hello world", "hello world"},
		{"common prefix", "hello world", "hello there", "hello "},
		{"no common prefix", "hello world", "goodbye world", ""},
		{"first string is prefix of second", "hello", "hello world", "hello"},
		{"empty second string", "hello world", "", ""},
		{"multibyte runes", "Привет мир", "Привет всем", "Привет "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := findCommonPrefix(tt.s1, tt.s2)
			if result != tt.expected {
				t.Errorf("expected %q, got %q for s1=%q, s2=%q", tt.expected, result, tt.s1, tt.s2)
			}
		})
	}
}

func TestPlaylistTitle(t *testing.T) {
	tests := []struct {
		name     string
		titles   []string
		expected string
	}{
		{"no entries", nil, DefaultPlaylistName},
		{"single entry", []string{"Intro"}, "Intro Playlist"},
		{"long common prefix", []string{"Go Concurrency Patterns - Part 1", "Go Concurrency Patterns - Part 2"}, "Go Concurrency Patterns - Part Playlist"},
		{"short common prefix", []string{"Song A", "Song B"}, "Song A Playlist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlaylistTitle(tt.titles); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestVideoURL(t *testing.T) {
	if got := VideoURL("abc"); got != "https://www.youtube.com/watch?v=abc" {
		t.Errorf("unexpected video URL %q", got)
	}
	if got := PlaylistURL("PL1"); got != "https://www.youtube.com/playlist?list=PL1" {
		t.Errorf("unexpected playlist URL %q", got)
	}
}

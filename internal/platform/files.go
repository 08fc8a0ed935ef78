package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Filename constants
const (
	MaxFilenameLength = 120
	DefaultFilename   = "video"
)

var (
	unsafeFilenameChars = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]+`)
	templateField       = regexp.MustCompile(`%\((\w+)\)s`)
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// ResolveDownloadDir returns dir, or fallback when dir is blank, expanding a leading "~"
func ResolveDownloadDir(dir, fallback string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = fallback
	}
	if dir == "" {
		return "", fmt.Errorf("download directory is empty")
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	return filepath.Clean(dir), nil
}

// SanitizeFilename builds a cross-platform safe file name from a title and an
// extension given without the dot.
func SanitizeFilename(title, ext string) string {
	name := sanitizeStem(title)
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		return name
	}
	return name + "." + ext
}

// OutputFilename expands a yt-dlp style output template for engines that name
// their files themselves. title, id and ext are known; other fields become "NA".
// The result is a single file name, never a path.
func OutputFilename(template, title, id, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	name := templateField.ReplaceAllStringFunc(template, func(field string) string {
		switch templateField.FindStringSubmatch(field)[1] {
		case "title":
			return sanitizeStem(title)
		case "id":
			return unsafeFilenameChars.ReplaceAllString(id, "_")
		case "ext":
			return ext
		}
		return "NA"
	})
	name = filepath.Base(unsafeFilenameChars.ReplaceAllString(name, "_"))
	if strings.Trim(name, " ._") == "" {
		return SanitizeFilename(title, ext)
	}
	return name
}

func sanitizeStem(title string) string {
	name := strings.TrimSpace(title)
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, " .")
	if name == "" {
		name = DefaultFilename
	}
	if runes := []rune(name); len(runes) > MaxFilenameLength {
		name = strings.TrimSpace(string(runes[:MaxFilenameLength]))
	}
	return name
}

// ExtFromMime returns the file extension (without dot) for a stream MIME type
func ExtFromMime(mime string) string {
	base := strings.TrimSpace(mime)
	if i := strings.Index(base, ";"); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	switch base {
	case "", "video/mp4":
		return "mp4"
	case "audio/mp4":
		return "m4a"
	case "video/webm", "audio/webm":
		return "webm"
	}
	if i := strings.Index(base, "/"); i >= 0 && i < len(base)-1 {
		return base[i+1:]
	}
	return "mp4"
}

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultCookieFile is the Netscape cookie jar handed to the engine when present
const DefaultCookieFile = "cookies.txt"

// CookiesInfo describes the cookie file the engine would be given
type CookiesInfo struct {
	Exists       bool      `json:"exists"`
	SizeBytes    int64     `json:"size_bytes,omitempty"`
	LastModified time.Time `json:"last_modified,omitzero"`
	AbsolutePath string    `json:"absolute_path,omitempty"`
}

// CheckCookiesFile inspects path. A missing file is not an error.
func CheckCookiesFile(path string) (*CookiesInfo, error) {
	if path == "" {
		path = DefaultCookieFile
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &CookiesInfo{Exists: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat cookie file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("cookie file %s is a directory", absPath)
	}

	return &CookiesInfo{
		Exists:       true,
		SizeBytes:    info.Size(),
		LastModified: info.ModTime(),
		AbsolutePath: absPath,
	}, nil
}

// CookieFileIfExists returns path when it names an existing file, "" otherwise
func CookieFileIfExists(path string) string {
	info, err := CheckCookiesFile(path)
	if err != nil || !info.Exists {
		return ""
	}
	return info.AbsolutePath
}

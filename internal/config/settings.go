package config

import (
	"time"

	"github.com/ytget/yt-webui/internal/model"
)

// Engine names
const (
	EngineYtdlp  = "ytdlp"
	EngineNative = "native"
)

// Default values
const (
	DefaultListenAddr         = "127.0.0.1:8501"
	DefaultDownloadDir        = "./downloads"
	DefaultQuality            = model.QualityBest
	DefaultEngine             = EngineYtdlp
	DefaultCookieFile         = "cookies.txt"
	DefaultLanguage           = "system"
	DefaultLogLevel           = "info"
	DefaultRateLimitPerMinute = 30
	DefaultProgressInterval   = 500 * time.Millisecond
	DefaultFilenameTemplate   = "%(title)s.%(ext)s"
)

// Limits applied by the setters
const (
	MinRateLimitPerMinute = 1
	MaxRateLimitPerMinute = 600
	MinProgressInterval   = 100 * time.Millisecond
	MaxProgressInterval   = 10 * time.Second
)

// EngineSettings selects and tunes the download engine
type EngineSettings struct {
	Name       string `yaml:"name"`
	Install    bool   `yaml:"install"`
	Executable string `yaml:"executable,omitempty"`
	// RateLimit caps native engine throughput in bytes per second, 0 for none.
	RateLimit int64 `yaml:"rate_limit,omitempty"`
}

// Settings is the application configuration
type Settings struct {
	ListenAddr         string         `yaml:"listen_addr"`
	DownloadDir        string         `yaml:"download_dir"`
	DefaultQuality     string         `yaml:"default_quality"`
	Engine             EngineSettings `yaml:"engine"`
	CookieFile         string         `yaml:"cookie_file"`
	FilenameTemplate   string         `yaml:"filename_template,omitempty"`
	Language           string         `yaml:"language"`
	LogLevel           string         `yaml:"log_level"`
	RateLimitPerMinute int            `yaml:"rate_limit_per_minute"`
	ProgressInterval   time.Duration  `yaml:"progress_interval"`
}

// Defaults returns settings with every field at its default
func Defaults() Settings {
	return Settings{
		ListenAddr:         DefaultListenAddr,
		DownloadDir:        DefaultDownloadDir,
		DefaultQuality:     string(DefaultQuality),
		Engine:             EngineSettings{Name: DefaultEngine},
		CookieFile:         DefaultCookieFile,
		FilenameTemplate:   DefaultFilenameTemplate,
		Language:           DefaultLanguage,
		LogLevel:           DefaultLogLevel,
		RateLimitPerMinute: DefaultRateLimitPerMinute,
		ProgressInterval:   DefaultProgressInterval,
	}
}

// GetListenAddr returns the HTTP listen address
func (s *Settings) GetListenAddr() string {
	if s.ListenAddr == "" {
		return DefaultListenAddr
	}
	return s.ListenAddr
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	if s.DownloadDir == "" {
		return DefaultDownloadDir
	}
	return s.DownloadDir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.DownloadDir = dir
}

// GetDefaultQuality returns the preselected quality tier
func (s *Settings) GetDefaultQuality() model.QualityTier {
	q, err := model.ParseQualityTier(s.DefaultQuality)
	if err != nil {
		return DefaultQuality
	}
	return q
}

// SetDefaultQuality sets the preselected quality tier
func (s *Settings) SetDefaultQuality(q model.QualityTier) {
	if !q.Valid() {
		q = DefaultQuality
	}
	s.DefaultQuality = string(q)
}

// GetEngine returns the engine name
func (s *Settings) GetEngine() string {
	switch s.Engine.Name {
	case EngineYtdlp, EngineNative:
		return s.Engine.Name
	default:
		return DefaultEngine
	}
}

// GetCookieFile returns the cookie file path
func (s *Settings) GetCookieFile() string {
	if s.CookieFile == "" {
		return DefaultCookieFile
	}
	return s.CookieFile
}

// GetFilenameTemplate returns the filename template
func (s *Settings) GetFilenameTemplate() string {
	if s.FilenameTemplate == "" {
		return DefaultFilenameTemplate
	}
	return s.FilenameTemplate
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	if _, ok := LanguageOptions()[s.Language]; !ok {
		return DefaultLanguage
	}
	return s.Language
}

// SetLanguage sets the interface language
func (s *Settings) SetLanguage(lang string) {
	s.Language = lang
}

// GetLogLevel returns the log level name
func (s *Settings) GetLogLevel() string {
	if s.LogLevel == "" {
		return DefaultLogLevel
	}
	return s.LogLevel
}

// GetRateLimitPerMinute returns the per-client API request budget
func (s *Settings) GetRateLimitPerMinute() int {
	if s.RateLimitPerMinute <= 0 {
		return DefaultRateLimitPerMinute
	}
	return s.RateLimitPerMinute
}

// SetRateLimitPerMinute sets the per-client API request budget
func (s *Settings) SetRateLimitPerMinute(n int) {
	if n < MinRateLimitPerMinute {
		n = MinRateLimitPerMinute
	}
	if n > MaxRateLimitPerMinute {
		n = MaxRateLimitPerMinute
	}
	s.RateLimitPerMinute = n
}

// GetProgressInterval returns the minimum gap between streamed progress events
func (s *Settings) GetProgressInterval() time.Duration {
	if s.ProgressInterval <= 0 {
		return DefaultProgressInterval
	}
	return s.ProgressInterval
}

// SetProgressInterval sets the minimum gap between streamed progress events
func (s *Settings) SetProgressInterval(d time.Duration) {
	if d < MinProgressInterval {
		d = MinProgressInterval
	}
	if d > MaxProgressInterval {
		d = MaxProgressInterval
	}
	s.ProgressInterval = d
}

// LanguageOptions returns available language options
func LanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

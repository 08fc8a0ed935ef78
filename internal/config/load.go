// Package config loads, validates, saves and hot-reloads the application settings.
//
// Precedence, lowest first: defaults, YAML file, .env file, YTWEBUI_* environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/renameio/v2"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ytget/yt-webui/internal/model"
)

// ErrInvalidConfig is returned when loaded settings fail validation
var ErrInvalidConfig = errors.New("invalid configuration")

// Environment overrides
const (
	EnvListenAddr       = "YTWEBUI_LISTEN_ADDR"
	EnvDownloadDir      = "YTWEBUI_DOWNLOAD_DIR"
	EnvDefaultQuality   = "YTWEBUI_DEFAULT_QUALITY"
	EnvEngine           = "YTWEBUI_ENGINE"
	EnvEngineInstall    = "YTWEBUI_ENGINE_INSTALL"
	EnvCookieFile       = "YTWEBUI_COOKIE_FILE"
	EnvLanguage         = "YTWEBUI_LANGUAGE"
	EnvLogLevel         = "YTWEBUI_LOG_LEVEL"
	EnvRateLimit        = "YTWEBUI_RATE_LIMIT_PER_MINUTE"
	EnvProgressInterval = "YTWEBUI_PROGRESS_INTERVAL"
)

// LoadDotEnv loads the given .env files into the process environment. Missing files
// are skipped and variables already set win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads settings from path (optional), applies environment overrides and
// validates the result. A missing file yields the defaults.
func Load(path string) (Settings, error) {
	s := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Settings{}, fmt.Errorf("read config: %w", err)
		default:
			if err := decode(data, &s); err != nil {
				return Settings{}, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(&s); err != nil {
		return Settings{}, err
	}
	if err := Validate(s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func decode(data []byte, s *Settings) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(s *Settings) error {
	if v, ok := os.LookupEnv(EnvListenAddr); ok {
		s.ListenAddr = v
	}
	if v, ok := os.LookupEnv(EnvDownloadDir); ok {
		s.DownloadDir = v
	}
	if v, ok := os.LookupEnv(EnvDefaultQuality); ok {
		s.DefaultQuality = v
	}
	if v, ok := os.LookupEnv(EnvEngine); ok {
		s.Engine.Name = v
	}
	if v, ok := os.LookupEnv(EnvEngineInstall); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvEngineInstall, err)
		}
		s.Engine.Install = b
	}
	if v, ok := os.LookupEnv(EnvCookieFile); ok {
		s.CookieFile = v
	}
	if v, ok := os.LookupEnv(EnvLanguage); ok {
		s.Language = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		s.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvRateLimit); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvRateLimit, err)
		}
		s.SetRateLimitPerMinute(n)
	}
	if v, ok := os.LookupEnv(EnvProgressInterval); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvProgressInterval, err)
		}
		s.SetProgressInterval(d)
	}
	return nil
}

// Validate checks the enumerated fields of s
func Validate(s Settings) error {
	if s.DefaultQuality != "" {
		if _, err := model.ParseQualityTier(s.DefaultQuality); err != nil {
			return fmt.Errorf("%w: default_quality: %w", ErrInvalidConfig, err)
		}
	}
	switch s.Engine.Name {
	case "", EngineYtdlp, EngineNative:
	default:
		return fmt.Errorf("%w: engine.name %q (want %s or %s)", ErrInvalidConfig, s.Engine.Name, EngineYtdlp, EngineNative)
	}
	if s.Language != "" {
		if _, ok := LanguageOptions()[s.Language]; !ok {
			return fmt.Errorf("%w: language %q", ErrInvalidConfig, s.Language)
		}
	}
	if s.RateLimitPerMinute < 0 {
		return fmt.Errorf("%w: rate_limit_per_minute must not be negative", ErrInvalidConfig)
	}
	if s.Engine.RateLimit < 0 {
		return fmt.Errorf("%w: engine.rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Save writes s to path atomically
func Save(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

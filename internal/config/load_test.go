package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
listen_addr: ":9000"
download_dir: /srv/videos
default_quality: 720p
engine:
  name: native
  rate_limit: 1048576
language: ru
progress_interval: 2s
`)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", s.ListenAddr)
	assert.Equal(t, "/srv/videos", s.DownloadDir)
	assert.Equal(t, "720p", s.DefaultQuality)
	assert.Equal(t, EngineNative, s.Engine.Name)
	assert.Equal(t, int64(1048576), s.Engine.RateLimit)
	assert.Equal(t, "ru", s.Language)
	assert.Equal(t, 2*time.Second, s.ProgressInterval)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultCookieFile, s.CookieFile)
	assert.Equal(t, DefaultRateLimitPerMinute, s.RateLimitPerMinute)
}

func TestLoad_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
}

func TestLoad_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "max_parallel_downloads: 4\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "download_dir: /from/file\n")

	t.Setenv(EnvDownloadDir, "/from/env")
	t.Setenv(EnvEngine, EngineNative)
	t.Setenv(EnvEngineInstall, "true")
	t.Setenv(EnvRateLimit, "5000")
	t.Setenv(EnvProgressInterval, "1ms")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", s.DownloadDir)
	assert.Equal(t, EngineNative, s.Engine.Name)
	assert.True(t, s.Engine.Install)
	assert.Equal(t, MaxRateLimitPerMinute, s.RateLimitPerMinute)
	assert.Equal(t, MinProgressInterval, s.ProgressInterval)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv(EnvEngineInstall, "maybe")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		valid  bool
	}{
		{"defaults", func(*Settings) {}, true},
		{"unknown quality", func(s *Settings) { s.DefaultQuality = "4k" }, false},
		{"unknown engine", func(s *Settings) { s.Engine.Name = "aria2" }, false},
		{"unknown language", func(s *Settings) { s.Language = "de" }, false},
		{"negative rate limit", func(s *Settings) { s.RateLimitPerMinute = -1 }, false},
		{"negative engine rate", func(s *Settings) { s.Engine.RateLimit = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			err := Validate(s)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	s := Defaults()
	s.DownloadDir = "/tmp/videos"
	s.SetDefaultQuality("480p")
	s.SetProgressInterval(750 * time.Millisecond)
	require.NoError(t, Save(path, s))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	writeFile(t, envFile, "YTWEBUI_LANGUAGE=pt\n")

	// t.Setenv registers cleanup for the key loaded below
	t.Setenv(EnvLanguage, "")
	require.NoError(t, os.Unsetenv(EnvLanguage))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), envFile))
	assert.Equal(t, "pt", os.Getenv(EnvLanguage))
}

func TestHolder_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "language: en\n")

	initial, err := Load(path)
	require.NoError(t, err)
	h := NewHolder(path, initial)

	var got Settings
	h.OnChange(func(s Settings) { got = s })

	writeFile(t, path, "language: ru\n")
	require.NoError(t, h.Reload())
	assert.Equal(t, "ru", h.Get().Language)
	assert.Equal(t, "ru", got.Language)

	// invalid settings keep the previous ones
	writeFile(t, path, "language: xx\n")
	assert.Error(t, h.Reload())
	assert.Equal(t, "ru", h.Get().Language)
}

func TestHolder_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "default_quality: best\n")

	h := NewHolder(path, Defaults())
	changed := make(chan Settings, 4)
	h.OnChange(func(s Settings) {
		select {
		case changed <- s:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Watch(ctx) }()

	require.Eventually(t, func() bool {
		writeFile(t, path, "default_quality: 360p\n")
		select {
		case s := <-changed:
			return s.DefaultQuality == "360p"
		case <-time.After(2 * ReloadDebounce):
			return false
		}
	}, 10*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, "360p", h.Get().DefaultQuality)
}

func TestHolder_WatchWithoutPath(t *testing.T) {
	h := NewHolder("", Defaults())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, h.Watch(ctx))
}

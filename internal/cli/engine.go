package cli

import (
	"context"
	"fmt"

	"github.com/ytget/yt-webui/internal/config"
	"github.com/ytget/yt-webui/internal/engine"
	"github.com/ytget/yt-webui/internal/engine/native"
	"github.com/ytget/yt-webui/internal/engine/ytdlpcli"
	"github.com/ytget/yt-webui/internal/remux"
)

// engineFactory is swapped out in tests
var engineFactory = newEngine

func newEngine(ctx context.Context, s config.Settings) (engine.Engine, error) {
	switch s.GetEngine() {
	case config.EngineNative:
		return native.New(native.Options{
			RateLimit: s.Engine.RateLimit,
			Remuxer:   remux.New(),
		}), nil
	case config.EngineYtdlp:
		eng, err := ytdlpcli.New(ctx, ytdlpcli.Options{
			Executable:       s.Engine.Executable,
			Install:          s.Engine.Install,
			ProgressInterval: s.GetProgressInterval(),
		})
		if err != nil {
			return nil, fmt.Errorf("start yt-dlp engine: %w", err)
		}
		return eng, nil
	default:
		return nil, fmt.Errorf("%w: engine %q", config.ErrInvalidConfig, s.Engine.Name)
	}
}

// Package cli wires the command tree: the web server plus one-shot lookup,
// download and playlist commands that share the same download service.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-webui/internal/config"
	"github.com/ytget/yt-webui/internal/download"
	"github.com/ytget/yt-webui/internal/engine"
	xlog "github.com/ytget/yt-webui/internal/log"
)

// DefaultConfigFile is read when --config is not given
const DefaultConfigFile = "config.yaml"

// DotEnvFile is loaded into the environment before the config
const DotEnvFile = ".env"

type app struct {
	version    string
	configPath string
	logLevel   string
	console    bool

	settings config.Settings
}

// NewRootCommand builds the command tree
func NewRootCommand(version string) *cobra.Command {
	a := &app{version: version}

	root := &cobra.Command{
		Use:           "yt-webui",
		Short:         "Browser front end for downloading videos",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd.Context(), "")
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", DefaultConfigFile, "path to the YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.console, "console", false, "human readable log output")

	root.AddCommand(
		a.newServeCommand(),
		a.newInfoCommand(),
		a.newGetCommand(),
		a.newPlaylistCommand(),
		a.newInitConfigCommand(),
	)
	return root
}

// Execute runs the command tree and returns the process exit code
func Execute(ctx context.Context, version string) int {
	if err := NewRootCommand(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func (a *app) setup() error {
	if err := config.LoadDotEnv(DotEnvFile); err != nil {
		return err
	}
	settings, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.settings = settings

	level := a.logLevel
	if level == "" {
		level = settings.GetLogLevel()
	}
	xlog.Configure(xlog.Config{Level: level, Console: a.console})
	return nil
}

func (a *app) newService(ctx context.Context) (*download.Service, engine.Engine, error) {
	eng, err := engineFactory(ctx, a.settings)
	if err != nil {
		return nil, nil, err
	}
	return download.NewService(eng, serviceOptions(a.settings)), eng, nil
}

func serviceOptions(s config.Settings) download.Options {
	return download.Options{
		CookieFile:     s.GetCookieFile(),
		OutputTemplate: s.GetFilenameTemplate(),
	}
}

// followSettings applies reloaded settings to the running service and logger.
// A --log-level flag keeps precedence over the file.
func (a *app) followSettings(holder *config.Holder, svc *download.Service) {
	logger := xlog.WithComponent("config")
	holder.OnChange(func(next config.Settings) {
		svc.SetOptions(serviceOptions(next))
		event := logger.Info().Str("path", holder.Path()).Str("cookie_file", next.GetCookieFile())
		if a.logLevel == "" {
			event = event.Stringer("log_level", xlog.SetLevel(next.GetLogLevel()))
		}
		event.Msg("settings applied")
	})
}

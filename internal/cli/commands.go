package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/ytget/yt-webui/internal/config"
	"github.com/ytget/yt-webui/internal/download"
	"github.com/ytget/yt-webui/internal/model"
	"github.com/ytget/yt-webui/internal/platform"
)

func (a *app) newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <url>",
		Short: "Show video metadata without downloading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := platform.ValidateURL(args[0])
			if err != nil {
				return err
			}
			svc, _, err := a.newService(cmd.Context())
			if err != nil {
				return err
			}
			info, err := svc.Lookup(cmd.Context(), url)
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), info)
			return nil
		},
	}
}

func printInfo(w io.Writer, info *model.VideoInfo) {
	fmt.Fprintf(w, "Title:     %s\n", info.Title)
	fmt.Fprintf(w, "Channel:   %s\n", info.Uploader)
	fmt.Fprintf(w, "Duration:  %s\n", model.FormatDuration(info.Duration))
	fmt.Fprintf(w, "Views:     %s\n", model.FormatNumber(info.ViewCount))
	if date := model.FormatUploadDate(info.UploadDate); date != "" {
		fmt.Fprintf(w, "Uploaded:  %s\n", date)
	}
	if labels := model.QualityLabels(info.Formats); len(labels) > 0 {
		fmt.Fprintf(w, "Qualities: %v\n", labels)
	}
	fmt.Fprintf(w, "\n%s\n", info.Description)
}

func (a *app) newGetCommand() *cobra.Command {
	var quality, dir string
	cmd := &cobra.Command{
		Use:   "get <url>",
		Short: "Download a single video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := platform.ValidateURL(args[0])
			if err != nil {
				return err
			}
			tier, err := a.quality(quality)
			if err != nil {
				return err
			}
			outDir, err := platform.ResolveDownloadDir(dir, a.settings.GetDownloadDirectory())
			if err != nil {
				return err
			}
			svc, _, err := a.newService(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printer := newProgressPrinter(out, a.settings.GetProgressInterval())
			task := download.NewTask(model.DownloadRequest{URL: url, Quality: tier, OutputDir: outDir})
			if err := svc.Run(cmd.Context(), task, outDir, printer.print); err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved %s (%s)\n", task.OutputPath, task.Elapsed().Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVarP(&quality, "quality", "q", "", "quality tier (best, 1080p, 720p, 480p, 360p, audio)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "output directory")
	return cmd
}

func (a *app) newPlaylistCommand() *cobra.Command {
	var (
		quality, dir string
		fetch        bool
	)
	cmd := &cobra.Command{
		Use:   "playlist <url>",
		Short: "List or download the videos of a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := platform.ValidateURL(args[0])
			if err != nil {
				return err
			}
			if !platform.IsPlaylistURL(url) {
				return platform.ErrNotPlaylist
			}
			svc, _, err := a.newService(cmd.Context())
			if err != nil {
				return err
			}
			pl, err := svc.ListPlaylist(cmd.Context(), url)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%d videos)\n", pl.Title, pl.TotalVideos)
			for _, v := range pl.Videos {
				fmt.Fprintf(out, "%3d. %s [%s]\n", v.Index, v.Title, v.Duration)
			}
			if !fetch {
				return nil
			}

			tier, err := a.quality(quality)
			if err != nil {
				return err
			}
			outDir, err := platform.ResolveDownloadDir(dir, a.settings.GetDownloadDirectory())
			if err != nil {
				return err
			}
			n, err := svc.DownloadPlaylist(cmd.Context(), pl, tier, outDir, func(v model.PlaylistVideo) {
				switch v.Status {
				case model.VideoStatusCompleted:
					fmt.Fprintf(out, "ok   %3d. %s\n", v.Index, v.Title)
				case model.VideoStatusError:
					fmt.Fprintf(out, "fail %3d. %s\n", v.Index, v.Title)
				}
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Downloaded %d of %d (%s)\n", n, pl.TotalVideos, model.FormatPercent(pl.DownloadProgress()))
			if pl.Status == model.PlaylistStatusError {
				return download.ErrPlaylistFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fetch, "download", false, "download every entry after listing")
	cmd.Flags().StringVarP(&quality, "quality", "q", "", "quality tier (best, 1080p, 720p, 480p, 360p, audio)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "output directory")
	return cmd
}

func (a *app) newInitConfigCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(a.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", a.configPath)
			}
			s := config.Defaults()
			if dir, err := platform.GetHomeDownloadsDir(); err == nil {
				s.SetDownloadDirectory(dir)
			}
			if err := config.Save(a.configPath, s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", a.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (a *app) quality(flag string) (model.QualityTier, error) {
	if flag == "" {
		return a.settings.GetDefaultQuality(), nil
	}
	return model.ParseQualityTier(flag)
}

// progressPrinter prints task status lines, at most one progress line per interval
// while the status stays the same
type progressPrinter struct {
	w         io.Writer
	sometimes rate.Sometimes
	last      model.TaskStatus
}

func newProgressPrinter(w io.Writer, interval time.Duration) *progressPrinter {
	return &progressPrinter{w: w, sometimes: rate.Sometimes{First: 1, Interval: interval}}
}

func (p *progressPrinter) print(task model.DownloadTask) {
	repeated := task.Status == p.last
	p.last = task.Status
	if !repeated || !task.Status.IsActive() {
		fmt.Fprintln(p.w, p.line(task))
		return
	}
	p.sometimes.Do(func() {
		fmt.Fprintln(p.w, p.line(task))
	})
}

func (p *progressPrinter) line(task model.DownloadTask) string {
	line := task.StatusLine()
	if task.Status == model.TaskStatusDownloading && task.TotalBytes > 0 {
		line += fmt.Sprintf(" (%s / %s)", humanize.Bytes(uint64(task.DownloadedBytes)), humanize.Bytes(uint64(task.TotalBytes)))
	}
	return line
}

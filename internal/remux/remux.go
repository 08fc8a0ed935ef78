// Package remux rewraps downloaded streams into the target container with ffmpeg
// stream copy. It is used by engines that cannot merge or remux themselves.
package remux

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	xlog "github.com/ytget/yt-webui/internal/log"
)

// FFmpeg constants
const (
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="
	FastStartFlag       = "+faststart"
	TempSuffix          = ".remux"
)

// Remuxer rewraps files with ffmpeg
type Remuxer struct {
	ffmpeg  string
	ffprobe string
	logger  zerolog.Logger
}

// New looks up ffmpeg and ffprobe on PATH. A missing binary is not an error here;
// Available reports it and Remux becomes a no-op.
func New() *Remuxer {
	r := &Remuxer{logger: xlog.WithComponent("remux")}
	if path, err := exec.LookPath(FFmpegCommand); err == nil {
		r.ffmpeg = path
	}
	if path, err := exec.LookPath(FFprobeCommand); err == nil {
		r.ffprobe = path
	}
	return r
}

// Available reports whether ffmpeg was found
func (r *Remuxer) Available() bool {
	return r != nil && r.ffmpeg != ""
}

// OutputPath returns inputPath with its extension replaced by container
func OutputPath(inputPath, container string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + "." + strings.TrimPrefix(container, ".")
}

// NeedsRemux reports whether inputPath is not already in container
func NeedsRemux(inputPath, container string) bool {
	if container == "" {
		return false
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(inputPath)), ".")
	return ext != strings.ToLower(strings.TrimPrefix(container, "."))
}

// BuildArgs builds the ffmpeg stream-copy arguments
func BuildArgs(inputPath, outputPath, container string) []string {
	args := []string{
		"-y",            // Overwrite output file
		"-i", inputPath, // Input file
		"-c", "copy", // No re-encoding
	}
	if container == "mp4" || container == "m4a" {
		args = append(args, "-movflags", FastStartFlag)
	}
	if container == "m4a" {
		args = append(args, "-vn", "-f", "mp4")
	}
	return append(args,
		"-progress", ProgressPipeTarget, // Progress to stderr
		"-nostats",
		outputPath,
	)
}

// Remux rewraps inputPath into container and returns the resulting path. The input
// is removed on success. Without ffmpeg, or when the file already has the target
// extension, inputPath is returned unchanged. progress, when set, receives the
// completed fraction from ffmpeg's -progress output and a final 1.
func (r *Remuxer) Remux(ctx context.Context, inputPath, container string, progress func(float64)) (string, error) {
	if !NeedsRemux(inputPath, container) {
		return inputPath, nil
	}
	if !r.Available() {
		r.logger.Warn().Str("file", inputPath).Str("container", container).Msg("ffmpeg missing, keeping original container")
		return inputPath, nil
	}

	outputPath := OutputPath(inputPath, container)
	tempPath := outputPath + TempSuffix
	var duration float64
	if progress != nil {
		duration = r.duration(ctx, inputPath)
	}

	cmd := exec.CommandContext(ctx, r.ffmpeg, BuildArgs(inputPath, tempPath, container)...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		monitorProgress(stderr, duration, progress)
	}()
	<-done

	if err := cmd.Wait(); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("ffmpeg remux %s: %w", filepath.Base(inputPath), err)
	}
	if err := os.Rename(tempPath, outputPath); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to move remuxed file: %w", err)
	}
	if err := os.Remove(inputPath); err != nil && !os.IsNotExist(err) {
		r.logger.Warn().Err(err).Str("file", inputPath).Msg("failed to remove remux input")
	}

	if progress != nil {
		progress(1)
	}
	r.logger.Debug().Str("input", inputPath).Str("output", outputPath).Msg("remuxed")
	return outputPath, nil
}

// duration returns the media duration in seconds, 0 when unknown
func (r *Remuxer) duration(ctx context.Context, inputPath string) float64 {
	if r.ffprobe == "" {
		return 0
	}
	cmd := exec.CommandContext(ctx, r.ffprobe,
		"-v", FFprobeLogLevel,
		"-show_entries", FFprobeShowEntries,
		"-of", FFprobeOutputFormat,
		inputPath,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0
	}
	return d
}

// monitorProgress reads ffmpeg -progress output until EOF. The stream is drained
// even without a progress callback.
func monitorProgress(stderr io.Reader, totalDuration float64, progress func(float64)) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		if progress == nil {
			continue
		}
		if fraction, ok := parseProgressLine(scanner.Text(), totalDuration); ok {
			progress(fraction)
		}
	}
}

// parseProgressLine converts an "out_time_us=" line into a 0..1 fraction
func parseProgressLine(line string, totalDuration float64) (float64, bool) {
	line = strings.TrimSpace(line)
	if totalDuration <= 0 || !strings.HasPrefix(line, ProgressTimePrefix) {
		return 0, false
	}
	us, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
	if err != nil || us < 0 {
		return 0, false
	}
	fraction := float64(us) / 1_000_000.0 / totalDuration
	if fraction > 1 {
		fraction = 1
	}
	return fraction, true
}

package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/dub-flow/pkg/executor"
)

// ExtractAudio pulls the full audio track out of a video file as 44.1kHz
// stereo PCM WAV, the working format for every later stage.
func (o *implOps) ExtractAudio(ctx context.Context, videoPath, outPath string) error {
	o.logger.Info(ctx, "Extracting audio: %s", videoPath)

	args := []string{
		"-i", videoPath,
		"-vn",
		"-ar", "44100",
		"-ac", "2",
		"-c:a", "pcm_s16le",
		"-y",
		outPath,
	}

	if _, err := o.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	return nil
}

// SeparateVocals runs the configured two-stem separation command (demucs
// style: writes vocals.wav and no_vocals.wav under an output directory) and
// moves the stems to the requested paths.
func (o *implOps) SeparateVocals(ctx context.Context, audioPath, vocalsOut, backgroundOut string) error {
	o.logger.Info(ctx, "Separating vocals from background: %s", audioPath)

	stemDir, err := os.MkdirTemp(filepath.Dir(vocalsOut), "stems-*")
	if err != nil {
		return fmt.Errorf("create stem dir: %w", err)
	}
	defer os.RemoveAll(stemDir)

	args := []string{"--two-stems", "vocals", "--out", stemDir}
	if o.cfg.Separation.Model != "" {
		args = append(args, "-n", o.cfg.Separation.Model)
	}
	args = append(args, audioPath)

	if _, err := o.executor.Execute(ctx, o.cfg.Separation.BinaryPath, args...); err != nil {
		return fmt.Errorf("vocal separation: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	if err := moveStem(filepath.Join(stemDir, base, "vocals.wav"), vocalsOut); err != nil {
		return err
	}
	return moveStem(filepath.Join(stemDir, base, "no_vocals.wav"), backgroundOut)
}

func moveStem(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("separation produced no stem at %s: %w", src, err)
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("move stem: %w", err)
	}
	return nil
}

// Cut extracts the [start, end] window of srcPath into outPath.
func (o *implOps) Cut(ctx context.Context, srcPath string, start, end float64, outPath string) error {
	args := []string{
		"-i", srcPath,
		"-ss", formatSeconds(start),
		"-to", formatSeconds(end),
		"-c:a", "pcm_s16le",
		"-y",
		outPath,
	}

	if _, err := o.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return fmt.Errorf("ffmpeg cut [%s, %s]: %w", formatSeconds(start), formatSeconds(end), err)
	}

	return nil
}

// Duration probes a media file's duration in seconds.
func (o *implOps) Duration(ctx context.Context, path string) (float64, error) {
	return probeDuration(ctx, o.executor, path)
}

func probeDuration(ctx context.Context, exec executor.Executor, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	out, err := exec.Execute(ctx, "ffprobe", args...)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w", err)
	}

	dur, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", strings.TrimSpace(out), err)
	}

	return dur, nil
}

// FitToSlot stretches or compresses a dubbed chunk so it fills slotSeconds,
// returning the resulting duration. Slots shorter than minSeconds are left
// untouched to avoid pathological speed factors on tiny segments.
func (o *implOps) FitToSlot(ctx context.Context, path string, slotSeconds, minSeconds float64, outPath string) (float64, error) {
	actual, err := o.Duration(ctx, path)
	if err != nil {
		return 0, err
	}

	factor := actual / slotSeconds
	if slotSeconds < minSeconds || factor < 1.02 {
		// Nothing to adjust; either the slot is guarded or the chunk already fits.
		if err := copyAudio(path, outPath); err != nil {
			return 0, err
		}
		return actual, nil
	}

	o.logger.Debug(ctx, "Stretching %s by %.3fx to fit %.2fs slot", path, factor, slotSeconds)

	args := []string{
		"-i", path,
		"-filter:a", atempoChain(factor),
		"-y",
		outPath,
	}

	if _, err := o.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return 0, fmt.Errorf("ffmpeg atempo: %w", err)
	}

	return slotSeconds, nil
}

// atempoChain builds an atempo filter expression, chaining stages when the
// factor falls outside the filter's [0.5, 2.0] single-stage range.
func atempoChain(factor float64) string {
	var stages []string
	for factor > 2.0 {
		stages = append(stages, "atempo=2.0")
		factor /= 2.0
	}
	for factor < 0.5 {
		stages = append(stages, "atempo=0.5")
		factor /= 0.5
	}
	stages = append(stages, fmt.Sprintf("atempo=%.4f", factor))
	return strings.Join(stages, ",")
}

func copyAudio(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("write destination: %w", err)
	}
	return nil
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}

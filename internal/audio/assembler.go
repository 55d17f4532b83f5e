package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/dub-flow/internal/dubbing"
)

// Assemble reconstructs the final mixed track: a silent canvas the length of
// the background bed, each dubbed chunk overlaid at its designated offset,
// both resulting tracks loudness-normalized, gain-adjusted, truncated to the
// shorter of the two, then mixed.
func (a *implAssembler) Assemble(ctx context.Context, backgroundPath string, placements []dubbing.Placement, outPath string) error {
	a.logger.Info(ctx, "Assembling timeline: %d chunks over %s", len(placements), backgroundPath)

	bedDuration, err := probeDuration(ctx, a.executor, backgroundPath)
	if err != nil {
		return fmt.Errorf("probe background: %w", err)
	}

	workDir, err := os.MkdirTemp(filepath.Dir(outPath), "mix-*")
	if err != nil {
		return fmt.Errorf("create mix dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	vocals := filepath.Join(workDir, "vocals.wav")
	if err := a.overlayChunks(ctx, bedDuration, placements, vocals); err != nil {
		return err
	}

	vocalsNorm := filepath.Join(workDir, "vocals_norm.wav")
	if err := a.normalize(ctx, vocals, vocalsNorm); err != nil {
		return fmt.Errorf("normalize vocals: %w", err)
	}

	bedNorm := filepath.Join(workDir, "background_norm.wav")
	if err := a.normalize(ctx, backgroundPath, bedNorm); err != nil {
		return fmt.Errorf("normalize background: %w", err)
	}

	return a.mix(ctx, vocalsNorm, bedNorm, outPath)
}

// overlayChunks sums every dubbed chunk onto a silent canvas. Overlapping
// chunks simply add; the assembler does not try to prevent collisions.
func (a *implAssembler) overlayChunks(ctx context.Context, canvasSeconds float64, placements []dubbing.Placement, outPath string) error {
	args := []string{
		"-f", "lavfi",
		"-t", formatSeconds(canvasSeconds),
		"-i", "anullsrc=r=44100:cl=stereo",
	}
	for _, p := range placements {
		args = append(args, "-i", p.ChunkPath)
	}

	var filter strings.Builder
	labels := []string{"[0:a]"}
	for i, p := range placements {
		delayMs := int(p.Offset * 1000)
		label := fmt.Sprintf("[d%d]", i)
		fmt.Fprintf(&filter, "[%d:a]adelay=%d|%d%s;", i+1, delayMs, delayMs, label)
		labels = append(labels, label)
	}
	fmt.Fprintf(&filter, "%samix=inputs=%d:duration=first:normalize=0[mix]",
		strings.Join(labels, ""), len(labels))

	args = append(args,
		"-filter_complex", filter.String(),
		"-map", "[mix]",
		"-c:a", "pcm_s16le",
		"-y",
		outPath,
	)

	if _, err := a.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return fmt.Errorf("ffmpeg overlay chunks: %w", err)
	}

	return nil
}

func (a *implAssembler) normalize(ctx context.Context, srcPath, outPath string) error {
	args := []string{
		"-i", srcPath,
		"-af", "loudnorm=I=-16:TP=-1.5:LRA=11",
		"-ar", "44100",
		"-y",
		outPath,
	}

	if _, err := a.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return fmt.Errorf("ffmpeg loudnorm: %w", err)
	}

	return nil
}

// mix applies the configured gain offsets and overlays the two tracks,
// truncating to the shorter one.
func (a *implAssembler) mix(ctx context.Context, vocalsPath, backgroundPath, outPath string) error {
	filter := fmt.Sprintf(
		"[0:a]volume=%.1fdB[v];[1:a]volume=%.1fdB[b];[v][b]amix=inputs=2:duration=shortest:normalize=0[out]",
		a.vocalsGainDB, a.backgroundGainDB,
	)

	args := []string{
		"-i", vocalsPath,
		"-i", backgroundPath,
		"-filter_complex", filter,
		"-map", "[out]",
		"-c:a", "pcm_s16le",
		"-y",
		outPath,
	}

	if _, err := a.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return fmt.Errorf("ffmpeg final mix: %w", err)
	}

	return nil
}

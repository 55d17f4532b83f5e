package dubbing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PreprocessingArtifacts are the paths produced once by preprocessing and
// consumed read-only by every later stage that needs source material.
type PreprocessingArtifacts struct {
	VideoPath      string `json:"video_path,omitempty"`
	AudioPath      string `json:"audio_path"`
	VocalsPath     string `json:"vocals_path"`
	BackgroundPath string `json:"background_path"`
	ChunkDir       string `json:"chunk_dir"`
}

var videoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".webm", ".m4v", ".flv"}

func isVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, v := range videoExtensions {
		if ext == v {
			return true
		}
	}
	return false
}

// preprocess extracts audio, separates vocals from background, diarizes the
// vocals into spans, merges near-adjacent spans and cuts one chunk file per
// utterance.
func (p *implPipeline) preprocess(ctx context.Context, inputPath, runDir string) (*PreprocessingArtifacts, UtteranceList, error) {
	if _, err := os.Stat(inputPath); err != nil {
		return nil, nil, &AssetMissingError{Path: inputPath}
	}

	art := &PreprocessingArtifacts{
		AudioPath:      filepath.Join(runDir, "audio.wav"),
		VocalsPath:     filepath.Join(runDir, "vocals.wav"),
		BackgroundPath: filepath.Join(runDir, "background.wav"),
		ChunkDir:       filepath.Join(runDir, "chunks"),
	}

	if isVideoFile(inputPath) {
		art.VideoPath = inputPath
	}
	// ExtractAudio also serves as the resample step for audio-only inputs.
	if err := p.audio.ExtractAudio(ctx, inputPath, art.AudioPath); err != nil {
		return nil, nil, fmt.Errorf("extract audio: %w", err)
	}

	if err := p.audio.SeparateVocals(ctx, art.AudioPath, art.VocalsPath, art.BackgroundPath); err != nil {
		return nil, nil, fmt.Errorf("separate vocals: %w", err)
	}

	spans, err := Retry(ctx, p.logger, p.cfg.Dubbing.MaxRetries, "diarization", func(ctx context.Context) ([]Span, error) {
		return p.diarizer.Diarize(ctx, art.VocalsPath, p.cfg.Diarization.SpeakerCount)
	})
	if err != nil {
		return nil, nil, err
	}

	list := make(UtteranceList, 0, len(spans))
	for _, s := range spans {
		list = append(list, Utterance{Start: s.Start, End: s.End, ForDubbing: true})
	}
	list = list.Sorted()
	if err := list.Validate(); err != nil {
		return nil, nil, err
	}

	threshold := *p.cfg.Dubbing.MergeThreshold
	merged := MergeIntervals(list, threshold, CombineSpeechSpans)
	p.logger.Info(ctx, "Merged %d spans into %d utterances (threshold %.2fs)",
		len(list), len(merged), threshold)

	if err := p.cutChunks(ctx, art, merged); err != nil {
		return nil, nil, err
	}

	return art, merged, nil
}

// cutChunks writes one chunk file per utterance from the full audio, plus a
// vocals-only chunk when voice cloning is requested.
func (p *implPipeline) cutChunks(ctx context.Context, art *PreprocessingArtifacts, list UtteranceList) error {
	if err := os.MkdirAll(art.ChunkDir, 0755); err != nil {
		return fmt.Errorf("create chunk dir: %w", err)
	}

	for i := range list {
		u := &list[i]
		u.SourceAudioPath = filepath.Join(art.ChunkDir, fmt.Sprintf("chunk_%04d.wav", i))
		if err := p.audio.Cut(ctx, art.AudioPath, u.Start, u.End, u.SourceAudioPath); err != nil {
			return fmt.Errorf("cut chunk %d: %w", i, err)
		}

		if p.cfg.Dubbing.VoiceClone {
			u.VocalsAudioPath = filepath.Join(art.ChunkDir, fmt.Sprintf("vocals_%04d.wav", i))
			if err := p.audio.Cut(ctx, art.VocalsPath, u.Start, u.End, u.VocalsAudioPath); err != nil {
				return fmt.Errorf("cut vocals chunk %d: %w", i, err)
			}
		}
	}

	return nil
}

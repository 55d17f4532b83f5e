package dubbing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/dub-flow/internal/config"
	"github.com/nguyentantai21042004/dub-flow/internal/logger"
)

func testConfig() *config.Config {
	mergeThreshold := 0.3
	backgroundGain := -5.0
	return &config.Config{
		Dubbing: config.DubbingConfig{
			SourceLanguage:     "en",
			TargetLanguage:     "vi",
			MergeThreshold:     &mergeThreshold,
			MaxRetries:         5,
			MinStretchDuration: 1.0,
			BackgroundGainDB:   &backgroundGain,
			PreferredVoices: []config.Voice{
				{Name: "Kore", Gender: "female"},
				{Name: "Puck", Gender: "male"},
				{Name: "Aoede", Gender: "female"},
			},
		},
		Diarization: config.DiarizationConfig{SpeakerCount: 2},
		Performance: config.PerformanceConfig{MaxConcurrent: 2},
	}
}

func testPipeline(cfg *config.Config) *implPipeline {
	return &implPipeline{cfg: cfg, logger: logger.New("error")}
}

// fakeTranslator returns canned responses in order, then repeats the last.
type fakeTranslator struct {
	responses []string
	calls     int
}

func (f *fakeTranslator) Translate(ctx context.Context, script, src, dst string) (string, error) {
	i := f.calls
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	f.calls++
	return f.responses[i], nil
}

type fakeLabeler struct {
	labels []SpeakerLabel
	err    error
	calls  int
}

func (f *fakeLabeler) LabelSpeakers(ctx context.Context, lines []string, mediaPath string, speakerCount int) ([]SpeakerLabel, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.labels, nil
}

type fakeTranscriber struct {
	text  string
	calls int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, chunkPath, language, hotwords string) (string, error) {
	f.calls++
	return f.text, nil
}

type fakeSynthesizer struct {
	err   error
	calls int
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text, voice, language, outPath string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(outPath, []byte("fake audio"), 0644)
}

// fakeAudio implements AudioOps in memory, recording cut calls and creating
// empty files so later Stat checks pass.
type fakeAudio struct {
	cuts      []string
	durations map[string]float64
}

func (f *fakeAudio) ExtractAudio(ctx context.Context, videoPath, outPath string) error {
	return os.WriteFile(outPath, nil, 0644)
}

func (f *fakeAudio) SeparateVocals(ctx context.Context, audioPath, vocalsOut, backgroundOut string) error {
	if err := os.WriteFile(vocalsOut, nil, 0644); err != nil {
		return err
	}
	return os.WriteFile(backgroundOut, nil, 0644)
}

func (f *fakeAudio) Cut(ctx context.Context, srcPath string, start, end float64, outPath string) error {
	f.cuts = append(f.cuts, fmt.Sprintf("%s[%.2f-%.2f]", filepath.Base(srcPath), start, end))
	return os.WriteFile(outPath, nil, 0644)
}

func (f *fakeAudio) Duration(ctx context.Context, path string) (float64, error) {
	if d, ok := f.durations[path]; ok {
		return d, nil
	}
	return 1.0, nil
}

func (f *fakeAudio) FitToSlot(ctx context.Context, path string, slotSeconds, minSeconds float64, outPath string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return 0, err
	}
	return slotSeconds, nil
}

func mustList(t *testing.T, spans ...[2]float64) UtteranceList {
	t.Helper()
	list := make(UtteranceList, 0, len(spans))
	for _, s := range spans {
		list = append(list, Utterance{Start: s[0], End: s[1], ForDubbing: true})
	}
	if err := list.Validate(); err != nil {
		t.Fatalf("test fixture invalid: %v", err)
	}
	return list
}

func textsOf(list UtteranceList) string {
	var parts []string
	for _, u := range list {
		parts = append(parts, u.TranslatedText)
	}
	return strings.Join(parts, "|")
}

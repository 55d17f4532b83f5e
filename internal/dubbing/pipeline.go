package dubbing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PostprocessingArtifacts are the final outputs of one run.
type PostprocessingArtifacts struct {
	MixedAudioPath  string `json:"mixed_audio_path"`
	DubbedVideoPath string `json:"dubbed_video_path,omitempty"`
}

// Result is what a completed run hands back to the caller.
type Result struct {
	StateDir   string
	Utterances UtteranceList
	Artifacts  PostprocessingArtifacts
}

// Run executes the full stage sequence on one input file.
func (p *implPipeline) Run(ctx context.Context, inputPath string) (*Result, error) {
	name := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	runDir := filepath.Join(p.cfg.Paths.Work, fmt.Sprintf("%s-%s", name, uuid.NewString()[:8]))
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("create run dir: %w", err)
	}

	p.logger.Info(ctx, "Starting dub of %s into %s (run dir %s)", inputPath, p.cfg.Dubbing.TargetLanguage, runDir)

	art, list, err := p.preprocess(ctx, inputPath, runDir)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}

	if list, err = p.transcribeAll(ctx, list); err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}

	if list, err = p.annotateSpeakers(ctx, list, art.AudioPath); err != nil {
		return nil, fmt.Errorf("annotate speakers: %w", err)
	}

	return p.runFromTranslate(ctx, name, runDir, art, list, p.cfg.Dubbing.TargetLanguage)
}

// Redub re-enters at synthesis with the persisted utterance list, skipping
// transcription, labeling, translation and voice assignment.
func (p *implPipeline) Redub(ctx context.Context, stateDir string) (*Result, error) {
	list, doc, err := LoadState(stateDir)
	if err != nil {
		return nil, err
	}

	p.logger.Info(ctx, "Re-dubbing %s from persisted metadata", doc.Name)
	return p.runFromSynthesize(ctx, doc.Name, doc.RunDir, &doc.Preprocessing, list, doc.TargetLanguage)
}

// RedubLanguage re-enters at translation with a new target language and
// re-runs every later stage.
func (p *implPipeline) RedubLanguage(ctx context.Context, stateDir, targetLanguage string) (*Result, error) {
	list, doc, err := LoadState(stateDir)
	if err != nil {
		return nil, err
	}

	// The new language gets fresh translations, voices and dubs.
	fresh := list.Clone()
	for i := range fresh {
		fresh[i].TranslatedText = ""
		fresh[i].AssignedVoice = ""
		fresh[i].DubbedAudioPath = ""
		fresh[i].TranslatedStart = nil
		fresh[i].TranslatedEnd = nil
	}

	p.logger.Info(ctx, "Re-dubbing %s into %s", doc.Name, targetLanguage)
	return p.runFromTranslate(ctx, doc.Name, doc.RunDir, &doc.Preprocessing, fresh, targetLanguage)
}

func (p *implPipeline) runFromTranslate(ctx context.Context, name, runDir string, art *PreprocessingArtifacts, list UtteranceList, targetLanguage string) (*Result, error) {
	if err := list.Validate(); err != nil {
		return nil, err
	}

	list, err := p.translateAll(ctx, list, targetLanguage)
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}

	if list, err = p.assignVoices(ctx, list); err != nil {
		return nil, fmt.Errorf("assign voices: %w", err)
	}

	if p.verify != nil {
		if list, err = p.verify(ctx, list); err != nil {
			return nil, fmt.Errorf("verify: %w", err)
		}
	}

	return p.runFromSynthesize(ctx, name, runDir, art, list, targetLanguage)
}

func (p *implPipeline) runFromSynthesize(ctx context.Context, name, runDir string, art *PreprocessingArtifacts, list UtteranceList, targetLanguage string) (*Result, error) {
	if err := list.Validate(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(art.BackgroundPath); err != nil {
		return nil, &AssetMissingError{Path: art.BackgroundPath}
	}

	stateDir := filepath.Join(p.cfg.Paths.Output, fmt.Sprintf("%s-%s", name, targetLanguage))
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	if p.exporter != nil && p.cfg.Dubbing.ExportScript {
		scriptPath := filepath.Join(stateDir, "script.docx")
		if err := p.exporter.Export(name, list, scriptPath); err != nil {
			p.logger.Warn(ctx, "Failed to export review script: %v", err)
		} else {
			p.logger.Info(ctx, "Review script written to %s", scriptPath)
		}
	}

	list, err := p.synthesizeAll(ctx, list, targetLanguage, filepath.Join(runDir, "dubbed"))
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	post := PostprocessingArtifacts{
		MixedAudioPath: filepath.Join(stateDir, "dubbed.wav"),
	}
	if err := p.assemble(ctx, list, art, post.MixedAudioPath); err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}

	doc := ArtifactsDoc{
		Name:           name,
		TargetLanguage: targetLanguage,
		RunDir:         runDir,
		Preprocessing:  *art,
		Postprocessing: &post,
	}
	if err := SaveState(stateDir, list, doc); err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}

	p.cleanup(ctx, runDir, list, art)

	p.logger.Info(ctx, "Dub complete: %s", post.MixedAudioPath)
	return &Result{StateDir: stateDir, Utterances: list, Artifacts: post}, nil
}

// assemble positions every dubbed chunk on the timeline and mixes it with
// the background bed.
func (p *implPipeline) assemble(ctx context.Context, list UtteranceList, art *PreprocessingArtifacts, outPath string) error {
	if err := list.requireField("dubbed_audio_path", func(u Utterance) bool {
		return u.DubbedAudioPath != ""
	}); err != nil {
		return err
	}

	placements := make([]Placement, 0, len(list))
	for i, u := range list {
		offset := u.Start
		if p.cfg.Dubbing.TranslatedTimeline {
			if u.TranslatedStart == nil {
				return &MissingFieldError{Field: "translated_start", Index: i}
			}
			offset = *u.TranslatedStart
		}

		if _, err := os.Stat(u.DubbedAudioPath); err != nil {
			return &AssetMissingError{Path: u.DubbedAudioPath}
		}

		placements = append(placements, Placement{ChunkPath: u.DubbedAudioPath, Offset: offset})
	}

	return p.assembler.Assemble(ctx, art.BackgroundPath, placements, outPath)
}

// cleanup removes run intermediates that the persisted metadata no longer
// references. Chunks and stems named by the saved list survive so a later
// re-dub can re-enter without re-running preprocessing.
func (p *implPipeline) cleanup(ctx context.Context, runDir string, list UtteranceList, art *PreprocessingArtifacts) {
	keep := map[string]bool{
		filepath.Clean(art.VocalsPath):     true,
		filepath.Clean(art.BackgroundPath): true,
	}
	for _, u := range list {
		for _, path := range []string{u.SourceAudioPath, u.VocalsAudioPath, u.DubbedAudioPath} {
			for _, part := range strings.Split(path, string(pathListSeparator)) {
				if part != "" {
					keep[filepath.Clean(part)] = true
				}
			}
		}
	}

	entriesRemoved := 0
	_ = filepath.WalkDir(runDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if keep[filepath.Clean(path)] {
			return nil
		}
		if err := os.Remove(path); err != nil {
			p.logger.Warn(ctx, "Failed to remove intermediate %s: %v", path, err)
			return nil
		}
		entriesRemoved++
		return nil
	})

	p.logger.Debug(ctx, "Cleanup removed %d intermediate files from %s", entriesRemoved, runDir)
}

package dubbing

import (
	"context"

	"github.com/nguyentantai21042004/dub-flow/internal/config"
	"github.com/nguyentantai21042004/dub-flow/internal/logger"
)

// VerifyFunc is the optional human-in-the-loop hook between voice assignment
// and synthesis. It receives the full list and returns the (possibly edited)
// list to continue with. Front ends drive EditSession inside this hook.
type VerifyFunc func(ctx context.Context, list UtteranceList) (UtteranceList, error)

// Pipeline runs the dubbing stages end to end and supports partial re-entry.
type Pipeline interface {
	// Run dubs a video or audio file from scratch.
	Run(ctx context.Context, inputPath string) (*Result, error)
	// Redub re-synthesizes from persisted metadata, skipping everything up
	// to and including voice assignment.
	Redub(ctx context.Context, stateDir string) (*Result, error)
	// RedubLanguage re-enters at translation with a new target language and
	// re-runs every later stage.
	RedubLanguage(ctx context.Context, stateDir, targetLanguage string) (*Result, error)
}

// Deps wires the external collaborators into the pipeline.
type Deps struct {
	Config      *config.Config
	Logger      logger.Logger
	Diarizer    Diarizer
	Transcriber Transcriber
	Labeler     SpeakerLabeler
	Translator  Translator
	Synthesizer Synthesizer
	Audio       AudioOps
	Assembler   Assembler
	Exporter    ScriptExporter
	Verify      VerifyFunc
}

type implPipeline struct {
	cfg         *config.Config
	logger      logger.Logger
	diarizer    Diarizer
	transcriber Transcriber
	labeler     SpeakerLabeler
	translator  Translator
	synthesizer Synthesizer
	audio       AudioOps
	assembler   Assembler
	exporter    ScriptExporter
	verify      VerifyFunc
}

// New creates a Pipeline from its collaborators. Exporter and Verify may be
// nil; those steps are skipped.
func New(d Deps) Pipeline {
	return &implPipeline{
		cfg:         d.Config,
		logger:      d.Logger,
		diarizer:    d.Diarizer,
		transcriber: d.Transcriber,
		labeler:     d.Labeler,
		translator:  d.Translator,
		synthesizer: d.Synthesizer,
		audio:       d.Audio,
		assembler:   d.Assembler,
		exporter:    d.Exporter,
		verify:      d.Verify,
	}
}

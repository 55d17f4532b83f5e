package dubbing

import "context"

// Span is a raw diarization interval before any metadata is attached.
type Span struct {
	Start float64
	End   float64
}

// SpeakerLabel is one (speaker, gender) pair returned by the labeling model,
// positionally matched to the utterance list.
type SpeakerLabel struct {
	SpeakerID string
	Gender    Gender
}

// Diarizer detects speech spans in an audio file.
type Diarizer interface {
	Diarize(ctx context.Context, audioPath string, speakerCount int) ([]Span, error)
}

// Transcriber converts one audio chunk to plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, chunkPath, language, hotwords string) (string, error)
}

// SpeakerLabeler assigns one label per transcript line, in order.
type SpeakerLabeler interface {
	LabelSpeakers(ctx context.Context, lines []string, mediaPath string, speakerCount int) ([]SpeakerLabel, error)
}

// Translator translates a delimiter-joined script in a single call and
// returns the raw response blob; the pipeline splits and validates it.
type Translator interface {
	Translate(ctx context.Context, script, sourceLanguage, targetLanguage string) (string, error)
}

// Synthesizer renders text to speech into outPath as WAV.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice, language, outPath string) error
}

// AudioOps covers the source-material operations stages need: extraction,
// vocal separation, chunk cutting and duration fitting.
type AudioOps interface {
	ExtractAudio(ctx context.Context, videoPath, outPath string) error
	SeparateVocals(ctx context.Context, audioPath, vocalsOut, backgroundOut string) error
	Cut(ctx context.Context, srcPath string, start, end float64, outPath string) error
	Duration(ctx context.Context, path string) (float64, error)
	FitToSlot(ctx context.Context, path string, slotSeconds, minSeconds float64, outPath string) (float64, error)
}

// Placement positions one dubbed chunk on the output timeline.
type Placement struct {
	ChunkPath string
	Offset    float64
}

// Assembler mixes positioned dubbed chunks with the background bed into one
// track.
type Assembler interface {
	Assemble(ctx context.Context, backgroundPath string, placements []Placement, outPath string) error
}

// ScriptExporter writes a human-reviewable dubbing script for an utterance
// list. Optional; a nil exporter skips the step.
type ScriptExporter interface {
	Export(title string, list UtteranceList, outPath string) error
}

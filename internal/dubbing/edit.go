package dubbing

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/dub-flow/internal/config"
	"github.com/nguyentantai21042004/dub-flow/internal/logger"
)

// EditSession applies human-driven mutations to an utterance list between
// voice assignment and synthesis, recomputing only the downstream fields the
// mutation invalidates. Any front end can drive it; the session itself never
// prompts. Callers must serialize operations against a running pipeline —
// the list is owned by whoever holds it.
type EditSession struct {
	cfg         *config.Config
	logger      logger.Logger
	audio       AudioOps
	transcriber Transcriber
	translator  Translator
	art         *PreprocessingArtifacts
}

// NewEditSession creates a session bound to one run's preprocessing
// artifacts, which supply the source material for re-cutting chunks.
func NewEditSession(cfg *config.Config, log logger.Logger, audio AudioOps, transcriber Transcriber, translator Translator, art *PreprocessingArtifacts) *EditSession {
	return &EditSession{
		cfg:         cfg,
		logger:      log,
		audio:       audio,
		transcriber: transcriber,
		translator:  translator,
		art:         art,
	}
}

// ApplyEdit replaces the record at index (0-based; 0 is a valid index, not
// "no index") with the edited version. A timing change re-cuts and
// re-transcribes the chunk; a text change re-translates when retranslate is
// set. Returns the new list and the edited record's 1-based position after
// re-sorting.
func (s *EditSession) ApplyEdit(ctx context.Context, list UtteranceList, index int, edited Utterance, retranslate bool) (UtteranceList, int, error) {
	if index < 0 || index >= len(list) {
		return nil, 0, fmt.Errorf("edit index %d out of range [0, %d)", index, len(list))
	}
	if edited.End <= edited.Start {
		return nil, 0, &TimingInvariantError{
			Reason: fmt.Sprintf("edited utterance has end %.3f <= start %.3f", edited.End, edited.Start),
		}
	}

	orig := list[index]
	timingChanged := edited.Start != orig.Start || edited.End != orig.End
	textChanged := edited.OriginalText != orig.OriginalText

	if timingChanged {
		if err := s.recut(ctx, &edited); err != nil {
			return nil, 0, err
		}
		textChanged = true
	}

	if textChanged && retranslate {
		translated, err := s.translateOne(ctx, edited.OriginalText)
		if err != nil {
			return nil, 0, err
		}
		edited.TranslatedText = translated
	}

	if timingChanged || textChanged {
		// The previous dub no longer matches this record.
		edited.DubbedAudioPath = ""
		edited.TranslatedStart = nil
		edited.TranslatedEnd = nil
	}

	out := list.Clone()
	out[index] = edited
	out = out.Sorted()
	if err := out.Validate(); err != nil {
		return nil, 0, err
	}

	pos, err := positionOf(out, edited)
	if err != nil {
		return nil, 0, err
	}
	return out, pos, nil
}

// ApplyAdd creates a new record from user-supplied timing and speaker info,
// cuts and transcribes its chunk and translates the text. Returns the new
// list and the added record's 1-based position.
func (s *EditSession) ApplyAdd(ctx context.Context, list UtteranceList, start, end float64, speakerID string, gender Gender) (UtteranceList, int, error) {
	if end <= start {
		return nil, 0, &TimingInvariantError{
			Reason: fmt.Sprintf("added utterance has end %.3f <= start %.3f", end, start),
		}
	}

	added := Utterance{
		Start:      start,
		End:        end,
		SpeakerID:  speakerID,
		Gender:     gender,
		ForDubbing: true,
	}
	if err := s.recut(ctx, &added); err != nil {
		return nil, 0, err
	}

	translated, err := s.translateOne(ctx, added.OriginalText)
	if err != nil {
		return nil, 0, err
	}
	added.TranslatedText = translated

	out := append(list.Clone(), added)
	out = out.Sorted()
	if err := out.Validate(); err != nil {
		return nil, 0, err
	}

	pos, err := positionOf(out, added)
	if err != nil {
		return nil, 0, err
	}
	return out, pos, nil
}

// ApplyRemove marks a record as not-for-dubbing instead of deleting it: the
// original vocals fill that slot verbatim in the final mix.
func (s *EditSession) ApplyRemove(list UtteranceList, index int) (UtteranceList, int, error) {
	if index < 0 || index >= len(list) {
		return nil, 0, fmt.Errorf("remove index %d out of range [0, %d)", index, len(list))
	}

	out := list.Clone()
	u := &out[index]
	u.ForDubbing = false
	if u.VocalsAudioPath != "" {
		u.DubbedAudioPath = u.VocalsAudioPath
	} else {
		u.DubbedAudioPath = u.SourceAudioPath
	}
	return out, index + 1, nil
}

// ReassignVoices re-runs voice assignment over the whole list. Explicitly
// opt-in after edits: it can silently change previously approved voices for
// unrelated speakers, so it never happens automatically.
func (s *EditSession) ReassignVoices(ctx context.Context, list UtteranceList) (UtteranceList, error) {
	out := list.Clone()
	for i := range out {
		out[i].AssignedVoice = ""
	}
	return assignVoiceList(ctx, s.logger, out, s.cfg.Dubbing.PreferredVoices)
}

// recut extracts the record's chunk (and vocals chunk when cloning) from the
// run's source material and re-transcribes it.
func (s *EditSession) recut(ctx context.Context, u *Utterance) error {
	suffix := uuid.NewString()[:8]
	u.SourceAudioPath = filepath.Join(s.art.ChunkDir, fmt.Sprintf("chunk_edit_%s.wav", suffix))
	if err := s.audio.Cut(ctx, s.art.AudioPath, u.Start, u.End, u.SourceAudioPath); err != nil {
		return fmt.Errorf("re-cut chunk: %w", err)
	}

	if s.cfg.Dubbing.VoiceClone {
		u.VocalsAudioPath = filepath.Join(s.art.ChunkDir, fmt.Sprintf("vocals_edit_%s.wav", suffix))
		if err := s.audio.Cut(ctx, s.art.VocalsPath, u.Start, u.End, u.VocalsAudioPath); err != nil {
			return fmt.Errorf("re-cut vocals chunk: %w", err)
		}
	}

	text, err := s.transcriber.Transcribe(ctx, u.SourceAudioPath,
		s.cfg.Dubbing.SourceLanguage, s.cfg.Whisper.Hotwords)
	if err != nil {
		return fmt.Errorf("re-transcribe chunk: %w", err)
	}
	u.OriginalText = text
	return nil
}

func (s *EditSession) translateOne(ctx context.Context, text string) (string, error) {
	segments, err := Retry(ctx, s.logger, s.cfg.Dubbing.MaxRetries, "single-utterance translation", func(ctx context.Context) ([]string, error) {
		raw, err := s.translator.Translate(ctx, text,
			s.cfg.Dubbing.SourceLanguage, s.cfg.Dubbing.TargetLanguage)
		if err != nil {
			return nil, err
		}
		return splitScript(raw, 1)
	})
	if err != nil {
		return "", err
	}
	return segments[0], nil
}

// positionOf reports the 1-based position of the record with u's span. Spans
// are unique by the list invariant.
func positionOf(list UtteranceList, u Utterance) (int, error) {
	for i, candidate := range list {
		if candidate.Start == u.Start && candidate.End == u.End {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("utterance [%.3f, %.3f] not found after re-sort", u.Start, u.End)
}

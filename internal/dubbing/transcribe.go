package dubbing

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// transcribeAll fills original_text for every utterance and flags records
// matching a configured do-not-dub phrase so they pass through untranslated.
func (p *implPipeline) transcribeAll(ctx context.Context, list UtteranceList) (UtteranceList, error) {
	if err := list.requireField("source_audio_path", func(u Utterance) bool {
		return u.SourceAudioPath != ""
	}); err != nil {
		return nil, err
	}

	out := list.Clone()
	for i := range out {
		text, err := p.transcriber.Transcribe(ctx, out[i].SourceAudioPath,
			p.cfg.Dubbing.SourceLanguage, p.cfg.Whisper.Hotwords)
		if err != nil {
			return nil, fmt.Errorf("transcribe utterance %d: %w", i, err)
		}

		out[i].OriginalText = text
		if p.matchesNoDubPhrase(text) {
			p.logger.Info(ctx, "Utterance %d matches a do-not-dub phrase, passing through", i)
			out[i].ForDubbing = false
		}
	}

	return out, nil
}

// matchesNoDubPhrase does a case-insensitive, punctuation-stripped substring
// match against the configured phrase list.
func (p *implPipeline) matchesNoDubPhrase(text string) bool {
	normalized := normalizePhrase(text)
	for _, phrase := range p.cfg.Dubbing.NoDubPhrases {
		np := normalizePhrase(phrase)
		if np != "" && strings.Contains(normalized, np) {
			return true
		}
	}
	return false
}

func normalizePhrase(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

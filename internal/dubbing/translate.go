package dubbing

import (
	"context"
	"strings"
)

// ScriptDelimiter joins utterances into the single script sent to the
// translation model, and splits its response back into segments.
const ScriptDelimiter = "<BREAK>"

// NoTranslateSentinel is what the model returns for an utterance that should
// be dropped from the dub entirely (jingles, brand lines already in the
// target language).
const NoTranslateSentinel = "<DO NOT TRANSLATE>"

// translateAll sends the whole script in one call, splits the response on the
// delimiter and assigns translated_text positionally. A segment equal to the
// sentinel removes its utterance from the list. Segment-count mismatches are
// ValidationErrors and retried up to the bound.
func (p *implPipeline) translateAll(ctx context.Context, list UtteranceList, targetLanguage string) (UtteranceList, error) {
	if err := list.requireField("original_text", func(u Utterance) bool {
		return u.OriginalText != ""
	}); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return UtteranceList{}, nil
	}

	texts := make([]string, len(list))
	for i, u := range list {
		texts[i] = u.OriginalText
	}
	script := strings.Join(texts, " "+ScriptDelimiter+" ")

	segments, err := Retry(ctx, p.logger, p.cfg.Dubbing.MaxRetries, "translation", func(ctx context.Context) ([]string, error) {
		raw, err := p.translator.Translate(ctx, script, p.cfg.Dubbing.SourceLanguage, targetLanguage)
		if err != nil {
			return nil, err
		}
		return splitScript(raw, len(list))
	})
	if err != nil {
		return nil, err
	}

	out := make(UtteranceList, 0, len(list))
	dropped := 0
	for i, u := range list {
		if segments[i] == NoTranslateSentinel {
			dropped++
			continue
		}
		u.TranslatedText = segments[i]
		out = append(out, u)
	}

	if dropped > 0 {
		p.logger.Info(ctx, "Dropped %d utterances marked do-not-translate", dropped)
	}
	return out, nil
}

// splitScript cuts the model response on the delimiter and validates the
// segment count against the utterance count.
func splitScript(raw string, want int) ([]string, error) {
	parts := strings.Split(raw, ScriptDelimiter)
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		segments = append(segments, strings.TrimSpace(part))
	}

	if len(segments) != want {
		return nil, validationErrorf("translation returned %d segments for %d utterances", len(segments), want)
	}

	return segments, nil
}

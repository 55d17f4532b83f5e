package dubbing

import (
	"context"

	"github.com/nguyentantai21042004/dub-flow/internal/config"
	"github.com/nguyentantai21042004/dub-flow/internal/logger"
)

// annotateSpeakers asks the labeling collaborator for one (speaker, gender)
// pair per utterance in a single call over the whole transcript, retried on
// malformed output. A returned count that differs from the utterance count is
// a ValidationError raised by the collaborator's parser.
func (p *implPipeline) annotateSpeakers(ctx context.Context, list UtteranceList, mediaPath string) (UtteranceList, error) {
	if err := list.requireField("original_text", func(u Utterance) bool {
		return u.OriginalText != ""
	}); err != nil {
		return nil, err
	}

	lines := make([]string, len(list))
	for i, u := range list {
		lines[i] = u.OriginalText
	}

	labels, err := Retry(ctx, p.logger, p.cfg.Dubbing.MaxRetries, "speaker labeling", func(ctx context.Context) ([]SpeakerLabel, error) {
		return p.labeler.LabelSpeakers(ctx, lines, mediaPath, p.cfg.Diarization.SpeakerCount)
	})
	if err != nil {
		return nil, err
	}
	if len(labels) != len(list) {
		return nil, validationErrorf("labeler returned %d labels for %d utterances", len(labels), len(list))
	}

	out := list.Clone()
	for i := range out {
		out[i].SpeakerID = labels[i].SpeakerID
		out[i].Gender = labels[i].Gender
	}

	p.logger.Info(ctx, "Annotated %d utterances with speaker labels", len(out))
	return out, nil
}

// assignVoices deterministically maps each unique speaker to a preferred
// voice of the matching gender, never reusing a voice across speakers within
// one run. Speakers with no available preferred voice keep an empty
// assignment; synthesis falls back to the model default.
func (p *implPipeline) assignVoices(ctx context.Context, list UtteranceList) (UtteranceList, error) {
	return assignVoiceList(ctx, p.logger, list, p.cfg.Dubbing.PreferredVoices)
}

func assignVoiceList(ctx context.Context, log logger.Logger, list UtteranceList, voices []config.Voice) (UtteranceList, error) {
	if err := list.requireField("speaker_id", func(u Utterance) bool {
		return u.SpeakerID != ""
	}); err != nil {
		return nil, err
	}

	assigned := make(map[string]string) // speaker -> voice
	used := make(map[string]bool)       // voice -> taken

	out := list.Clone()
	for i := range out {
		u := &out[i]
		if voice, ok := assigned[u.SpeakerID]; ok {
			u.AssignedVoice = voice
			continue
		}

		voice := pickVoice(voices, u.Gender, used)
		assigned[u.SpeakerID] = voice
		if voice != "" {
			used[voice] = true
			log.Info(ctx, "Speaker %s (%s) assigned voice %s", u.SpeakerID, u.Gender, voice)
		} else {
			log.Warn(ctx, "No preferred voice left for speaker %s (%s), using model default", u.SpeakerID, u.Gender)
		}
		u.AssignedVoice = voice
	}

	return out, nil
}

func pickVoice(voices []config.Voice, gender Gender, used map[string]bool) string {
	for _, v := range voices {
		if used[v.Name] {
			continue
		}
		if genderMatches(gender, v.Gender) {
			return v.Name
		}
	}
	return ""
}

// genderMatches treats neutral on either side as a wildcard.
func genderMatches(speaker Gender, voice string) bool {
	if speaker == GenderNeutral || voice == "" || voice == string(GenderNeutral) {
		return true
	}
	return string(speaker) == voice
}

package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/dub-flow/internal/dubbing"
)

const labelPrompt = `You are labeling the speakers of a dubbed advertisement.
Below is the full transcript, one utterance per line, in timeline order.
There are at most %d distinct speakers.

For every utterance output exactly one line of the form:

speaker_id,gender

where speaker_id is a stable identifier such as speaker_1 and gender is one
of male, female or neutral. Output exactly %d lines, in the same order as the
input, with no extra commentary.

Transcript:
%s`

// LabelSpeakers asks the text model for one (speaker, gender) pair per
// transcript line, attaching the source audio when available so the model
// can judge voices, not just text. Count mismatches and unparsable lines
// surface as ValidationError so the retry wrapper can re-ask.
func (c *Client) LabelSpeakers(ctx context.Context, lines []string, mediaPath string, speakerCount int) ([]dubbing.SpeakerLabel, error) {
	prompt := fmt.Sprintf(labelPrompt, speakerCount, len(lines), numberedTranscript(lines))

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if mediaPath != "" {
		audio, err := os.ReadFile(mediaPath)
		if err != nil {
			return nil, fmt.Errorf("read media for labeling: %w", err)
		}
		parts = append(parts, genai.NewPartFromBytes(audio, "audio/wav"))
	}

	result, err := c.generate(ctx, c.textModel, []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil)
	if err != nil {
		return nil, err
	}

	var raw strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		raw.WriteString(part.Text)
	}

	return parseLabels(raw.String(), len(lines))
}

func numberedTranscript(lines []string) string {
	var b strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&b, "%d. %s\n", i+1, line)
	}
	return b.String()
}

func parseLabels(raw string, want int) ([]dubbing.SpeakerLabel, error) {
	var labels []dubbing.SpeakerLabel
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			return nil, &dubbing.ValidationError{
				Reason: fmt.Sprintf("unparsable speaker label line %q", line),
			}
		}

		gender, err := parseGender(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, err
		}

		labels = append(labels, dubbing.SpeakerLabel{
			SpeakerID: strings.TrimSpace(parts[0]),
			Gender:    gender,
		})
	}

	if len(labels) != want {
		return nil, &dubbing.ValidationError{
			Reason: fmt.Sprintf("expected %d speaker labels, got %d", want, len(labels)),
		}
	}

	return labels, nil
}

func parseGender(s string) (dubbing.Gender, error) {
	switch strings.ToLower(s) {
	case "male":
		return dubbing.GenderMale, nil
	case "female":
		return dubbing.GenderFemale, nil
	case "neutral":
		return dubbing.GenderNeutral, nil
	default:
		return "", &dubbing.ValidationError{Reason: fmt.Sprintf("unknown gender %q", s)}
	}
}

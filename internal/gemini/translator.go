package gemini

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/dub-flow/internal/dubbing"
)

const translatePrompt = `You are translating the script of an advertisement
for dubbing, from %s to %s.

The script below is a sequence of utterances joined by the token %s.
Translate each utterance naturally and concisely, keeping roughly the spoken
length of the original so the dub fits its time slot.

Rules:
- Output the translated utterances joined by the exact same token %s, in the
  same order, one translated segment per input segment.
- If an utterance must not be translated (brand names, jingles, legal
  disclaimers already in the target language) output exactly %s for it.
- Output nothing else: no commentary, no numbering.

Script:
%s`

// Translate sends the full delimiter-joined script in one call and returns
// the raw response; the pipeline splits on the delimiter and validates the
// segment count.
func (c *Client) Translate(ctx context.Context, script, sourceLanguage, targetLanguage string) (string, error) {
	prompt := fmt.Sprintf(translatePrompt,
		sourceLanguage, targetLanguage,
		dubbing.ScriptDelimiter, dubbing.ScriptDelimiter,
		dubbing.NoTranslateSentinel,
		script,
	)

	return c.generateText(ctx, prompt)
}

package asr

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/dub-flow/internal/dubbing"
)

// Diarize runs the configured diarization command and parses its output:
// one "start<TAB>end" line per detected speech span, seconds as decimals.
// Malformed output is a ValidationError so the caller's retry wrapper can
// re-run the command.
func (d *implDiarizer) Diarize(ctx context.Context, audioPath string, speakerCount int) ([]dubbing.Span, error) {
	d.logger.Info(ctx, "Diarizing %s (up to %d speakers)", audioPath, speakerCount)

	args := []string{
		"--audio", audioPath,
		"--num-speakers", strconv.Itoa(speakerCount),
	}

	out, err := d.executor.Execute(ctx, d.cfg.Diarization.BinaryPath, args...)
	if err != nil {
		return nil, fmt.Errorf("diarization command: %w", err)
	}

	var spans []dubbing.Span
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, &dubbing.ValidationError{
				Reason: fmt.Sprintf("unparsable diarization line %q", line),
			}
		}

		start, err1 := strconv.ParseFloat(fields[0], 64)
		end, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil || end <= start {
			return nil, &dubbing.ValidationError{
				Reason: fmt.Sprintf("invalid diarization span %q", line),
			}
		}

		spans = append(spans, dubbing.Span{Start: start, End: end})
	}

	d.logger.Info(ctx, "Diarization found %d speech spans", len(spans))
	return spans, nil
}

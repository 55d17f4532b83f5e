package dubbing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// synthesizeAll renders target-language speech for every dubbable utterance
// on a bounded worker pool. Each worker owns exactly one index of the output
// list, so no locking beyond the pool bound is needed. A single utterance
// failing synthesis falls back to its original chunk with a warning instead
// of aborting the run.
func (p *implPipeline) synthesizeAll(ctx context.Context, list UtteranceList, targetLanguage, dubDir string) (UtteranceList, error) {
	if err := list.requireField("translated_text", func(u Utterance) bool {
		return !u.ForDubbing || u.TranslatedText != ""
	}); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dubDir, 0755); err != nil {
		return nil, fmt.Errorf("create dub dir: %w", err)
	}

	out := list.Clone()
	sem := newSemaphore(p.cfg.Performance.MaxConcurrent)
	var wg sync.WaitGroup

	for i := range out {
		if !out[i].ForDubbing {
			out[i] = p.passThrough(out[i])
			continue
		}

		if err := sem.acquire(ctx); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.release()
			out[i] = p.synthesizeOne(ctx, out[i], i, targetLanguage, dubDir)
		}(i)
	}

	wg.Wait()
	return out, nil
}

// passThrough keeps the original chunk in the dubbed slot, preferring the
// isolated vocals when available.
func (p *implPipeline) passThrough(u Utterance) Utterance {
	if u.VocalsAudioPath != "" {
		u.DubbedAudioPath = u.VocalsAudioPath
	} else {
		u.DubbedAudioPath = u.SourceAudioPath
	}
	start, end := u.Start, u.End
	u.TranslatedStart = &start
	u.TranslatedEnd = &end
	return u
}

func (p *implPipeline) synthesizeOne(ctx context.Context, u Utterance, index int, targetLanguage, dubDir string) Utterance {
	rawPath := filepath.Join(dubDir, fmt.Sprintf("dub_%04d_raw.wav", index))

	_, err := Retry(ctx, p.logger, p.cfg.Dubbing.MaxRetries, fmt.Sprintf("synthesis of utterance %d", index), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.synthesizer.Synthesize(ctx, u.TranslatedText, u.AssignedVoice, targetLanguage, rawPath)
	})
	if err != nil {
		p.logger.Warn(ctx, "Synthesis failed for utterance %d, falling back to original audio: %v", index, err)
		return p.passThrough(u)
	}

	fittedPath := filepath.Join(dubDir, fmt.Sprintf("dub_%04d.wav", index))
	duration, err := p.audio.FitToSlot(ctx, rawPath, u.Duration(), p.cfg.Dubbing.MinStretchDuration, fittedPath)
	if err != nil {
		p.logger.Warn(ctx, "Duration fit failed for utterance %d, using unstretched dub: %v", index, err)
		fittedPath = rawPath
		duration = u.Duration()
	} else {
		os.Remove(rawPath)
	}

	u.DubbedAudioPath = fittedPath
	start := u.Start
	end := u.Start + duration
	u.TranslatedStart = &start
	u.TranslatedEnd = &end
	return u
}

package dubbing

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestSynthesizeAll(t *testing.T) {
	ctx := context.Background()
	dubDir := t.TempDir()

	list := UtteranceList{
		{Start: 0, End: 2, ForDubbing: true, TranslatedText: "xin chào", AssignedVoice: "Kore", SourceAudioPath: "c0.wav"},
		{Start: 3, End: 4, ForDubbing: false, OriginalText: "jingle", SourceAudioPath: "c1.wav", VocalsAudioPath: "v1.wav"},
		{Start: 5, End: 7, ForDubbing: true, TranslatedText: "tạm biệt", SourceAudioPath: "c2.wav"},
	}

	p := testPipeline(testConfig())
	p.synthesizer = &fakeSynthesizer{}
	p.audio = &fakeAudio{}

	got, err := p.synthesizeAll(ctx, list, "vi", dubDir)
	if err != nil {
		t.Fatalf("synthesizeAll() error = %v", err)
	}

	if got[0].DubbedAudioPath != filepath.Join(dubDir, "dub_0000.wav") {
		t.Errorf("dub path = %q", got[0].DubbedAudioPath)
	}
	if got[0].TranslatedStart == nil || *got[0].TranslatedStart != 0 {
		t.Error("translated start not tracked")
	}
	if got[0].TranslatedEnd == nil || *got[0].TranslatedEnd != 2 {
		t.Errorf("translated end not tracked, got %v", got[0].TranslatedEnd)
	}

	// The no-dub record passes its vocals through untouched.
	if got[1].DubbedAudioPath != "v1.wav" {
		t.Errorf("pass-through path = %q, want v1.wav", got[1].DubbedAudioPath)
	}

	if got[2].DubbedAudioPath != filepath.Join(dubDir, "dub_0002.wav") {
		t.Errorf("dub path = %q", got[2].DubbedAudioPath)
	}
}

func TestSynthesizeAllFailureFallsBackToOriginal(t *testing.T) {
	ctx := context.Background()
	dubDir := t.TempDir()

	list := UtteranceList{
		{Start: 0, End: 2, ForDubbing: true, TranslatedText: "xin chào", SourceAudioPath: "c0.wav"},
	}

	fake := &fakeSynthesizer{err: &ValidationError{Reason: "no audio"}}
	p := testPipeline(testConfig())
	p.synthesizer = fake
	p.audio = &fakeAudio{}

	got, err := p.synthesizeAll(ctx, list, "vi", dubDir)
	if err != nil {
		t.Fatalf("one bad utterance must not abort the run, got %v", err)
	}

	if fake.calls != 5 {
		t.Errorf("synthesizer called %d times, want the full retry budget", fake.calls)
	}
	if got[0].DubbedAudioPath != "c0.wav" {
		t.Errorf("fallback path = %q, want original chunk", got[0].DubbedAudioPath)
	}
}

func TestSynthesizeAllRequiresTranslatedText(t *testing.T) {
	ctx := context.Background()

	list := UtteranceList{{Start: 0, End: 1, ForDubbing: true, SourceAudioPath: "c.wav"}}

	p := testPipeline(testConfig())
	p.synthesizer = &fakeSynthesizer{}
	p.audio = &fakeAudio{}

	_, err := p.synthesizeAll(ctx, list, "vi", t.TempDir())
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("want MissingFieldError, got %v", err)
	}
}

package dubbing

import (
	"context"
	"errors"
	"testing"
)

func withTexts(list UtteranceList, texts ...string) UtteranceList {
	out := list.Clone()
	for i := range out {
		out[i].OriginalText = texts[i]
	}
	return out
}

func TestTranslateAllAssignsSegments(t *testing.T) {
	ctx := context.Background()
	list := withTexts(mustList(t, [2]float64{0, 1}, [2]float64{2, 3}), "hello", "bye")

	p := testPipeline(testConfig())
	p.translator = &fakeTranslator{responses: []string{"xin chào <BREAK> tạm biệt"}}

	got, err := p.translateAll(ctx, list, "vi")
	if err != nil {
		t.Fatalf("translateAll() error = %v", err)
	}
	if textsOf(got) != "xin chào|tạm biệt" {
		t.Errorf("translations = %q", textsOf(got))
	}
	// The source list must be untouched.
	if list[0].TranslatedText != "" {
		t.Error("input list was mutated")
	}
}

func TestTranslateAllSegmentCountMismatchRetriesThenFails(t *testing.T) {
	ctx := context.Background()
	list := withTexts(mustList(t, [2]float64{0, 1}, [2]float64{2, 3}), "a", "b")

	fake := &fakeTranslator{responses: []string{"only one segment"}}
	p := testPipeline(testConfig())
	p.translator = fake

	_, err := p.translateAll(ctx, list, "vi")
	if err == nil {
		t.Fatal("expected error on segment count mismatch")
	}
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("want ValidationError, got %v", err)
	}
	if fake.calls != 5 {
		t.Errorf("translator called %d times, want the full retry budget of 5", fake.calls)
	}
}

func TestTranslateAllRecoversOnRetry(t *testing.T) {
	ctx := context.Background()
	list := withTexts(mustList(t, [2]float64{0, 1}, [2]float64{2, 3}), "a", "b")

	fake := &fakeTranslator{responses: []string{
		"broken response",
		"một <BREAK> hai",
	}}
	p := testPipeline(testConfig())
	p.translator = fake

	got, err := p.translateAll(ctx, list, "vi")
	if err != nil {
		t.Fatalf("translateAll() error = %v", err)
	}
	if fake.calls != 2 {
		t.Errorf("translator called %d times, want 2", fake.calls)
	}
	if textsOf(got) != "một|hai" {
		t.Errorf("translations = %q", textsOf(got))
	}
}

func TestTranslateAllDropsSentinelSegments(t *testing.T) {
	ctx := context.Background()
	list := withTexts(
		mustList(t, [2]float64{0, 1}, [2]float64{2, 3}, [2]float64{4, 5}),
		"intro", "Brand Jingle", "outro",
	)

	p := testPipeline(testConfig())
	p.translator = &fakeTranslator{responses: []string{
		"mở đầu <BREAK> " + NoTranslateSentinel + " <BREAK> kết thúc",
	}}

	got, err := p.translateAll(ctx, list, "vi")
	if err != nil {
		t.Fatalf("translateAll() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 after dropping one sentinel", len(got))
	}
	if got[0].Start != 0 || got[1].Start != 4 {
		t.Errorf("wrong utterances survived: %v", spansOf(got))
	}
}

func TestTranslateAllRequiresOriginalText(t *testing.T) {
	ctx := context.Background()
	list := mustList(t, [2]float64{0, 1})

	p := testPipeline(testConfig())
	p.translator = &fakeTranslator{responses: []string{"x"}}

	_, err := p.translateAll(ctx, list, "vi")
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("want MissingFieldError, got %v", err)
	}
	if missing.Field != "original_text" {
		t.Errorf("missing field = %q", missing.Field)
	}
}

func TestTranslateAllEmptyList(t *testing.T) {
	p := testPipeline(testConfig())
	p.translator = &fakeTranslator{responses: []string{""}}

	got, err := p.translateAll(context.Background(), UtteranceList{}, "vi")
	if err != nil || len(got) != 0 {
		t.Errorf("empty list should pass through, got %v, %v", got, err)
	}
}

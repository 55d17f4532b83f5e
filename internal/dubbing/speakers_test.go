package dubbing

import (
	"context"
	"errors"
	"testing"
)

func TestAnnotateSpeakers(t *testing.T) {
	ctx := context.Background()
	list := withTexts(mustList(t, [2]float64{0, 1}, [2]float64{2, 3}), "hi", "there")

	p := testPipeline(testConfig())
	p.labeler = &fakeLabeler{labels: []SpeakerLabel{
		{SpeakerID: "speaker_1", Gender: GenderFemale},
		{SpeakerID: "speaker_2", Gender: GenderMale},
	}}

	got, err := p.annotateSpeakers(ctx, list, "media.wav")
	if err != nil {
		t.Fatalf("annotateSpeakers() error = %v", err)
	}
	if got[0].SpeakerID != "speaker_1" || got[0].Gender != GenderFemale {
		t.Errorf("first utterance labeled %s/%s", got[0].SpeakerID, got[0].Gender)
	}
	if got[1].SpeakerID != "speaker_2" || got[1].Gender != GenderMale {
		t.Errorf("second utterance labeled %s/%s", got[1].SpeakerID, got[1].Gender)
	}
}

func TestAnnotateSpeakersValidationErrorExhaustsRetries(t *testing.T) {
	ctx := context.Background()
	list := withTexts(mustList(t, [2]float64{0, 1}), "hi")

	fake := &fakeLabeler{err: &ValidationError{Reason: "count mismatch"}}
	p := testPipeline(testConfig())
	p.labeler = fake

	_, err := p.annotateSpeakers(ctx, list, "media.wav")
	if err == nil {
		t.Fatal("expected error")
	}
	if fake.calls != 5 {
		t.Errorf("labeler called %d times, want 5", fake.calls)
	}
}

func TestAssignVoices(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	list := UtteranceList{
		{Start: 0, End: 1, SpeakerID: "s1", Gender: GenderFemale, ForDubbing: true},
		{Start: 2, End: 3, SpeakerID: "s2", Gender: GenderFemale, ForDubbing: true},
		{Start: 4, End: 5, SpeakerID: "s1", Gender: GenderFemale, ForDubbing: true},
		{Start: 6, End: 7, SpeakerID: "s3", Gender: GenderMale, ForDubbing: true},
	}

	p := testPipeline(cfg)
	got, err := p.assignVoices(ctx, list)
	if err != nil {
		t.Fatalf("assignVoices() error = %v", err)
	}

	if got[0].AssignedVoice != "Kore" {
		t.Errorf("s1 voice = %q, want Kore (first female preference)", got[0].AssignedVoice)
	}
	if got[1].AssignedVoice != "Aoede" {
		t.Errorf("s2 voice = %q, want Aoede (Kore already taken)", got[1].AssignedVoice)
	}
	if got[2].AssignedVoice != "Kore" {
		t.Errorf("s1 second utterance voice = %q, want stable Kore", got[2].AssignedVoice)
	}
	if got[3].AssignedVoice != "Puck" {
		t.Errorf("s3 voice = %q, want Puck", got[3].AssignedVoice)
	}
}

func TestAssignVoicesExhaustedGenderFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	list := UtteranceList{
		{Start: 0, End: 1, SpeakerID: "m1", Gender: GenderMale, ForDubbing: true},
		{Start: 2, End: 3, SpeakerID: "m2", Gender: GenderMale, ForDubbing: true},
	}

	p := testPipeline(cfg)
	got, err := p.assignVoices(ctx, list)
	if err != nil {
		t.Fatalf("assignVoices() error = %v", err)
	}

	if got[0].AssignedVoice != "Puck" {
		t.Errorf("m1 voice = %q, want Puck", got[0].AssignedVoice)
	}
	if got[1].AssignedVoice != "" {
		t.Errorf("m2 voice = %q, want empty (model default)", got[1].AssignedVoice)
	}
}

func TestAssignVoicesRequiresSpeakerID(t *testing.T) {
	p := testPipeline(testConfig())

	_, err := p.assignVoices(context.Background(), mustList(t, [2]float64{0, 1}))
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("want MissingFieldError, got %v", err)
	}
}

func TestGenderMatches(t *testing.T) {
	tests := []struct {
		name    string
		speaker Gender
		voice   string
		want    bool
	}{
		{"same gender", GenderFemale, "female", true},
		{"different gender", GenderFemale, "male", false},
		{"neutral speaker matches any", GenderNeutral, "male", true},
		{"neutral voice matches any", GenderMale, "neutral", true},
		{"untagged voice matches any", GenderMale, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := genderMatches(tt.speaker, tt.voice); got != tt.want {
				t.Errorf("genderMatches(%s, %s) = %v, want %v", tt.speaker, tt.voice, got, tt.want)
			}
		})
	}
}

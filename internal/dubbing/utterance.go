package dubbing

import (
	"fmt"
	"sort"
)

// Gender of the voice detected for a speaker.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderNeutral Gender = "neutral"
)

// Utterance is one detected speech segment and everything the pipeline has
// learned about it so far. Fields are filled in stage by stage; a stage that
// needs a field the previous stages never set fails with MissingFieldError
// instead of defaulting.
type Utterance struct {
	Start           float64 `json:"start"`
	End             float64 `json:"end"`
	SourceAudioPath string  `json:"source_audio_path,omitempty"`
	VocalsAudioPath string  `json:"vocals_audio_path,omitempty"`
	OriginalText    string  `json:"original_text,omitempty"`
	ForDubbing      bool    `json:"for_dubbing"`
	SpeakerID       string  `json:"speaker_id,omitempty"`
	Gender          Gender  `json:"voice_gender,omitempty"`
	TranslatedText  string  `json:"translated_text,omitempty"`
	AssignedVoice   string  `json:"assigned_voice,omitempty"`
	DubbedAudioPath string  `json:"dubbed_audio_path,omitempty"`

	// Translated timeline, maintained separately from Start/End once synthesis
	// may have stretched a chunk. Nil until the synthesize stage runs.
	TranslatedStart *float64 `json:"translated_start,omitempty"`
	TranslatedEnd   *float64 `json:"translated_end,omitempty"`
}

// Duration returns the length of the original slot in seconds.
func (u Utterance) Duration() float64 {
	return u.End - u.Start
}

// UtteranceList is the ordered sequence of utterances threaded through every
// pipeline stage. Stages never mutate their input; they clone, transform and
// return a new list.
type UtteranceList []Utterance

// Clone returns a deep copy of the list.
func (l UtteranceList) Clone() UtteranceList {
	out := make(UtteranceList, len(l))
	copy(out, l)
	return out
}

// Sorted returns a copy ordered by (start, end).
func (l UtteranceList) Sorted() UtteranceList {
	out := l.Clone()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})
	return out
}

// Validate checks the list invariants: every span has end > start, the list
// is sorted by (start, end), and no two records share an identical span.
func (l UtteranceList) Validate() error {
	for i, u := range l {
		if u.End <= u.Start {
			return &TimingInvariantError{
				Reason: fmt.Sprintf("utterance %d has end %.3f <= start %.3f", i, u.End, u.Start),
			}
		}
		if i == 0 {
			continue
		}
		prev := l[i-1]
		if u.Start < prev.Start || (u.Start == prev.Start && u.End < prev.End) {
			return &TimingInvariantError{
				Reason: fmt.Sprintf("utterances %d and %d are out of order", i-1, i),
			}
		}
		if u.Start == prev.Start && u.End == prev.End {
			return &TimingInvariantError{
				Reason: fmt.Sprintf("utterances %d and %d share the span [%.3f, %.3f]", i-1, i, u.Start, u.End),
			}
		}
	}
	return nil
}

// requireField fails with MissingFieldError when any record lacks a field the
// calling stage depends on.
func (l UtteranceList) requireField(field string, present func(Utterance) bool) error {
	for i, u := range l {
		if !present(u) {
			return &MissingFieldError{Field: field, Index: i}
		}
	}
	return nil
}

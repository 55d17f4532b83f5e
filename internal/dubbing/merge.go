package dubbing

import "strings"

// CombineFunc folds a later utterance into the one retained before it. The
// result replaces the retained record; its End must cover both spans.
type CombineFunc func(prev, next Utterance) Utterance

// MergeIntervals collapses near-adjacent utterances in a single left-to-right
// pass. A record whose gap to the previously retained record (next.Start -
// prev.End) is strictly below threshold is folded into it via combine. A
// record that has absorbed a follower is closed: the next candidate is
// compared against a fresh record, so one pass never chains more than two
// inputs together. Overlapping or touching spans always merge for any
// threshold > 0, since their gap is non-positive. The input must already be
// sorted by start.
func MergeIntervals(list UtteranceList, threshold float64, combine CombineFunc) UtteranceList {
	if len(list) == 0 {
		return UtteranceList{}
	}

	out := UtteranceList{list[0]}
	closed := false
	for _, next := range list[1:] {
		prev := &out[len(out)-1]
		if !closed && next.Start-prev.End < threshold {
			*prev = combine(*prev, next)
			closed = true
		} else {
			out = append(out, next)
			closed = false
		}
	}
	return out
}

// CombineSpeechSpans is the stock combiner for merging detected speech
// segments: the span is extended, text-like fields concatenate with a single
// space, and chunk paths pair up when both sides carry one.
func CombineSpeechSpans(prev, next Utterance) Utterance {
	merged := prev
	if next.End > merged.End {
		merged.End = next.End
	}
	merged.OriginalText = joinNonEmpty(prev.OriginalText, next.OriginalText)
	merged.TranslatedText = joinNonEmpty(prev.TranslatedText, next.TranslatedText)
	merged.SourceAudioPath = pairPaths(prev.SourceAudioPath, next.SourceAudioPath)
	merged.VocalsAudioPath = pairPaths(prev.VocalsAudioPath, next.VocalsAudioPath)
	merged.DubbedAudioPath = pairPaths(prev.DubbedAudioPath, next.DubbedAudioPath)
	return merged
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}

// pairPaths unions two path fields; when both are set the result lists both,
// list-separator delimited, so no chunk reference is lost by a merge.
func pairPaths(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return strings.Join([]string{a, b}, string(pathListSeparator))
	}
}

const pathListSeparator = ':'

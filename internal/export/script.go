package export

import (
	"fmt"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/dub-flow/internal/dubbing"
)

const (
	fontName  = "Times New Roman"
	fontSize  = 12
	titleSize = 16
	slotSize  = 10
)

// Exporter writes the dubbing script as a docx document so reviewers can
// approve translations and voice choices before synthesis.
type Exporter struct{}

// New creates a script exporter.
func New() *Exporter {
	return &Exporter{}
}

// Export writes one paragraph block per utterance: the timing/speaker/voice
// line, the source text and the translated text.
func (e *Exporter) Export(title string, list dubbing.UtteranceList, outPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addRun(doc.AddParagraph(""), fmt.Sprintf("Dubbing script — %s", title), true, titleSize)
	doc.AddParagraph("")

	for i, u := range list {
		slot := fmt.Sprintf("%d. [%s – %s] %s", i+1, clock(u.Start), clock(u.End), speakerLine(u))
		addRun(doc.AddParagraph(""), slot, true, slotSize)

		if u.OriginalText != "" {
			addRun(doc.AddParagraph(""), u.OriginalText, false, fontSize)
		}
		if u.TranslatedText != "" {
			addRun(doc.AddParagraph(""), "→ "+u.TranslatedText, false, fontSize)
		}
		if !u.ForDubbing {
			addRun(doc.AddParagraph(""), "(kept in original language)", false, slotSize)
		}
		doc.AddParagraph("")
	}

	return doc.SaveTo(outPath)
}

func speakerLine(u dubbing.Utterance) string {
	s := u.SpeakerID
	if s == "" {
		s = "unknown speaker"
	}
	if u.Gender != "" {
		s += fmt.Sprintf(" (%s)", u.Gender)
	}
	if u.AssignedVoice != "" {
		s += " — voice " + u.AssignedVoice
	}
	return s
}

func clock(seconds float64) string {
	m := int(seconds) / 60
	s := seconds - float64(m*60)
	return fmt.Sprintf("%02d:%05.2f", m, s)
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

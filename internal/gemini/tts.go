package gemini

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/dub-flow/internal/dubbing"
)

// Synthesize renders text to speech with the TTS model and writes a WAV file
// to outPath. An empty voice leaves the model's default voice in place. The
// model returns raw 24kHz mono PCM, which ffmpeg wraps into WAV.
func (c *Client) Synthesize(ctx context.Context, text, voice, language, outPath string) error {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
	}
	if voice != "" || language != "" {
		cfg.SpeechConfig = &genai.SpeechConfig{LanguageCode: language}
		if voice != "" {
			cfg.SpeechConfig.VoiceConfig = &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			}
		}
	}

	result, err := c.generate(ctx, c.ttsModel, genai.Text(text), cfg)
	if err != nil {
		return err
	}

	pcm := audioPayload(result)
	if len(pcm) == 0 {
		return &dubbing.ValidationError{Reason: "tts response carries no audio data"}
	}

	rawPath := outPath + ".pcm"
	if err := os.WriteFile(rawPath, pcm, 0644); err != nil {
		return fmt.Errorf("write raw tts audio: %w", err)
	}
	defer os.Remove(rawPath)

	args := []string{
		"-f", "s16le",
		"-ar", "24000",
		"-ac", "1",
		"-i", rawPath,
		"-ar", "44100",
		"-ac", "2",
		"-y",
		outPath,
	}
	if _, err := c.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return fmt.Errorf("wrap tts audio %s: %w", filepath.Base(outPath), err)
	}

	return nil
}

func audioPayload(result *genai.GenerateContentResponse) []byte {
	for _, part := range result.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data
		}
	}
	return nil
}

package asr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Transcribe runs whisper.cpp on one audio chunk and returns the plain text.
// The language hint prevents hallucinated language switches and the hotword
// prompt improves recognition of brand and product names.
func (t *implTranscriber) Transcribe(ctx context.Context, chunkPath, language, hotwords string) (string, error) {
	outputPrefix := strings.TrimSuffix(chunkPath, filepath.Ext(chunkPath))

	args := []string{
		"-m", t.cfg.Whisper.ModelPath,
		"-f", chunkPath,
		"-otxt",
		"-l", language,
		"-t", strconv.Itoa(t.cfg.Whisper.Threads),
		"-np",
		"--output-file", outputPrefix,
	}
	if hotwords != "" {
		args = append(args, "--prompt", hotwords)
	}

	if _, err := t.executor.Execute(ctx, t.cfg.Whisper.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	txtPath := outputPrefix + ".txt"
	data, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("read transcript %s: %w", txtPath, err)
	}
	defer os.Remove(txtPath)

	text := strings.TrimSpace(string(data))
	t.logger.Debug(ctx, "Transcribed %s: %q", filepath.Base(chunkPath), text)
	return text, nil
}

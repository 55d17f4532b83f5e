package asr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/dub-flow/internal/config"
	"github.com/nguyentantai21042004/dub-flow/internal/dubbing"
	"github.com/nguyentantai21042004/dub-flow/internal/logger"
)

// fakeExecutor returns canned stdout and optionally drops a transcript file
// next to the chunk, mimicking whisper.cpp's -otxt output.
type fakeExecutor struct {
	output     string
	transcript string
	commands   [][]string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return f.ExecuteInDir(ctx, "", name, args...)
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	f.commands = append(f.commands, append([]string{name}, args...))
	if f.transcript != "" {
		for i, a := range args {
			if a == "--output-file" && i+1 < len(args) {
				if err := os.WriteFile(args[i+1]+".txt", []byte(f.transcript), 0644); err != nil {
					return "", err
				}
			}
		}
	}
	return f.output, nil
}

func testASRConfig() *config.Config {
	return &config.Config{
		Whisper: config.WhisperConfig{
			BinaryPath: "./whisper-cli",
			ModelPath:  "model.bin",
			Threads:    4,
		},
		Diarization: config.DiarizationConfig{
			BinaryPath: "./diarize",
		},
	}
}

func TestDiarizeParsesSpans(t *testing.T) {
	fake := &fakeExecutor{output: "0.00\t1.25\n1.80 3.40\n\n"}
	d := NewDiarizer(testASRConfig(), fake, logger.New("error"))

	spans, err := d.Diarize(context.Background(), "audio.wav", 2)
	if err != nil {
		t.Fatalf("Diarize() error = %v", err)
	}

	want := []dubbing.Span{{Start: 0, End: 1.25}, {Start: 1.8, End: 3.4}}
	if len(spans) != len(want) {
		t.Fatalf("got %d spans, want %d", len(spans), len(want))
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("span %d = %+v, want %+v", i, spans[i], want[i])
		}
	}

	cmd := strings.Join(fake.commands[0], " ")
	if !strings.Contains(cmd, "--num-speakers 2") {
		t.Errorf("command %q missing speaker count", cmd)
	}
}

func TestDiarizeRejectsBadOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"one field", "1.25\n"},
		{"not numeric", "start end\n"},
		{"inverted span", "3.0 1.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeExecutor{output: tt.output}
			d := NewDiarizer(testASRConfig(), fake, logger.New("error"))

			_, err := d.Diarize(context.Background(), "audio.wav", 2)
			var v *dubbing.ValidationError
			if !errors.As(err, &v) {
				t.Errorf("want ValidationError, got %v", err)
			}
		})
	}
}

func TestTranscribeReadsAndRemovesOutput(t *testing.T) {
	chunk := filepath.Join(t.TempDir(), "chunk_0000.wav")

	fake := &fakeExecutor{transcript: "  fresh deals every day  \n"}
	tr := NewTranscriber(testASRConfig(), fake, logger.New("error"))

	got, err := tr.Transcribe(context.Background(), chunk, "en", "BrandName")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got != "fresh deals every day" {
		t.Errorf("transcript = %q", got)
	}

	if _, err := os.Stat(strings.TrimSuffix(chunk, ".wav") + ".txt"); !os.IsNotExist(err) {
		t.Error("transcript file should be removed after reading")
	}

	cmd := strings.Join(fake.commands[0], " ")
	for _, want := range []string{"-l en", "--prompt BrandName", "-m model.bin", "-t 4"} {
		if !strings.Contains(cmd, want) {
			t.Errorf("command %q missing %q", cmd, want)
		}
	}
}

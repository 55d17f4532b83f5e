package config

import "fmt"

type Config struct {
	Gemini      GeminiConfig      `yaml:"gemini"`
	Whisper     WhisperConfig     `yaml:"whisper"`
	Diarization DiarizationConfig `yaml:"diarization"`
	Separation  SeparationConfig  `yaml:"separation"`
	Paths       PathsConfig       `yaml:"paths"`
	Dubbing     DubbingConfig     `yaml:"dubbing"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type GeminiConfig struct {
	APIKeys   []string `yaml:"api_keys"`
	TextModel string   `yaml:"text_model"`
	TTSModel  string   `yaml:"tts_model"`
}

type WhisperConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ModelPath  string `yaml:"model_path"`
	Hotwords   string `yaml:"hotwords"`
	Threads    int    `yaml:"threads"`
}

type DiarizationConfig struct {
	BinaryPath   string `yaml:"binary_path"`
	SpeakerCount int    `yaml:"speaker_count"`
}

type SeparationConfig struct {
	BinaryPath string `yaml:"binary_path"`
	Model      string `yaml:"model"`
}

type PathsConfig struct {
	Input  string `yaml:"input"`
	Work   string `yaml:"work"`
	Output string `yaml:"output"`
}

// Voice is one synthesis voice the assignment stage may pick from.
type Voice struct {
	Name   string `yaml:"name"`
	Gender string `yaml:"gender"`
}

// MergeThreshold and BackgroundGainDB are pointers because zero is a
// meaningful setting for both (merge nothing, attenuate nothing); nil means
// "use the default".
type DubbingConfig struct {
	SourceLanguage     string   `yaml:"source_language"`
	TargetLanguage     string   `yaml:"target_language"`
	MergeThreshold     *float64 `yaml:"merge_threshold"`
	MaxRetries         int      `yaml:"max_retries"`
	MinStretchDuration float64  `yaml:"min_stretch_duration"`
	VocalsGainDB       float64  `yaml:"vocals_gain_db"`
	BackgroundGainDB   *float64 `yaml:"background_gain_db"`
	PreferredVoices    []Voice  `yaml:"preferred_voices"`
	NoDubPhrases       []string `yaml:"no_dub_phrases"`
	VoiceClone         bool     `yaml:"voice_clone"`
	TranslatedTimeline bool     `yaml:"translated_timeline"`
	ExportScript       bool     `yaml:"export_script"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

func (c *Config) Validate() error {
	if len(c.Gemini.APIKeys) == 0 {
		return fmt.Errorf("gemini.api_keys is required")
	}
	if c.Whisper.BinaryPath == "" {
		return fmt.Errorf("whisper.binary_path is required")
	}
	if c.Whisper.ModelPath == "" {
		return fmt.Errorf("whisper.model_path is required")
	}
	if c.Diarization.BinaryPath == "" {
		return fmt.Errorf("diarization.binary_path is required")
	}
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}
	if c.Dubbing.SourceLanguage == "" {
		return fmt.Errorf("dubbing.source_language is required")
	}
	if c.Dubbing.TargetLanguage == "" {
		return fmt.Errorf("dubbing.target_language is required")
	}
	if c.Dubbing.MergeThreshold != nil && *c.Dubbing.MergeThreshold < 0 {
		return fmt.Errorf("dubbing.merge_threshold must not be negative")
	}

	if c.Paths.Work == "" {
		c.Paths.Work = "data/work"
	}
	if c.Gemini.TextModel == "" {
		c.Gemini.TextModel = "gemini-2.5-flash"
	}
	if c.Gemini.TTSModel == "" {
		c.Gemini.TTSModel = "gemini-2.5-flash-preview-tts"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.Diarization.SpeakerCount == 0 {
		c.Diarization.SpeakerCount = 2
	}
	if c.Dubbing.MergeThreshold == nil {
		threshold := 0.3
		c.Dubbing.MergeThreshold = &threshold
	}
	if c.Dubbing.MaxRetries == 0 {
		c.Dubbing.MaxRetries = 5
	}
	if c.Dubbing.MinStretchDuration == 0 {
		c.Dubbing.MinStretchDuration = 1.0
	}
	if c.Dubbing.BackgroundGainDB == nil {
		gain := -5.0
		c.Dubbing.BackgroundGainDB = &gain
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}

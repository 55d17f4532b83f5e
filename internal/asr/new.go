package asr

import (
	"github.com/nguyentantai21042004/dub-flow/internal/config"
	"github.com/nguyentantai21042004/dub-flow/internal/logger"
	"github.com/nguyentantai21042004/dub-flow/pkg/executor"
)

type implTranscriber struct {
	cfg      *config.Config
	executor executor.Executor
	logger   logger.Logger
}

// NewTranscriber creates a whisper.cpp-backed transcriber.
func NewTranscriber(cfg *config.Config, exec executor.Executor, log logger.Logger) *implTranscriber {
	return &implTranscriber{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}

type implDiarizer struct {
	cfg      *config.Config
	executor executor.Executor
	logger   logger.Logger
}

// NewDiarizer creates a diarizer around the configured diarization command.
func NewDiarizer(cfg *config.Config, exec executor.Executor, log logger.Logger) *implDiarizer {
	return &implDiarizer{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}

package audio

import (
	"github.com/nguyentantai21042004/dub-flow/internal/config"
	"github.com/nguyentantai21042004/dub-flow/internal/logger"
	"github.com/nguyentantai21042004/dub-flow/pkg/executor"
)

type implOps struct {
	cfg      *config.Config
	executor executor.Executor
	logger   logger.Logger
}

// NewOps creates the ffmpeg-backed audio operations used by the pipeline.
func NewOps(cfg *config.Config, exec executor.Executor, log logger.Logger) *implOps {
	return &implOps{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}

type implAssembler struct {
	executor         executor.Executor
	logger           logger.Logger
	vocalsGainDB     float64
	backgroundGainDB float64
}

// NewAssembler creates a timeline assembler. The gain offsets are applied
// after loudness normalization; the background default of -5 dB keeps the
// dubbed voice in front of the bed.
func NewAssembler(exec executor.Executor, log logger.Logger, vocalsGainDB, backgroundGainDB float64) *implAssembler {
	return &implAssembler{
		executor:         exec,
		logger:           log,
		vocalsGainDB:     vocalsGainDB,
		backgroundGainDB: backgroundGainDB,
	}
}

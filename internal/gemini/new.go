package gemini

import (
	"sync"

	"github.com/nguyentantai21042004/dub-flow/internal/config"
	"github.com/nguyentantai21042004/dub-flow/internal/logger"
	"github.com/nguyentantai21042004/dub-flow/pkg/executor"
)

// Client talks to the Gemini API for the three generative collaborators:
// speaker labeling, translation and speech synthesis. It rotates through the
// configured API keys when one runs out of quota. Synthesis calls run
// concurrently, so the key index is mutex-guarded.
type Client struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	textModel  string
	ttsModel   string
	executor   executor.Executor
	logger     logger.Logger
}

// New creates a Client from the gemini section of the configuration.
func New(cfg config.GeminiConfig, exec executor.Executor, log logger.Logger) *Client {
	return &Client{
		apiKeys:   cfg.APIKeys,
		textModel: cfg.TextModel,
		ttsModel:  cfg.TTSModel,
		executor:  exec,
		logger:    log,
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nguyentantai21042004/dub-flow/internal/asr"
	"github.com/nguyentantai21042004/dub-flow/internal/audio"
	"github.com/nguyentantai21042004/dub-flow/internal/config"
	"github.com/nguyentantai21042004/dub-flow/internal/dubbing"
	"github.com/nguyentantai21042004/dub-flow/internal/export"
	"github.com/nguyentantai21042004/dub-flow/internal/gemini"
	"github.com/nguyentantai21042004/dub-flow/internal/logger"
	"github.com/nguyentantai21042004/dub-flow/internal/watcher"
	"github.com/nguyentantai21042004/dub-flow/pkg/executor"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to the configuration file")
		watch      = flag.Bool("watch", false, "watch the input directory and dub every new file")
		redubDir   = flag.String("redub", "", "re-dub from a persisted state directory")
		language   = flag.String("lang", "", "override target language for -redub")
	)
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Ad Dubbing Pipeline")
	log.Info(ctx, "========================================")
	log.Info(ctx, "Languages: %s -> %s", cfg.Dubbing.SourceLanguage, cfg.Dubbing.TargetLanguage)
	log.Info(ctx, "Max concurrent synthesis: %d", cfg.Performance.MaxConcurrent)

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	pipe := buildPipeline(cfg, log)

	switch {
	case *redubDir != "":
		runRedub(ctx, pipe, log, *redubDir, *language)

	case *watch:
		runWatch(ctx, cfg, pipe, log)

	default:
		if flag.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "usage: dubflow [-config config.yaml] <media-file> | -watch | -redub <state-dir> [-lang xx]")
			os.Exit(2)
		}
		result, err := pipe.Run(ctx, flag.Arg(0))
		if err != nil {
			log.Error(ctx, "Dubbing failed: %v", err)
			os.Exit(1)
		}
		log.Info(ctx, "Dubbed %d utterances, output: %s", len(result.Utterances), result.Artifacts.MixedAudioPath)
	}
}

func buildPipeline(cfg *config.Config, log logger.Logger) dubbing.Pipeline {
	exec := executor.New()
	gem := gemini.New(cfg.Gemini, exec, log)

	return dubbing.New(dubbing.Deps{
		Config:      cfg,
		Logger:      log,
		Diarizer:    asr.NewDiarizer(cfg, exec, log),
		Transcriber: asr.NewTranscriber(cfg, exec, log),
		Labeler:     gem,
		Translator:  gem,
		Synthesizer: gem,
		Audio:       audio.NewOps(cfg, exec, log),
		Assembler:   audio.NewAssembler(exec, log, cfg.Dubbing.VocalsGainDB, *cfg.Dubbing.BackgroundGainDB),
		Exporter:    export.New(),
	})
}

func runRedub(ctx context.Context, pipe dubbing.Pipeline, log logger.Logger, stateDir, language string) {
	var (
		result *dubbing.Result
		err    error
	)
	if language != "" {
		result, err = pipe.RedubLanguage(ctx, stateDir, language)
	} else {
		result, err = pipe.Redub(ctx, stateDir)
	}
	if err != nil {
		log.Error(ctx, "Re-dub failed: %v", err)
		os.Exit(1)
	}
	log.Info(ctx, "Re-dub complete, output: %s", result.Artifacts.MixedAudioPath)
}

func runWatch(ctx context.Context, cfg *config.Config, pipe dubbing.Pipeline, log logger.Logger) {
	handle := func(ctx context.Context, path string) error {
		_, err := pipe.Run(ctx, path)
		return err
	}

	w, err := watcher.New(cfg.Paths.Input, handle, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Press Ctrl+C to stop")

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Watcher error: %v", err)
	}

	cancel()
	log.Info(ctx, "Pipeline stopped")
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Work,
		cfg.Paths.Output,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

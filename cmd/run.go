package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"suggestbox/internal/config"
	"suggestbox/internal/domain"
	"suggestbox/internal/eventbus"
	"suggestbox/internal/index"
	"suggestbox/internal/source"
	"suggestbox/internal/source/ipc"
	"suggestbox/internal/ui"
)

func runUI(parent context.Context, cfg *config.Config) error {
	ctx, cancel := signalContext(parent)
	defer cancel()

	logger, closeLog := fileLogger(cfg)
	defer closeLog()

	words, closeWords, err := buildWords(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeWords(); err != nil {
			logger.Warn("word source did not shut down cleanly", "err", err)
		}
	}()

	bus := eventbus.NewWithLogger(logger)
	model, err := ui.NewModel(bus, ui.Options{
		Config: cfg,
		Words:  words,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer model.Close()

	logger.Info("starting UI", "source", cfg.Source.Kind)
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	model.SetProgram(p)

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		logger.Error("error running program", "err", err)
		return fmt.Errorf("error running program: %w", err)
	}
	logger.Info("UI exited normally")
	return nil
}

// buildWords assembles the first field's source: the index or a spawned
// server, then optional latency, then an optional cache in front.
func buildWords(ctx context.Context, cfg *config.Config, logger *log.Logger) (domain.Fetcher, func() error, error) {
	var (
		fetcher domain.Fetcher
		closeFn = func() error { return nil }
	)

	switch cfg.Source.Kind {
	case config.SourceIPC:
		exe, err := os.Executable()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to locate executable: %w", err)
		}
		args := []string{"serve"}
		if cfg.Source.Dictionary != "" {
			args = append(args, "--dictionary", cfg.Source.Dictionary)
		}
		client, err := ipc.Spawn(ctx, logger, exe, args...)
		if err != nil {
			return nil, nil, err
		}
		client.Limit = cfg.Autocomplete.Limit
		fetcher, closeFn = client, client.Close

	default:
		idx, err := loadIndex(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		fetcher = index.Source{Index: idx, Limit: cfg.Autocomplete.Limit}
	}

	if cfg.Source.LatencyMs > 0 || cfg.Source.JitterMs > 0 {
		fetcher = &source.Delayed{
			Fetcher: fetcher,
			Latency: cfg.Source.Latency(),
			Jitter:  cfg.Source.Jitter(),
		}
	}
	if cfg.Source.CacheSize > 0 {
		cached, err := source.NewCached(fetcher, cfg.Source.CacheSize)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		fetcher = cached
	}
	return fetcher, closeFn, nil
}

// loadIndex builds the word index from the configured dictionary, or the
// built-in list when none is set
func loadIndex(ctx context.Context, cfg *config.Config, logger *log.Logger) (*index.Index, error) {
	idx := index.NewWithLogger(logger)
	if cfg.Source.Dictionary == "" {
		if err := idx.LoadDefault(); err != nil {
			return nil, err
		}
		return idx, nil
	}
	if _, err := idx.LoadPath(ctx, cfg.Source.Dictionary); err != nil {
		return nil, err
	}
	logger.Info("dictionary loaded", "path", cfg.Source.Dictionary, "words", idx.Len())
	return idx, nil
}

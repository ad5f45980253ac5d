package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pagewatch/internal/clock/system"
	"pagewatch/internal/config"
	"pagewatch/internal/diff"
	"pagewatch/internal/digest"
	"pagewatch/internal/fetch"
	"pagewatch/internal/fetch/direct"
	"pagewatch/internal/fetch/headless"
	"pagewatch/internal/fetch/reader"
	"pagewatch/internal/hash/sha256"
	"pagewatch/internal/id/uuid"
	"pagewatch/internal/logging"
	"pagewatch/internal/metrics"
	"pagewatch/internal/notify/telegram"
	"pagewatch/internal/state"
	"pagewatch/internal/watch"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}

	if runID, idErr := uuid.New().NewID(); idErr == nil {
		logger = logger.With(zap.String("run_id", runID))
	}
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg, logger)
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	started := time.Now()
	metrics.Init()

	directClient := direct.New(direct.Config{Timeout: cfg.Fetch.Timeout()})

	var browser fetch.Client
	if cfg.Fetch.Browser.Enabled {
		b := headless.New(headless.Config{NavigationTimeout: cfg.Fetch.Browser.NavigationTimeout()})
		defer b.Close()
		browser = b
		logger.Info("browser tier enabled",
			zap.Duration("nav_timeout", cfg.Fetch.Browser.NavigationTimeout()))
	}

	strategy := fetch.NewStrategy(
		directClient,
		browser,
		reader.New(cfg.Fetch.ReaderEndpoint, directClient),
		fetch.Options{
			Retries:      cfg.Fetch.Retries,
			BackoffBase:  cfg.Fetch.BackoffBase(),
			HostileHosts: cfg.Fetch.HostileHosts,
		},
		logger.Named("fetch"),
	)

	var notifier watch.Notifier
	if cfg.Telegram.HasCredentials() {
		tg, err := telegram.New(telegram.Config{
			Token:  cfg.Telegram.Token,
			ChatID: cfg.Telegram.ChatID,
		}, logger.Named("telegram"))
		if err != nil {
			return logged(logger, fmt.Errorf("telegram init: %w", err))
		}
		notifier = tg
	} else {
		logger.Warn("telegram credentials not configured, digests will not be delivered")
	}

	runner := watch.NewRunner(
		cfg.Targets,
		strategy,
		sha256.New(),
		diff.NewSummarizer(cfg.Digest.MaxDiffLines, cfg.Digest.MaxLineWidth),
		state.NewStore(cfg.State.Dir, logger.Named("state")),
		digest.NewComposer(digest.Config{
			ChunkLimit:      cfg.Digest.ChunkLimit,
			NotifyFirstSeen: cfg.Digest.NotifyFirstSeen,
			SendWhenEmpty:   cfg.Digest.SendWhenEmpty,
		}),
		notifier,
		system.New(),
		logger,
	)

	err := runner.Run(ctx)

	metrics.SetRunDuration(time.Since(started))
	if path := cfg.Metrics.TextfilePath; path != "" {
		if werr := metrics.WriteTextfile(path); werr != nil {
			logger.Warn("write metrics textfile failed", zap.String("path", path), zap.Error(werr))
		}
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("run interrupted, state saved", zap.Duration("duration", time.Since(started)))
			return err
		}
		return logged(logger, err)
	}

	logger.Info("run complete",
		zap.Int("targets", len(cfg.Targets)),
		zap.Duration("duration", time.Since(started)))
	return nil
}

func logged(logger *zap.Logger, err error) error {
	logger.Error("run failed", zap.Error(err))
	return err
}

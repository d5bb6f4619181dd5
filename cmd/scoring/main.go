package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/fantasy-roster/internal/app"
	"github.com/riskibarqy/fantasy-roster/internal/config"
	"github.com/riskibarqy/fantasy-roster/internal/jobs"
	"github.com/riskibarqy/fantasy-roster/internal/observability"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// One-shot commands print results on stdout, so their logs go to stderr.
	base := logging.NewConsole(cfg.LogLevel)
	if os.Args[1] == "schedule" {
		base = logging.NewJSON(cfg.LogLevel)
	}
	logger := base.With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
	)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Args[1], os.Args[2:]); err != nil {
		logger.Error("scoring command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *logging.Logger, cmd string, args []string) error {
	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("uptrace shutdown failed", "error", err)
		}
	}()

	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	defer func() {
		if err := stopProfiling(); err != nil {
			logger.Warn("pyroscope stop failed", "error", err)
		}
	}()

	container, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
	}()

	switch strings.ToLower(strings.TrimSpace(cmd)) {
	case "week":
		if len(args) < 2 {
			return fmt.Errorf("week requires <league_id> <period_index>")
		}
		index, err := strconv.Atoi(strings.TrimSpace(args[1]))
		if err != nil {
			return fmt.Errorf("invalid period index %q: %w", args[1], err)
		}
		summary, err := container.Scoring.CalculateWeekByIndex(ctx, args[0], index)
		if err != nil {
			return err
		}
		return printJSON(summary)
	case "current":
		result, err := container.Scoring.CalculateCurrentWeeks(ctx)
		if err != nil {
			return err
		}
		return printJSON(result)
	case "board":
		if len(args) < 1 {
			return fmt.Errorf("board requires <league_id> [period_id]")
		}
		if len(args) > 1 {
			entries, err := container.Leaderboard.ListWeekly(ctx, args[1])
			if err != nil {
				return err
			}
			return printJSON(entries)
		}
		entries, err := container.Leaderboard.ListOverall(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(entries)
	case "schedule":
		var invalidator jobs.CacheInvalidator
		if container.MatchCache != nil {
			invalidator = container.MatchCache
		}
		scheduler := jobs.NewScheduler(
			container.Scoring,
			invalidator,
			jobs.Options{
				Spec:     cfg.ScoringCron,
				Location: cfg.ScoringTimezone,
				Mode:     container.Leaderboard.Mode(),
			},
			logger.Named("jobs"),
		)
		if err := scheduler.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		scheduler.Stop()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printJSON(v any) error {
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}

func printUsage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <week|current|board|schedule> [args]\n", name)
	fmt.Fprintln(os.Stderr, "examples:")
	fmt.Fprintf(os.Stderr, "  %s week idn-liga-1-2026 1\n", name)
	fmt.Fprintf(os.Stderr, "  %s current\n", name)
	fmt.Fprintf(os.Stderr, "  %s board idn-liga-1-2026 [idn-2026-w01]\n", name)
	fmt.Fprintf(os.Stderr, "  %s schedule\n", name)
}

// Command terrasim runs a TerraBot input file and writes the result array.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/terra-world/internal/api"
	"github.com/talgya/terra-world/internal/config"
	"github.com/talgya/terra-world/internal/engine"
	"github.com/talgya/terra-world/internal/persistence"
	"github.com/talgya/terra-world/internal/scenario"
	"github.com/talgya/terra-world/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults are embedded)")
	inputPath := flag.String("input", "", "input file (overrides config)")
	outputPath := flag.String("output", "", "result file (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *inputPath != "" {
		cfg.Input = *inputPath
	}
	if *outputPath != "" {
		cfg.Output = *outputPath
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)

	if err := run(cfg); err != nil {
		slog.Error("terrasim failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	in, err := scenario.Load(cfg.Input)
	if err != nil {
		return err
	}
	slog.Info("input loaded",
		"path", cfg.Input,
		"simulations", len(in.Simulations),
		"commands", len(in.Commands),
	)

	driver := engine.NewDriver(in)
	var steps int

	// ── Archive ───────────────────────────────────────────────────────
	var (
		db       *persistence.DB
		recorder *persistence.Recorder
		tickLog  *persistence.TickLog
	)
	if cfg.Archive.Enabled {
		if dir := filepath.Dir(cfg.Archive.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("create archive dir: %w", err)
			}
		}
		db, err = persistence.Open(cfg.Archive.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		recorder, err = persistence.NewRecorder(db, cfg.Input)
		if err != nil {
			return err
		}
		slog.Info("archive opened", "path", cfg.Archive.DBPath, "run_id", recorder.RunID())

		if cfg.Archive.TickLogDir != "" {
			tickLog, err = persistence.NewTickLog(cfg.Archive.TickLogDir, recorder.RunID())
			if err != nil {
				return err
			}
			defer func() {
				if err := tickLog.Close(); err != nil {
					slog.Error("tick log close failed", "error", err)
				}
			}()
		}
	}

	// ── Telemetry ─────────────────────────────────────────────────────
	out, err := telemetry.NewOutput(cfg.Telemetry.Dir)
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); err != nil {
			slog.Error("telemetry close failed", "error", err)
		}
	}()
	if out != nil {
		if err := cfg.WriteYAML(filepath.Join(out.Dir(), "config.yaml")); err != nil {
			return err
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	var apiServer *api.Server
	if cfg.API.Enabled {
		apiServer = api.NewServer(cfg.API.Port)
		apiServer.DB = db
		apiServer.CORSOrigins = cfg.API.CORSOrigins
		apiServer.StreamRate = cfg.API.StreamRate
		srv := apiServer.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				slog.Error("HTTP shutdown failed", "error", err)
			}
		}()
	}

	// ── Hooks ─────────────────────────────────────────────────────────
	driver.OnStart = func(run int, sim *engine.Simulation) {
		if apiServer != nil {
			apiServer.PublishStart(run, sim)
		}
	}
	driver.OnStep = func(run int, sim *engine.Simulation) {
		steps++
		stats := telemetry.Collect(run, sim)
		slog.Debug("step complete", "run", run, "step", sim.Step, "animals", stats.Animals, "energy", stats.RobotEnergy)

		if recorder != nil {
			if err := recorder.AddStep(stats); err != nil {
				slog.Error("archive step failed", "error", err)
			}
		}
		if tickLog != nil {
			entry := persistence.TickEntry{Run: run, Step: sim.Step, Stats: stats, Events: sim.EventsAt(sim.Step)}
			if err := tickLog.Write(entry); err != nil {
				slog.Error("tick log write failed", "error", err)
			}
		}
		if err := out.WriteStep(stats); err != nil {
			slog.Error("telemetry step failed", "error", err)
		}
	}
	driver.OnResult = func(run int, r engine.Result, sim *engine.Simulation) {
		if apiServer != nil {
			apiServer.PublishResult(run, r, sim)
		}
		if recorder != nil {
			if err := recorder.AddResult(run, r); err != nil {
				slog.Error("archive result failed", "error", err)
			}
		}
		if err := out.WriteResult(run, r); err != nil {
			slog.Error("telemetry result failed", "error", err)
		}
	}

	// ── Run ───────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	results, runErr := driver.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if runErr != nil {
		slog.Info("received signal, stopping early", "completed", len(results))
	}
	if apiServer != nil {
		apiServer.PublishEnd()
	}

	if recorder != nil {
		if err := recorder.Finish(); err != nil {
			return err
		}
	}

	if err := writeResults(cfg.Output, results); err != nil {
		return err
	}

	rejected := 0
	for _, r := range results {
		if strings.HasPrefix(r.Message, "ERROR:") {
			rejected++
		}
	}
	fmt.Printf("\n%s commands (%s rejected), %s environment steps in %s.\n",
		humanize.Comma(int64(len(results))),
		humanize.Comma(int64(rejected)),
		humanize.Comma(int64(steps)),
		time.Since(started).Round(time.Millisecond),
	)
	fmt.Printf("Results written to %s\n", cfg.Output)
	return nil
}

func writeResults(path string, results []engine.Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

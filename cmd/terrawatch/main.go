// Command terrawatch monitors a running terrasim through its observer API,
// logging a health triage every cycle.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/talgya/terra-world/internal/watch"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Configuration from environment.
	apiURL := envOrDefault("TERRA_API_URL", "http://localhost:8080")
	memoryPath := os.Getenv("TERRAWATCH_MEMORY")
	intervalSec := envIntOrDefault("TERRAWATCH_INTERVAL", 5)
	if intervalSec <= 0 {
		slog.Error("TERRAWATCH_INTERVAL must be positive", "value", intervalSec)
		os.Exit(1)
	}
	interval := time.Duration(intervalSec) * time.Second

	slog.Info("terrawatch starting", "api_url", apiURL, "interval", interval)

	observer := watch.NewObserver(apiURL)
	mem := watch.LoadMemory(memoryPath)

	slog.Info("waiting for terrasim API...")
	waitForAPI(observer)

	runCycle(observer, mem)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			runCycle(observer, mem)
		case sig := <-sigCh:
			slog.Info("received signal, shutting down", "signal", sig)
			if err := mem.Save(); err != nil {
				slog.Error("memory save failed", "error", err)
			}
			fmt.Println("terrawatch stopped.")
			return
		}
	}
}

// runCycle executes one observe and triage cycle.
func runCycle(observer *watch.Observer, mem *watch.Memory) {
	obs, err := observer.Observe()
	if err != nil {
		slog.Error("observation failed", "error", err)
		return
	}

	h := watch.Triage(obs, mem)
	attrs := []any{
		"level", h.Level,
		"run", obs.Status.Run,
		"step", obs.Status.Step,
		"energy", obs.Robot.Energy,
		"energy_delta", h.EnergyDelta,
		"sick_share", fmt.Sprintf("%.2f", h.SickShare),
		"toxic_cells", h.ToxicCells,
		"rejections", h.Rejections,
	}
	for _, reason := range h.Reasons {
		attrs = append(attrs, "reason", reason)
	}
	switch h.Level {
	case watch.LevelCritical:
		slog.Error("territory health", attrs...)
	case watch.LevelWarning:
		slog.Warn("territory health", attrs...)
	default:
		slog.Info("territory health", attrs...)
	}

	if obs.Status.Running {
		mem.Record(watch.Record{
			Run:    obs.Status.Run,
			Step:   obs.Status.Step,
			Energy: obs.Robot.Energy,
			Level:  h.Level,
		})
		if err := mem.Save(); err != nil {
			slog.Error("memory save failed", "error", err)
		}
	}
	slog.Debug("history", "summary", mem.Summary())
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

// waitForAPI polls the status endpoint with exponential backoff until it
// responds. Exits after 5 minutes if the API never becomes ready.
func waitForAPI(observer *watch.Observer) {
	backoff := 2 * time.Second
	maxBackoff := 30 * time.Second
	deadline := time.Now().Add(5 * time.Minute)

	for !observer.Ready() {
		if time.Now().After(deadline) {
			slog.Error("terrasim API did not become ready within 5 minutes")
			os.Exit(1)
		}
		slog.Info("terrasim not ready, retrying...", "backoff", backoff)
		time.Sleep(backoff)
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
	slog.Info("terrasim API is ready")
}

// Command terragen writes a procedurally generated TerraBot input file.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/talgya/terra-world/internal/config"
	"github.com/talgya/terra-world/internal/scenario"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults are embedded)")
	outPath := flag.String("out", "", "input file to write (defaults to the configured input)")
	seed := flag.Int64("seed", 0, "noise seed (overrides config)")
	width := flag.Int("width", 0, "territory width (overrides config)")
	height := flag.Int("height", 0, "territory height (overrides config)")
	commands := flag.Int("commands", -1, "commands between start and end (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)

	gen := cfg.GenConfig()
	if *seed != 0 {
		gen.Seed = *seed
	}
	if *width > 0 {
		gen.Width = *width
	}
	if *height > 0 {
		gen.Height = *height
	}
	if *commands >= 0 {
		gen.Commands = *commands
	}
	path := cfg.Input
	if *outPath != "" {
		path = *outPath
	}

	slog.Info("generating scenario",
		"seed", gen.Seed,
		"territory", scenario.FormatDim(gen.Height, gen.Width),
		"commands", gen.Commands,
	)
	in := scenario.Generate(gen)
	if err := in.Validate(); err != nil {
		slog.Error("generated scenario is invalid", "error", err)
		os.Exit(1)
	}
	if err := scenario.Write(path, in); err != nil {
		slog.Error("failed to write scenario", "error", err)
		os.Exit(1)
	}

	p := in.Simulations[0].SectionParams
	fmt.Printf("\nWrote %s: %s cells, %d soils, %d airs, %d water bodies, %d plants, %d animals, %s commands.\n",
		path,
		humanize.Comma(int64(gen.Width*gen.Height)),
		len(p.Soil), len(p.Air), len(p.Water), len(p.Plants), len(p.Animals),
		humanize.Comma(int64(len(in.Commands))),
	)
}

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "terra.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Level() != slog.LevelInfo {
		t.Errorf("level = %v, want info", cfg.Level())
	}
	if cfg.API.Port != 8080 || cfg.API.Enabled {
		t.Errorf("api = %+v", cfg.API)
	}
	if g := cfg.GenConfig(); g.Seed != 42 || g.Width != 6 || g.Height != 5 {
		t.Errorf("generator = %+v", g)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := writeFile(t, "log_level: debug\napi:\n  enabled: true\n  port: 9000\ngenerator:\n  seed: 7\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("level = %v", cfg.Level())
	}
	if !cfg.API.Enabled || cfg.API.Port != 9000 {
		t.Errorf("api = %+v", cfg.API)
	}
	// Keys missing from the file keep their defaults.
	if cfg.Generator.Seed != 7 || cfg.Generator.Width != 6 || cfg.API.StreamRate != 30 {
		t.Errorf("generator = %+v stream rate = %d", cfg.Generator, cfg.API.StreamRate)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TERRA_LOG_LEVEL", "warn")
	t.Setenv("TERRA_DB_PATH", "/tmp/other.db")
	t.Setenv("TERRA_API_PORT", "7070")
	t.Setenv("TERRA_CORS_ORIGINS", "http://a.example, http://b.example")

	cfg, err := Load(writeFile(t, "api:\n  port: 9000\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Level() != slog.LevelWarn || cfg.Archive.DBPath != "/tmp/other.db" || cfg.API.Port != 7070 {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.API.CORSOrigins) != 2 || cfg.API.CORSOrigins[1] != "http://b.example" {
		t.Errorf("origins = %v", cfg.API.CORSOrigins)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad level", "log_level: chatty\n"},
		{"bad port", "api:\n  enabled: true\n  port: 70000\n"},
		{"archive without path", "archive:\n  enabled: true\n  db_path: \"\"\n"},
		{"zero width", "generator:\n  width: 0\n"},
		{"not yaml", "api: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeFile(t, tt.body)); err == nil {
				t.Error("expected an error")
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Telemetry.Dir = "out/telemetry"
	path := filepath.Join(t.TempDir(), "saved.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if again.Telemetry.Dir != "out/telemetry" || again.Generator != cfg.Generator {
		t.Errorf("reloaded = %+v", again)
	}
}

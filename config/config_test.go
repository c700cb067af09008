package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParsesJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"input_path":"in.png","max_colors":32}`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.InputPath != "in.png" || cfg.MaxColors != 32 {
		t.Fatalf("got %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.json"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestResolveFlagsOverrideThenDefault(t *testing.T) {
	cfg := Config{MaxColors: 64}
	cfg.Resolve(Flags{InputPath: "photo.png", Workers: 8})

	if cfg.InputPath != "photo.png" {
		t.Errorf("InputPath = %q, want %q", cfg.InputPath, "photo.png")
	}
	if cfg.MaxColors != 64 {
		t.Errorf("MaxColors should keep its pre-existing value, got %d", cfg.MaxColors)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if cfg.QuantizeStrategy != "kmeans" {
		t.Errorf("QuantizeStrategy default = %q, want kmeans", cfg.QuantizeStrategy)
	}
	if cfg.OutputPath != "worksheet.json" {
		t.Errorf("OutputPath default = %q, want worksheet.json", cfg.OutputPath)
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hackterm/internal/generator"
)

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.SavePath != DefaultSavePath {
		t.Errorf("SavePath = %s, want %s", cfg.SavePath, DefaultSavePath)
	}
	if cfg.Archive.Path != "" {
		t.Errorf("Archive.Path = %s, want empty", cfg.Archive.Path)
	}
	if got := cfg.GeneratorParams(); got != generator.CityParams() {
		t.Errorf("GeneratorParams() = %+v, want city defaults", got)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, `
seed: 1234
save_path: /tmp/run.yaml
log_level: debug
archive:
  path: /tmp/archive.db
generator:
  isp_count: 2
  users_per_router_min: 3
  users_per_router_max: 5
  inter_router_link_density: 0
`)

	cfg, got, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if got != path {
		t.Errorf("path = %s, want %s", got, path)
	}
	if cfg.Seed != 1234 {
		t.Errorf("Seed = %d, want 1234", cfg.Seed)
	}
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want default 1", cfg.Version)
	}
	if cfg.Archive.Path != "/tmp/archive.db" {
		t.Errorf("Archive.Path = %s", cfg.Archive.Path)
	}

	p := cfg.GeneratorParams()
	city := generator.CityParams()
	if p.ISPCount != 2 || p.UsersMin != 3 || p.UsersMax != 5 {
		t.Errorf("overrides not applied: %+v", p)
	}
	if p.InterRouterLinkDensity != 0 {
		t.Errorf("explicit zero density = %v, want 0", p.InterRouterLinkDensity)
	}
	if p.AreasMin != city.AreasMin || p.PublicDMZFraction != city.PublicDMZFraction {
		t.Errorf("unset fields should keep city defaults: %+v", p)
	}
}

func TestLoadFromPathErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed yaml", "generator: [", "parse config"},
		{"density above one", "generator:\n  inter_router_link_density: 1.5\n", "invalid config"},
		{"negative count", "generator:\n  isp_count: -1\n", "invalid config"},
		{"unknown log level", "log_level: loud\n", "invalid config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := LoadFromPath(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("LoadFromPath() error = nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		if _, _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("LoadFromPath() error = nil")
		}
	})
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "seed: 1\nsave_path: from-file.json\n")

	t.Setenv(EnvSeed, "987654321")
	t.Setenv(EnvSavePath, "from-env.json")

	cfg, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.Seed != 987654321 {
		t.Errorf("Seed = %d, want env value", cfg.Seed)
	}
	if cfg.SavePath != "from-env.json" {
		t.Errorf("SavePath = %s, want env value", cfg.SavePath)
	}

	t.Run("invalid seed", func(t *testing.T) {
		t.Setenv(EnvSeed, "not-a-number")
		if _, _, err := LoadFromPath(path); err == nil {
			t.Error("LoadFromPath() error = nil, want seed parse error")
		}
	})
}

func TestGeneratorParamsNormalizes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generator.ISPCount = intPtr(0)
	cfg.Generator.InterRouterLinkDensity = floatPtr(0.25)

	p := cfg.GeneratorParams()
	if p.ISPCount != generator.CityParams().ISPCount {
		t.Errorf("ISPCount = %d, want city default for 0", p.ISPCount)
	}
	if p.InterRouterLinkDensity != 0.25 {
		t.Errorf("InterRouterLinkDensity = %v, want 0.25", p.InterRouterLinkDensity)
	}
}

func TestSaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.Archive.Path = "snapshots.db"
	cfg.Generator.RoutersMax = intPtr(7)

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if loaded.Seed != 42 || loaded.Archive.Path != "snapshots.db" {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.Generator.RoutersMax == nil || *loaded.Generator.RoutersMax != 7 {
		t.Error("Generator.RoutersMax should be 7")
	}
	if loaded.Generator.UsersMax != nil {
		t.Error("unset generator fields should stay unset")
	}
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	if err := DefaultConfig().Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	if found := FindConfigPath(); found == "" {
		t.Error("FindConfigPath() should find config in working directory")
	}

	explicit := writeConfig(t, "seed: 5\n")
	t.Setenv(EnvConfigPath, explicit)
	if found := FindConfigPath(); found != explicit {
		t.Errorf("FindConfigPath() = %s, want explicit %s", found, explicit)
	}

	t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
	if found := FindConfigPath(); found == "" {
		t.Error("FindConfigPath() should fall back when env path doesn't exist")
	}
}

func TestSummary(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Archive.Path = "a.db"
	s := cfg.Summary()
	for _, want := range []string{"Save: " + DefaultSavePath, "Archive: a.db", "isps=1"} {
		if !strings.Contains(s, want) {
			t.Errorf("Summary() missing %q:\n%s", want, s)
		}
	}
}

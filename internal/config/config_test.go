package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"freqshift/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogDir := filepath.Join(tempHome, ".local", "share", "freqshift", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
	if cfg.Paths.OutputDir != "" {
		t.Fatalf("expected empty output dir, got %q", cfg.Paths.OutputDir)
	}
	if cfg.Delegates.FFmpegBinary != "ffmpeg" || cfg.Delegates.VGMStreamBinary != "vgmstream-cli" {
		t.Fatalf("unexpected delegate defaults: %#v", cfg.Delegates)
	}
	if !cfg.Convert.AtomicWrites {
		t.Fatal("expected atomic writes enabled by default")
	}
	if cfg.Convert.MinStringRun != 4 {
		t.Fatalf("expected min string run 4, got %d", cfg.Convert.MinStringRun)
	}
	if cfg.DelegateTimeout() != 0 {
		t.Fatalf("expected no delegate timeout by default, got %s", cfg.DelegateTimeout())
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	outDir := filepath.Join(tempHome, "out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}

	configPath := filepath.Join(tempHome, "config.toml")
	content := `
[paths]
output_dir = "~/out"

[delegates]
ffmpeg_binary = " /opt/ffmpeg/bin/ffmpeg "
timeout_seconds = 30

[convert]
parallelism = 4
image_format = "JPEG"

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Paths.OutputDir != outDir {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Delegates.FFmpegBinary != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("expected trimmed ffmpeg binary, got %q", cfg.Delegates.FFmpegBinary)
	}
	if cfg.DelegateTimeout() != 30*time.Second {
		t.Fatalf("unexpected delegate timeout %s", cfg.DelegateTimeout())
	}
	if cfg.Convert.Parallelism != 4 || cfg.Convert.ImageFormat != "jpg" {
		t.Fatalf("unexpected convert section: %#v", cfg.Convert)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging section: %#v", cfg.Logging)
	}
}

func TestLoadRejectsMissingOutputDir(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	configPath := filepath.Join(tempHome, "config.toml")
	if err := os.WriteFile(configPath, []byte("[paths]\noutput_dir = \"~/nowhere\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(configPath); err == nil || !strings.Contains(err.Error(), "paths.output_dir") {
		t.Fatalf("expected output_dir error, got %v", err)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	configPath := filepath.Join(tempHome, "config.toml")
	if err := os.WriteFile(configPath, []byte("[convert]\nturbo = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestEnvOverridesDelegates(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("FREQSHIFT_FFMPEG", "/usr/local/bin/ffmpeg")
	t.Setenv("FREQSHIFT_VGMSTREAM", "/usr/local/bin/vgmstream-cli")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Delegates.FFmpegBinary != "/usr/local/bin/ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary %q", cfg.Delegates.FFmpegBinary)
	}
	if cfg.Delegates.VGMStreamBinary != "/usr/local/bin/vgmstream-cli" {
		t.Fatalf("unexpected vgmstream binary %q", cfg.Delegates.VGMStreamBinary)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*config.Config){
		"image format": func(c *config.Config) { c.Convert.ImageFormat = "dds" },
		"log format":   func(c *config.Config) { c.Logging.Format = "xml" },
		"log level":    func(c *config.Config) { c.Logging.Level = "trace" },
		"timeout":      func(c *config.Config) { c.Delegates.TimeoutSeconds = -1 },
		"jpeg quality": func(c *config.Config) { c.Convert.JPEGQuality = 101 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error for %s", name)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	path := filepath.Join(tempHome, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var parsed config.Config
	if err := toml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}

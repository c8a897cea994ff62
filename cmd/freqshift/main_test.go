package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"freqshift/internal/artifact"
	"freqshift/internal/config"
	"freqshift/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	inputDir   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Chdir(base)

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	inputDir := filepath.Join(base, "inputs")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatalf("mkdir inputs: %v", err)
	}
	return &cliTestEnv{cfg: cfg, configPath: configPath, inputDir: inputDir}
}

func (e *cliTestEnv) input(t *testing.T, name string, data []byte) string {
	t.Helper()
	return testsupport.WriteFile(t, filepath.Join(e.inputDir, name), data)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\noutput_dir = %q\nlog_dir = %q\n\n[convert]\nparallelism = 2\n\n[logging]\nlevel = \"error\"\n",
		cfg.Paths.OutputDir,
		cfg.Paths.LogDir,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestRootHelp(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, nil, env.configPath)
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	for _, sub := range []string{"convert", "inspect", "formats", "doctor", "config"} {
		requireContains(t, out, sub)
	}
}

func TestFormatsJSON(t *testing.T) {
	out, _, err := runCLI(t, []string{"formats", "--json"}, "")
	if err != nil {
		t.Fatalf("formats: %v", err)
	}
	var view formatsView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode formats output: %v\n%s", err, out)
	}
	if len(view.Groups) != 4 {
		t.Fatalf("expected 4 signature groups, got %d", len(view.Groups))
	}
	defaults := 0
	for _, r := range view.Routes {
		if r.Default {
			defaults++
		}
	}
	if defaults != 8 {
		t.Fatalf("expected one default route per known kind, got %d", defaults)
	}
}

func TestFormatsTable(t *testing.T) {
	out, _, err := runCLI(t, []string{"formats"}, "")
	if err != nil {
		t.Fatalf("formats: %v", err)
	}
	requireContains(t, out, "game-metadata")
	requireContains(t, out, `starts-with "DDS"`)
	requireContains(t, out, "synthetic-audio")
}

func TestConvertTextureRaw(t *testing.T) {
	env := setupCLITestEnv(t)
	input := env.input(t, "asset.tex", []byte("DDS"))

	out, _, err := runCLI(t, []string{"convert", "--json", "--output", "raw", input}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	var views []conversionView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode convert output: %v\n%s", err, out)
	}
	if len(views) != 1 || views[0].Kind != "embedded-texture" || views[0].Handler != "passthrough" {
		t.Fatalf("unexpected view %+v", views)
	}
	if views[0].RequestID == "" {
		t.Fatal("expected a request id")
	}
	want := filepath.Join(env.cfg.Paths.OutputDir, "asset.dds")
	if len(views[0].Artifacts) != 1 || views[0].Artifacts[0].Path != want {
		t.Fatalf("unexpected artifacts %+v", views[0].Artifacts)
	}
	if got := testsupport.ReadFile(t, want); string(got) != "DDS" {
		t.Fatalf("raw artifact = %q", got)
	}
}

func TestConvertUnsupportedFails(t *testing.T) {
	env := setupCLITestEnv(t)
	input := env.input(t, "asset.tex", []byte("DDS"))

	out, _, err := runCLI(t, []string{"convert", "--json", "--output", "text", input}, env.configPath)
	if err == nil {
		t.Fatal("expected unsupported conversion to fail")
	}
	requireContains(t, err.Error(), "unsupported conversion")
	requireContains(t, out, `"error"`)
	if strings.Contains(out, `"retryable"`) {
		t.Fatalf("unsupported conversions are not retryable: %s", out)
	}
	if entries := testsupport.ListDir(t, env.cfg.Paths.OutputDir); len(entries) != 0 {
		t.Fatalf("expected no artifacts, got %v", entries)
	}
}

func TestConvertBatchYAML(t *testing.T) {
	env := setupCLITestEnv(t)
	inputs := []string{
		env.input(t, "voice.ogg", []byte("OggS\x00I_AM_PADDING\x01\x02\x03\x04")),
		env.input(t, "main.dat", []byte("function main() end")),
		env.input(t, "chars.tex", []byte("chars count=95")),
	}

	args := append([]string{"convert", "--yaml", "--parallel", "3"}, inputs...)
	out, _, err := runCLI(t, args, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	var views []conversionView
	if err := yaml.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode yaml: %v\n%s", err, out)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 results, got %d", len(views))
	}
	wantKinds := []string{"padded-audio-container", "script-text", "character-map-text"}
	for i, v := range views {
		if v.Input != inputs[i] {
			t.Fatalf("results out of order: %s at %d", v.Input, i)
		}
		if v.Kind != wantKinds[i] || v.Error != "" {
			t.Fatalf("unexpected result %+v", v)
		}
	}
	entries := testsupport.ListDir(t, env.cfg.Paths.OutputDir)
	requireContains(t, strings.Join(entries, ","), "voice.wav")
	requireContains(t, strings.Join(entries, ","), "main.txt")
	requireContains(t, strings.Join(entries, ","), "chars.txt")
}

func TestConvertAssumeKindAndTable(t *testing.T) {
	env := setupCLITestEnv(t)
	input := env.input(t, "archive.bnd", []byte("BND4 payload"))

	out, _, err := runCLI(t, []string{"convert", "--assume-kind", "embedded_texture", input}, env.configPath)
	if err == nil {
		t.Fatal("expected signature mismatch")
	}
	requireContains(t, err.Error(), "signature mismatch")
	requireContains(t, out, "archive.bnd")
	requireContains(t, out, "(assumed)")
	requireContains(t, out, "failed")
}

func TestInspectJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	input := env.input(t, "voice.ogg", []byte("OggS I_AM_PADDING"))

	out, _, err := runCLI(t, []string{"inspect", "--json", input}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	var views []inspectView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode inspect output: %v\n%s", err, out)
	}
	v := views[0]
	if v.Kind != "padded-audio-container" || v.Group != "ogg" || v.Decision != "signature" {
		t.Fatalf("unexpected inspect view %+v", v)
	}
	if len(v.Routes) != 1 || !v.Routes[0].Default || v.Routes[0].Handler != "synthetic-audio" {
		t.Fatalf("unexpected routes %+v", v.Routes)
	}
	if v.Probe != nil {
		t.Fatal("padded containers are not probed")
	}
}

func TestInspectUnknownTable(t *testing.T) {
	env := setupCLITestEnv(t)
	input := env.input(t, "blob.xyz", []byte("DDS"))

	out, _, err := runCLI(t, []string{"inspect", input}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "unknown")
	requireContains(t, out, "no-group")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.cfg.Paths.OutputDir)

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestInvalidConfigIsReported(t *testing.T) {
	env := setupCLITestEnv(t)
	bad := filepath.Join(filepath.Dir(env.configPath), "bad.toml")
	if err := os.WriteFile(bad, []byte("[convert]\nimage_format = \"dds\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, []string{"config", "validate"}, bad); err == nil {
		t.Fatal("expected invalid config to fail")
	}
}

func TestDoctorJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"doctor", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	var view doctorView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode doctor output: %v", err)
	}
	if len(view.Dependencies) != 3 {
		t.Fatalf("expected 3 delegate checks, got %d", len(view.Dependencies))
	}
	for _, dep := range view.Dependencies {
		if !dep.Available {
			t.Fatalf("expected stubbed %s to be available: %s", dep.Name, dep.Detail)
		}
	}
	if view.ConfigPath != env.configPath {
		t.Fatalf("config path = %q", view.ConfigPath)
	}
}

func TestLogLevelOverrideRejectsUnknownLevel(t *testing.T) {
	env := setupCLITestEnv(t)
	input := env.input(t, "asset.tex", []byte("DDS"))
	if _, _, err := runCLI(t, []string{"--log-level", "chatty", "convert", input}, env.configPath); err == nil {
		t.Fatal("expected invalid log level to fail")
	}
}

func TestDoctorTable(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "== Delegates ==")
	requireContains(t, out, "== Environment ==")
	requireContains(t, out, "[OK]")
}

func TestConvertBatchWarnsOnSharedDestination(t *testing.T) {
	env := setupCLITestEnv(t)
	first := env.input(t, "a.tex", []byte("DDS"))
	second := env.input(t, "a.dat", []byte("DDS"))

	out, _, err := runCLI(t, []string{"convert", "--json", "--output", "raw", first, second}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	var views []conversionView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode convert output: %v\n%s", err, out)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 results, got %d", len(views))
	}
	if len(views[0].Warnings) != 0 {
		t.Fatalf("first producer should not warn: %v", views[0].Warnings)
	}
	if len(views[1].Warnings) != 1 || !strings.Contains(views[1].Warnings[0], "also written by a.tex") {
		t.Fatalf("expected shared destination warning, got %v", views[1].Warnings)
	}
}

func TestFlagSharedArtifacts(t *testing.T) {
	views := []conversionView{
		{Input: "/in/a.tex", Artifacts: []artifact.Artifact{{Path: "/out/a.dds"}}},
		{Input: "/in/b.tex", Artifacts: []artifact.Artifact{{Path: "/out/b.dds"}}},
		{Input: "/in/a.dat", Artifacts: []artifact.Artifact{{Path: "/out/a.dds"}}},
	}
	flagSharedArtifacts(views)
	if len(views[0].Warnings)+len(views[1].Warnings) != 0 {
		t.Fatalf("unexpected warnings %+v", views[:2])
	}
	if len(views[2].Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", views[2].Warnings)
	}
}

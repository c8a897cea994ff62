package main

import (
	"bytes"
	"strings"
	"testing"

	"freqshift/internal/deps"
	"freqshift/internal/preflight"
)

func TestStatusPrinterPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	p := newStatusPrinter(&buf)
	p.section("Delegates")
	p.line("ffmpeg", levelOK, "/usr/bin/ffmpeg")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", buf.String())
	}
	if lines[0] != "== Delegates ==" || lines[1] != strings.Repeat("-", len(lines[0])) {
		t.Fatalf("unexpected header %q", lines[:2])
	}
	if !strings.HasPrefix(lines[2], "  ffmpeg:") || !strings.HasSuffix(lines[2], "[OK] /usr/bin/ffmpeg") {
		t.Fatalf("unexpected status line %q", lines[2])
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatal("buffers must not receive color codes")
	}
}

func TestDependencyLineLevels(t *testing.T) {
	cases := []struct {
		name string
		dep  deps.Status
		want level
	}{
		{"available", deps.Status{Available: true, Resolved: "/bin/ffmpeg"}, levelOK},
		{"optional", deps.Status{Optional: true, Detail: "not found"}, levelWarn},
		{"required", deps.Status{Detail: "not found", Description: "needed"}, levelFail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, detail := dependencyLine(tc.dep)
			if got != tc.want {
				t.Fatalf("level = %v, want %v", got, tc.want)
			}
			if tc.name == "required" && detail != "not found; needed" {
				t.Fatalf("detail = %q", detail)
			}
		})
	}
	if lv, _ := checkLine(preflight.Result{Passed: false}); lv != levelFail {
		t.Fatalf("failed check level = %v", lv)
	}
}

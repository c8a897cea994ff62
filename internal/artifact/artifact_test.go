package artifact

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestWriteDirect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")

	art, err := NewWriter().Write(path, []byte("hello"), KindRaw)
	if err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Fatalf("content mismatch: got %q", got)
	}
	if art.Size != 5 || art.Kind != KindRaw || art.Path != path {
		t.Fatalf("unexpected artifact %#v", art)
	}
	if len(art.Digest) != 64 {
		t.Fatalf("expected 32-byte hex digest, got %q", art.Digest)
	}
}

func TestWriteAtomicLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	w := NewWriter(WithAtomicWrites(true), WithLockDir(t.TempDir()))

	if _, err := w.Write(path, []byte("first"), KindText); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(path, []byte("second"), KindText); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only the artifact, found %v", names)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "second" {
		t.Fatalf("expected latest content, got %q", got)
	}
}

func TestWriteConcurrentSameDestination(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shared.bin")
	w := NewWriter(WithAtomicWrites(true), WithLockDir(t.TempDir()))

	payloads := [][]byte{
		bytes.Repeat([]byte{'a'}, 4096),
		bytes.Repeat([]byte{'b'}, 4096),
		bytes.Repeat([]byte{'c'}, 4096),
	}
	var wg sync.WaitGroup
	for _, payload := range payloads {
		wg.Add(1)
		go func(data []byte) {
			defer wg.Done()
			if _, err := w.Write(path, data, KindRaw); err != nil {
				t.Errorf("write: %v", err)
			}
		}(payload)
	}
	wg.Wait()

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	matched := false
	for _, payload := range payloads {
		if bytes.Equal(got, payload) {
			matched = true
		}
	}
	if !matched {
		t.Fatal("artifact content is a mix of concurrent writers")
	}
}

func TestRecordMatchesWriteDigest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.wav")
	written, err := NewWriter().Write(path, []byte("RIFF0000WAVE"), KindTranscode)
	if err != nil {
		t.Fatal(err)
	}
	recorded, err := Record(path, KindTranscode)
	if err != nil {
		t.Fatal(err)
	}
	if recorded != written {
		t.Fatalf("Record = %#v, Write = %#v", recorded, written)
	}
	if _, err := Record(filepath.Join(dir, "missing"), KindRaw); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestTargetPath(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "voice.tex")
	target := NewTarget(input, "")

	if got, want := target.Base, filepath.Join(dir, "voice"); got != want {
		t.Fatalf("Base = %q, want %q", got, want)
	}
	if got, want := target.Path("", "dds"), filepath.Join(dir, "voice.dds"); got != want {
		t.Fatalf("Path = %q, want %q", got, want)
	}
	if got, want := target.Path("_strings", ".txt"), filepath.Join(dir, "voice_strings.txt"); got != want {
		t.Fatalf("Path = %q, want %q", got, want)
	}
	if got := target.Path("", "tex"); got == input || !strings.HasSuffix(got, "voice_converted.tex") {
		t.Fatalf("expected converted suffix to protect input, got %q", got)
	}
}

func TestTargetOutputDir(t *testing.T) {
	out := t.TempDir()
	target := NewTarget("/somewhere/else/music.wem", out)
	if got, want := target.Path("", "wav"), filepath.Join(out, "music.wav"); got != want {
		t.Fatalf("Path = %q, want %q", got, want)
	}
}

func TestTargetPathProtectsInputThroughSymlinkedDir(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(input, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(t.TempDir(), "out")
	if err := os.Symlink(dir, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	out := NewTarget(input, link).Path("", "mp4")
	if got, want := out, filepath.Join(link, "clip_converted.mp4"); got != want {
		t.Fatalf("Path = %q, want %q", got, want)
	}
	if _, err := NewWriter().Write(out, []byte("clobbered"), KindTranscode); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(input)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "original" {
		t.Fatalf("input was overwritten: %q", got)
	}
}

func TestTargetPathDistinctExistingFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "clip.mp4")
	other := filepath.Join(t.TempDir(), "clip.mp4")
	for _, p := range []string{input, other} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if got := NewTarget(input, filepath.Dir(other)).Path("", "mp4"); got != other {
		t.Fatalf("Path = %q, want %q", got, other)
	}
}

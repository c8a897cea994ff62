package artifact

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// Kind labels what an artifact contains.
type Kind string

const (
	KindRaw            Kind = "raw"
	KindCandidate      Kind = "candidate"
	KindImage          Kind = "image"
	KindText           Kind = "text"
	KindMetadata       Kind = "metadata"
	KindSyntheticAudio Kind = "synthetic-audio"
	KindTranscode      Kind = "transcode"
)

// Artifact describes one written output file.
type Artifact struct {
	Path   string `json:"path" yaml:"path"`
	Size   int64  `json:"size" yaml:"size"`
	Kind   Kind   `json:"kind" yaml:"kind"`
	Digest string `json:"blake3" yaml:"blake3"`
}

// Writer persists artifacts. The zero value writes directly without locking.
type Writer struct {
	atomic  bool
	lockDir string
}

// Option configures a Writer.
type Option func(*Writer)

// WithAtomicWrites writes to a temporary sibling and renames it into place.
func WithAtomicWrites(enabled bool) Option {
	return func(w *Writer) {
		w.atomic = enabled
	}
}

// WithLockDir serializes writes to the same destination through advisory
// locks kept in dir. An empty dir disables locking.
func WithLockDir(dir string) Option {
	return func(w *Writer) {
		w.lockDir = strings.TrimSpace(dir)
	}
}

// NewWriter constructs a Writer.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write stores data at path and returns its descriptor.
func (w *Writer) Write(path string, data []byte, kind Kind) (Artifact, error) {
	if w == nil {
		w = &Writer{}
	}
	unlock, err := w.lock(path)
	if err != nil {
		return Artifact{}, err
	}
	defer unlock()

	if w.atomic {
		err = writeAtomic(path, data)
	} else {
		err = os.WriteFile(path, data, 0o644)
	}
	if err != nil {
		return Artifact{}, fmt.Errorf("write artifact %s: %w", path, err)
	}
	sum := blake3.Sum256(data)
	return Artifact{
		Path:   path,
		Size:   int64(len(data)),
		Kind:   kind,
		Digest: hex.EncodeToString(sum[:]),
	}, nil
}

// Record describes a file produced by an external tool.
func Record(path string, kind Kind) (Artifact, error) {
	file, err := os.Open(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("open artifact: %w", err)
	}
	defer file.Close()

	hasher := blake3.New()
	size, err := io.Copy(hasher, file)
	if err != nil {
		return Artifact{}, fmt.Errorf("hash artifact: %w", err)
	}
	return Artifact{
		Path:   path,
		Size:   size,
		Kind:   kind,
		Digest: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

func writeAtomic(path string, data []byte) error {
	dir, name := filepath.Split(path)
	tmp := filepath.Join(dir, "."+name+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func (w *Writer) lock(path string) (func(), error) {
	if w.lockDir == "" {
		return func() {}, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	sum := blake3.Sum256([]byte(abs))
	lockPath := filepath.Join(w.lockDir, "freqshift-"+hex.EncodeToString(sum[:8])+".lock")
	fl := flock.New(lockPath)
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("lock artifact %s: %w", path, err)
	}
	return func() { _ = fl.Unlock() }, nil
}

package artifact

import (
	"os"
	"path/filepath"
	"strings"
)

// convertedSuffix keeps an output from landing on its own input.
const convertedSuffix = "_converted"

// Target derives output paths from an input file. All outputs share the
// input's stem and live either beside the input or in an existing directory.
type Target struct {
	// Base is the output path without extension.
	Base  string
	input string
}

// NewTarget builds a Target for input. A non-empty dir replaces the input's
// directory; it is never created.
func NewTarget(input, dir string) Target {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if strings.TrimSpace(dir) == "" {
		dir = filepath.Dir(input)
	}
	return Target{Base: filepath.Join(dir, stem), input: input}
}

// Path returns Base+suffix+"."+ext. A path that would overwrite the input
// gains a "_converted" suffix.
func (t Target) Path(suffix, ext string) string {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	candidate := t.Base + suffix
	if ext != "" {
		candidate += "." + ext
	}
	if t.input != "" && samePath(candidate, t.input) {
		candidate = t.Base + suffix + convertedSuffix
		if ext != "" {
			candidate += "." + ext
		}
	}
	return candidate
}

// samePath reports whether a and b name the same file. Existing files are
// compared by identity so symlinked directories and case-insensitive
// filesystems are caught; otherwise the cleaned absolute paths are compared.
func samePath(a, b string) bool {
	if infoA, err := os.Stat(a); err == nil {
		if infoB, err := os.Stat(b); err == nil {
			return os.SameFile(infoA, infoB)
		}
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

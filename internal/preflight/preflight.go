package preflight

import (
	"os"

	"freqshift/internal/config"
	"freqshift/internal/imagecodec"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name" yaml:"name"`
	Passed bool   `json:"passed" yaml:"passed"`
	Detail string `json:"detail" yaml:"detail"`
}

// RunAll executes the filesystem and codec checks for the given config.
// Delegate binaries are reported separately through deps.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Output directory (when configured)
	if cfg.Paths.OutputDir != "" {
		results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	}

	// Log directory (created on demand, so only checked once present)
	if _, err := os.Stat(cfg.Paths.LogDir); err == nil {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	// Artifact lock files
	results = append(results, CheckDirectoryAccess("Lock directory", os.TempDir()))

	results = append(results, CheckImageCodecs(imagecodec.New(imagecodec.WithJPEGQuality(cfg.Convert.JPEGQuality))))
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}

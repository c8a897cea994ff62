// Package logging assembles structured slog loggers used across FreqShift.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so engine code automatically
// tags log lines with the input path, stage, and correlation ID. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
package logging

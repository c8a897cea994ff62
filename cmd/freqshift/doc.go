// Package main hosts the FreqShift CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into engine
// requests: batch conversion, classification reports, the format and route
// tables, dependency checks, and configuration scaffolding. It centralizes
// configuration resolution and structured logging setup so subcommands can
// focus on presentation.
//
// Keep this package lean: extend the internal packages first, then surface
// the behaviour through a command or flag here.
package main

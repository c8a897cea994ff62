package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"freqshift/internal/deps"
	"freqshift/internal/preflight"
)

type level int

const (
	levelInfo level = iota
	levelOK
	levelWarn
	levelFail
)

var levelStyles = map[level]struct {
	tag   string
	color string
}{
	levelInfo: {"INFO", "\x1b[34m"},
	levelOK:   {"OK", "\x1b[32m"},
	levelWarn: {"WARN", "\x1b[33m"},
	levelFail: {"FAIL", "\x1b[31m"},
}

const ansiReset = "\x1b[0m"

// statusPrinter writes aligned "label: [TAG] detail" lines, colored when the
// destination is a terminal.
type statusPrinter struct {
	w          io.Writer
	color      bool
	labelWidth int
}

func newStatusPrinter(w io.Writer) *statusPrinter {
	return &statusPrinter{w: w, color: isTerminal(w), labelWidth: 18}
}

func (p *statusPrinter) section(title string) {
	heading := "== " + strings.TrimSpace(title) + " =="
	fmt.Fprintln(p.w, p.paint(levelInfo, heading))
	fmt.Fprintln(p.w, p.paint(levelInfo, strings.Repeat("-", len(heading))))
}

func (p *statusPrinter) line(label string, lv level, detail string) {
	text := fmt.Sprintf("  %-*s [%s]", p.labelWidth, label+":", levelStyles[lv].tag)
	if detail != "" {
		text += " " + detail
	}
	fmt.Fprintln(p.w, p.paint(lv, text))
}

func (p *statusPrinter) paint(lv level, text string) string {
	if !p.color {
		return text
	}
	return levelStyles[lv].color + text + ansiReset
}

// dependencyLine maps a binary check onto a level. Missing optional delegates
// only warn.
func dependencyLine(dep deps.Status) (level, string) {
	if dep.Available {
		return levelOK, dep.Resolved
	}
	detail := dep.Detail
	if dep.Description != "" {
		detail += "; " + dep.Description
	}
	if dep.Optional {
		return levelWarn, detail
	}
	return levelFail, detail
}

func checkLine(check preflight.Result) (level, string) {
	if check.Passed {
		return levelOK, check.Detail
	}
	return levelFail, check.Detail
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

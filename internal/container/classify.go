package container

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// PrefixSize is the largest prefix the classifier ever inspects.
const PrefixSize = 128

// DetectionInput is an immutable view over the bytes used for classification.
type DetectionInput struct {
	ext    string
	prefix []byte
}

// NewDetectionInput normalizes ext and copies at most PrefixSize bytes of prefix.
func NewDetectionInput(ext string, prefix []byte) DetectionInput {
	if len(prefix) > PrefixSize {
		prefix = prefix[:PrefixSize]
	}
	return DetectionInput{
		ext:    NormalizeExtension(ext),
		prefix: append([]byte(nil), prefix...),
	}
}

// ReadDetectionInput opens path and reads at most PrefixSize bytes.
func ReadDetectionInput(path string) (DetectionInput, error) {
	file, err := os.Open(path)
	if err != nil {
		return DetectionInput{}, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	buf := make([]byte, PrefixSize)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return DetectionInput{}, fmt.Errorf("read prefix: %w", err)
	}
	return NewDetectionInput(filepath.Ext(path), buf[:n]), nil
}

// Extension returns the normalized extension.
func (d DetectionInput) Extension() string { return d.ext }

// Prefix returns a copy of the inspected bytes.
func (d DetectionInput) Prefix() []byte { return append([]byte(nil), d.prefix...) }

// Classify returns the container kind for the input.
func (d DetectionInput) Classify() Kind {
	return explain(table, d.ext, d.prefix).Kind
}

// NormalizeExtension lower-cases ext and strips surrounding space and a leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	ext = strings.TrimPrefix(ext, ".")
	return strings.ToLower(strings.TrimSpace(ext))
}

// Classify returns the single container kind for an extension and byte prefix.
// It never fails: unmatched input yields a group fallback or Unknown.
func Classify(ext string, prefix []byte) Kind {
	return Explain(ext, prefix).Kind
}

// Decision names the rule that produced a verdict.
type Decision string

const (
	DecisionNoGroup   Decision = "no-group"
	DecisionImmediate Decision = "immediate"
	DecisionSignature Decision = "signature"
	DecisionFallback  Decision = "fallback"
	DecisionNoMatch   Decision = "no-match"
)

// Verdict is a classification plus the rule that decided it.
type Verdict struct {
	Kind      Kind
	Group     string
	Decision  Decision
	Signature string
	// Rule is the index of the matching signature within its group, or -1.
	Rule int
}

// Explain classifies like Classify and also reports why.
func Explain(ext string, prefix []byte) Verdict {
	if len(prefix) > PrefixSize {
		prefix = prefix[:PrefixSize]
	}
	return explain(table, NormalizeExtension(ext), prefix)
}

func explain(groups []Group, ext string, prefix []byte) Verdict {
	group, ok := lookup(groups, ext)
	if !ok {
		return Verdict{Kind: Unknown, Decision: DecisionNoGroup, Rule: -1}
	}
	if group.Immediate != Unknown {
		return Verdict{Kind: group.Immediate, Group: group.Name, Decision: DecisionImmediate, Rule: -1}
	}
	for i, sig := range group.Signatures {
		if sig.Match(prefix) {
			return Verdict{
				Kind:      sig.Kind,
				Group:     group.Name,
				Decision:  DecisionSignature,
				Signature: sig.Describe(),
				Rule:      i,
			}
		}
	}
	if group.Fallback != Unknown {
		return Verdict{Kind: group.Fallback, Group: group.Name, Decision: DecisionFallback, Rule: -1}
	}
	return Verdict{Kind: Unknown, Group: group.Name, Decision: DecisionNoMatch, Rule: -1}
}

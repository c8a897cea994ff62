package container

import (
	"bytes"
	"strconv"
)

// MatchMode selects how a signature literal is compared against a prefix.
type MatchMode int

const (
	// MatchStartsWith requires the prefix to begin with the literal.
	MatchStartsWith MatchMode = iota
	// MatchContains requires the literal anywhere in the prefix.
	MatchContains
)

func (m MatchMode) String() string {
	switch m {
	case MatchStartsWith:
		return "starts-with"
	case MatchContains:
		return "contains"
	default:
		return "match(" + strconv.Itoa(int(m)) + ")"
	}
}

// Signature maps a byte pattern to a container kind.
type Signature struct {
	Kind    Kind
	Mode    MatchMode
	Literal []byte
}

// StartsWith builds a signature that matches a literal at offset zero.
func StartsWith(kind Kind, literal string) Signature {
	return Signature{Kind: kind, Mode: MatchStartsWith, Literal: []byte(literal)}
}

// Contains builds a signature that matches a literal anywhere in the prefix.
func Contains(kind Kind, literal string) Signature {
	return Signature{Kind: kind, Mode: MatchContains, Literal: []byte(literal)}
}

// Match reports whether prefix satisfies the signature. An empty literal never matches.
func (s Signature) Match(prefix []byte) bool {
	if len(s.Literal) == 0 || len(prefix) < len(s.Literal) {
		return false
	}
	switch s.Mode {
	case MatchStartsWith:
		return bytes.HasPrefix(prefix, s.Literal)
	case MatchContains:
		return bytes.Contains(prefix, s.Literal)
	default:
		return false
	}
}

// Describe renders the signature for diagnostics, e.g. `starts-with "DDS"`.
func (s Signature) Describe() string {
	return s.Mode.String() + " " + strconv.QuoteToASCII(string(s.Literal))
}

// Group is one row of the signature table: a set of extensions and the
// ordered rules used to classify files carrying them.
type Group struct {
	Name       string
	Extensions []string
	// Immediate, when set, classifies every file in the group without
	// inspecting bytes.
	Immediate  Kind
	Signatures []Signature
	// Fallback is returned when no signature matches. Unknown means none.
	Fallback Kind
}

// HasExtension reports whether ext (already normalized) belongs to the group.
func (g Group) HasExtension(ext string) bool {
	for _, candidate := range g.Extensions {
		if candidate == ext {
			return true
		}
	}
	return false
}

func (g Group) clone() Group {
	out := g
	out.Extensions = append([]string(nil), g.Extensions...)
	out.Signatures = make([]Signature, len(g.Signatures))
	for i, sig := range g.Signatures {
		sig.Literal = append([]byte(nil), sig.Literal...)
		out.Signatures[i] = sig
	}
	return out
}

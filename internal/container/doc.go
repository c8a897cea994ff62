// Package container classifies input files into a closed set of container kinds.
//
// Classification combines the file extension with a short byte prefix (at most
// PrefixSize bytes). The signature table is ordered data: each group lists the
// extensions it owns, an optional immediate kind for extensions that need no
// byte inspection, signatures in precedence order, and an optional fallback
// kind. Adding a detection rule means adding a row, never a branch.
//
// Primary entry points:
//   - Classify: pure extension+prefix to Kind
//   - Explain: the same verdict with the deciding group and rule
//   - ReadDetectionInput: reads the bounded prefix from disk
package container

// Package artifact names and writes conversion outputs.
//
// Every output derives from the input path's stem plus a suffix or extension,
// and never lands on the input itself. Writer optionally stages data in a
// temporary sibling before renaming it into place and serializes writers of
// the same destination with advisory file locks. Each Artifact carries its
// size and BLAKE3 digest so callers can verify idempotent extraction.
package artifact

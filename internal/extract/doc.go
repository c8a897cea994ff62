// Package extract implements the in-process extraction strategies for the
// proprietary container kinds.
//
// Every strategy reads a fully buffered input, never mutates it, and writes
// its outputs through an artifact.Writer using names derived from an
// artifact.Target. Strategies fail fast and return any artifacts written
// before the failure alongside the error. Binder isolation is the exception:
// a candidate that cannot be decoded becomes a warning and the scan goes on.
package extract

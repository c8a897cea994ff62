// Package services defines shared utilities consumed by the conversion engine
// and its external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp input paths, stage names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so failures carry the stage
//     and operation that produced them.
package services

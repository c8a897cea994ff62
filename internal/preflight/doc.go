// Package preflight provides readiness checks for the filesystem paths and
// codecs FreqShift depends on.
//
// The CLI "freqshift doctor" command runs RunAll alongside the delegate
// binary checks from the deps package.
package preflight

// Package dispatch maps classified container kinds to the strategy or
// delegate that converts them and runs the conversion pipeline.
//
// The route table is immutable. A request is validated against it before the
// input is fully read and before anything is written, so an illegal
// kind/output pair never partially executes.
package dispatch

// Package build defines the node contract of the interactive builder and
// the generic node implementations that compose into value trees: scalar
// cells, sequences, optionals, boxes, records and unions.
//
// A node tree is owned by exactly one engine instance and is only mutated
// through Apply. Paths handed to a node are suffixes relative to it; the
// engine constructs them exclusively from identifiers the tree itself
// returned, so an unknown segment is an internal inconsistency and panics
// instead of returning a recoverable error.
package build

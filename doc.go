// Package espalier builds values of composite types through a sequence of
// discrete interactions instead of a single parse step.
//
// A Builder owns a tree of nodes (pkg/build) and a cursor into it. At each
// step GetOptions reports a prompt and the valid inputs, Choose applies one
// user input and moves the cursor, and Finalize materializes the finished
// value once every required part is set. The tree can come from pkg/bind
// (reflection over a tagged Go struct), pkg/schema (a YAML form definition)
// or be assembled by hand from the build package's nodes.
package espalier

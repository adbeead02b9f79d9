package build

import (
	"fmt"

	"github.com/aretw0/espalier/pkg/domain"
)

// Value is the contract every node of a builder tree implements.
//
// The path parameter of Apply, Options and Subfields is the not-yet-consumed
// suffix of the engine's cursor relative to this node: empty means the
// operation targets the node itself, otherwise the first segment names a
// child to delegate to.
//
// A node must answer every query while empty (no value, no default) without
// panicking; empty is a persistent state, not an error.
type Value interface {
	// Apply validates one input and mutates the node (or a descendant named
	// by path). On failure the tree is unchanged and one of the recoverable
	// domain errors is returned.
	Apply(in domain.Input, path []string) error

	// Options returns the menu for the node addressed by path.
	Options(path []string) domain.Options

	// Subfields returns the legal first segments a caller may descend into
	// at path. An empty result marks a position that is interacted with
	// directly (a leaf, a terminal sub-menu).
	Subfields(path []string) []string

	// Snapshot returns a side-effect-free display tree of the subtree.
	Snapshot() domain.Tree

	// Extract materializes the value of the subtree. ok is false while any
	// required part is still missing.
	Extract() (value any, ok bool)
}

// Factory constructs a fresh, default-populated node. Sequences, optionals
// and unions use it to grow their subtree on demand.
type Factory func() Value

// Complete reports whether the node currently holds a complete value.
func Complete(v Value) bool {
	_, ok := v.Extract()
	return ok
}

// badPath aborts on an out-of-contract path. The engine only descends into
// segments a node reported via Subfields, so reaching this means the engine
// and the tree disagree about the tree's shape.
func badPath(node string, path []string) {
	panic(fmt.Sprintf("espalier: %s received out-of-contract path %v", node, path))
}

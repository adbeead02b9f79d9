package build

import (
	"github.com/aretw0/espalier/pkg/domain"
)

// Box forwards every operation to exactly one owned child. It carries no
// state of its own and exists to give self-referential shapes a stable
// indirection point: a record that nests itself wraps the recursive child
// in a Box so the tree only materializes as deep as the user navigates.
type Box struct {
	inner Value
}

// NewBox wraps a child node.
func NewBox(inner Value) *Box {
	return &Box{inner: inner}
}

func (b *Box) Apply(in domain.Input, path []string) error {
	return b.inner.Apply(in, path)
}

func (b *Box) Options(path []string) domain.Options {
	return b.inner.Options(path)
}

func (b *Box) Subfields(path []string) []string {
	return b.inner.Subfields(path)
}

func (b *Box) Snapshot() domain.Tree {
	return b.inner.Snapshot()
}

func (b *Box) Extract() (any, bool) {
	return b.inner.Extract()
}

package domain

// Tree is a read-only structural snapshot of a builder node, meant for
// display. It is produced recursively and is independent of the navigation
// state: rendering it never affects the engine.
type Tree struct {
	// Composite is true for nodes made of children (records, unions with a
	// selected payload, sequences) and false for leaves.
	Composite bool `json:"composite"`

	// Label names a composite node (record or variant name). Sequences have
	// an empty label.
	Label string `json:"label,omitempty"`

	// Children holds the sub-nodes of a composite, in display order.
	Children []TreeChild `json:"children,omitempty"`

	// Value is the textual rendering of a set leaf.
	Value string `json:"value,omitempty"`

	// Missing marks a leaf whose value has not been provided yet.
	Missing bool `json:"missing,omitempty"`
}

// TreeChild is one child of a composite node. Record fields are named,
// sequence elements are positional.
type TreeChild struct {
	Name  string `json:"name,omitempty"`
	Named bool   `json:"named"`
	Tree  Tree   `json:"tree"`
}

// Leaf builds a leaf snapshot holding a textual value.
func Leaf(value string) Tree {
	return Tree{Value: value}
}

// MissingLeaf builds a leaf snapshot for an unset value.
func MissingLeaf() Tree {
	return Tree{Missing: true}
}

// Composite builds a composite snapshot with the given label and children.
func Composite(label string, children ...TreeChild) Tree {
	return Tree{Composite: true, Label: label, Children: children}
}

// Named wraps a child snapshot under a field name.
func Named(name string, t Tree) TreeChild {
	return TreeChild{Name: name, Named: true, Tree: t}
}

// Positional wraps an unnamed child snapshot (sequence element).
func Positional(t Tree) TreeChild {
	return TreeChild{Tree: t}
}

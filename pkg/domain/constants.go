package domain

// Reserved choice identifiers. Generated and hand-written nodes must never
// use these as field, variant or index names.
const (
	// FinalizeID is the identifier of the synthetic "Done" choice offered at
	// the root menu once the value is complete.
	FinalizeID = "__finalize"

	// BackID is the identifier of the synthetic "Go back" choice offered at
	// every nested menu.
	BackID = "__back"

	// NewID appends a fresh element to a sequence. Immediately after the
	// append it also addresses that element, so callers never need to know
	// the new index.
	NewID = "__new"

	// RemoveID opens the element-removal sub-menu of a sequence, or clears
	// the value of an optional.
	RemoveID = "__remove"

	// SetID populates an unset optional with a default-constructed value.
	SetID = "__set"

	// EditID descends into the value currently held by an optional.
	EditID = "__edit"
)

// IsReserved reports whether id collides with one of the reserved choice
// identifiers above.
func IsReserved(id string) bool {
	switch id {
	case FinalizeID, BackID, NewID, RemoveID, SetID, EditID:
		return true
	}
	return false
}

package bind

import "fmt"

// TagError reports a struct field that cannot be bound: an unsupported
// type, a malformed tag, or a hidden field without a usable default.
type TagError struct {
	Field  string // Dotted path from the root struct
	Reason string // Human-readable reason for failure
}

func (e *TagError) Error() string {
	return fmt.Sprintf("bind: field %s: %s", e.Field, e.Reason)
}

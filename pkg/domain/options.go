package domain

// Options describes everything a caller may do at the current position:
// a prompt, an ordered list of discrete choices and whether free text is
// accepted. Adapters render it; the engine guarantees that any Choice.ID
// listed here is accepted by the next call to Choose.
type Options struct {
	// Prompt is the question to show to the user.
	Prompt string `json:"prompt"`

	// TextInput indicates that raw text (Input from Text) is accepted.
	TextInput bool `json:"text_input"`

	// Choices are the discrete options, in display order.
	Choices []OptionChoice `json:"choices"`
}

// OptionChoice is a single selectable entry of a menu.
type OptionChoice struct {
	// ID is the stable identifier to echo back via Choice(id). It is unique
	// within one Options value and may be hidden from the user.
	ID string `json:"id"`

	// Label is the human-readable text of the entry.
	Label string `json:"label"`

	// NeedsAction hints that the subtree behind this entry still misses at
	// least one required value. Purely advisory: it never blocks selection.
	NeedsAction bool `json:"needs_action"`
}

// HasChoice reports whether a choice with the given identifier is present.
func (o Options) HasChoice(id string) bool {
	for _, c := range o.Choices {
		if c.ID == id {
			return true
		}
	}
	return false
}

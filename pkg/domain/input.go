package domain

// InputKind discriminates the two ways a user can answer a menu.
type InputKind int

const (
	// KindChoice selects one of the discrete options by identifier.
	KindChoice InputKind = iota
	// KindText supplies free text, accepted only when Options.TextInput is set.
	KindText
)

// Input is a single interaction step supplied to the engine: either the
// identifier of a discrete choice or a line of free text.
type Input struct {
	kind  InputKind
	value string
}

// Choice wraps the identifier of a selected option.
func Choice(id string) Input {
	return Input{kind: KindChoice, value: id}
}

// Text wraps raw textual input.
func Text(s string) Input {
	return Input{kind: KindText, value: s}
}

// Kind returns the discriminator of the input.
func (i Input) Kind() InputKind { return i.kind }

// IsChoice reports whether the input is a discrete choice.
func (i Input) IsChoice() bool { return i.kind == KindChoice }

// IsText reports whether the input is free text.
func (i Input) IsText() bool { return i.kind == KindText }

// Value returns the choice identifier or the raw text.
func (i Input) Value() string { return i.value }

func (i Input) String() string {
	if i.kind == KindText {
		return "Text(" + i.value + ")"
	}
	return "Choice(" + i.value + ")"
}

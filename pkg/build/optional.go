package build

import (
	"github.com/aretw0/espalier/pkg/domain"
)

// Optional is the node for a zero-or-one value. Unset it offers __set;
// set it offers __remove and __edit. An unset optional is complete.
type Optional struct {
	value      Value
	newElement Factory
	prompt     string
}

// NewOptional returns an unset optional whose value is produced by
// newElement when the user sets it.
func NewOptional(newElement Factory, cfg Config) *Optional {
	prompt := "Choose an option"
	if cfg.Prompt != "" {
		prompt = cfg.Prompt
	}
	return &Optional{newElement: newElement, prompt: prompt}
}

// IsSet reports whether a value is currently present.
func (o *Optional) IsSet() bool { return o.value != nil }

func (o *Optional) Apply(in domain.Input, path []string) error {
	if len(path) == 0 {
		if in.IsText() {
			return domain.ErrUnexpectedText
		}
		switch in.Value() {
		case domain.SetID:
			if o.value != nil {
				return domain.ErrInvalidChoice
			}
			o.value = o.newElement()
		case domain.RemoveID:
			if o.value == nil {
				return domain.ErrInvalidChoice
			}
			o.value = nil
		case domain.EditID:
			if o.value == nil {
				return domain.ErrInvalidChoice
			}
			// Descending is the engine's job; selecting edit changes nothing.
		default:
			return domain.ErrInvalidChoice
		}
		return nil
	}

	head, rest := path[0], path[1:]
	if (head != domain.SetID && head != domain.EditID) || o.value == nil {
		badPath("optional", path)
	}
	return o.value.Apply(in, rest)
}

func (o *Optional) Options(path []string) domain.Options {
	if len(path) == 0 {
		if o.value == nil {
			return domain.Options{
				Prompt:  o.prompt,
				Choices: []domain.OptionChoice{{ID: domain.SetID, Label: "Set value"}},
			}
		}
		return domain.Options{
			Prompt: o.prompt,
			Choices: []domain.OptionChoice{
				{ID: domain.RemoveID, Label: "Remove value"},
				{ID: domain.EditID, Label: "Edit value", NeedsAction: !Complete(o.value)},
			},
		}
	}

	head, rest := path[0], path[1:]
	if (head != domain.SetID && head != domain.EditID) || o.value == nil {
		badPath("optional", path)
	}
	return o.value.Options(rest)
}

func (o *Optional) Subfields(path []string) []string {
	if len(path) == 0 {
		if o.value == nil {
			return []string{domain.SetID}
		}
		return []string{domain.EditID}
	}

	head, rest := path[0], path[1:]
	if (head != domain.SetID && head != domain.EditID) || o.value == nil {
		badPath("optional", path)
	}
	return o.value.Subfields(rest)
}

func (o *Optional) Snapshot() domain.Tree {
	if o.value == nil {
		return domain.Leaf("(none)")
	}
	return o.value.Snapshot()
}

// Extract returns nil when unset (present, absent value) and the inner
// value otherwise.
func (o *Optional) Extract() (any, bool) {
	if o.value == nil {
		return nil, true
	}
	return o.value.Extract()
}

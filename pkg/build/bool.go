package build

import (
	"strconv"

	"github.com/aretw0/espalier/pkg/domain"
)

// BoolCell is the leaf node for booleans. Unlike the free-text cells it
// offers exactly two discrete choices, "true" and "false".
type BoolCell struct {
	value  *bool
	prompt string
}

// NewBool returns a boolean cell.
func NewBool(cfg CellConfig[bool]) *BoolCell {
	prompt := "True or false?"
	if cfg.Prompt != "" {
		prompt = cfg.Prompt
	}
	return &BoolCell{value: cfg.Default, prompt: prompt}
}

func (b *BoolCell) Apply(in domain.Input, path []string) error {
	if len(path) != 0 {
		badPath("bool cell", path)
	}
	if in.IsText() {
		return domain.ErrUnexpectedText
	}
	switch in.Value() {
	case "true":
		v := true
		b.value = &v
	case "false":
		v := false
		b.value = &v
	default:
		return domain.ErrInvalidChoice
	}
	return nil
}

func (b *BoolCell) Options(path []string) domain.Options {
	if len(path) != 0 {
		badPath("bool cell", path)
	}
	return domain.Options{
		Prompt: b.prompt,
		Choices: []domain.OptionChoice{
			{ID: "true", Label: "true"},
			{ID: "false", Label: "false"},
		},
	}
}

func (b *BoolCell) Subfields(path []string) []string {
	if len(path) != 0 {
		badPath("bool cell", path)
	}
	return nil
}

func (b *BoolCell) Snapshot() domain.Tree {
	if b.value == nil {
		return domain.MissingLeaf()
	}
	return domain.Leaf(strconv.FormatBool(*b.value))
}

func (b *BoolCell) Extract() (any, bool) {
	if b.value == nil {
		return nil, false
	}
	return *b.value, true
}

package build

import (
	"fmt"
	"strconv"

	"github.com/aretw0/espalier/pkg/domain"
)

// Config carries the optional prompt override of a composite node.
type Config struct {
	Prompt string
}

// Sequence is the node for a dynamically-growable ordered list with a fixed
// element shape. Its top-level menu is a small state machine:
//
//	empty main      --__new-->            edit fresh element --back--> main
//	non-empty main  --index / __new-->    edit element       --back--> main
//	non-empty main  --__remove--> remove-select --index--> main (element gone)
//
// __new both appends a default-constructed element and, when used as a path
// segment, addresses the element appended last.
type Sequence struct {
	elems      []Value
	newElement Factory
	prompt     string
}

// NewSequence returns an empty sequence whose elements are produced by
// newElement.
func NewSequence(newElement Factory, cfg Config) *Sequence {
	prompt := "Select an action"
	if cfg.Prompt != "" {
		prompt = cfg.Prompt
	}
	return &Sequence{newElement: newElement, prompt: prompt}
}

// Len returns the current number of elements.
func (s *Sequence) Len() int { return len(s.elems) }

func (s *Sequence) Apply(in domain.Input, path []string) error {
	if len(path) == 0 {
		return s.applyMain(in)
	}

	head, rest := path[0], path[1:]
	switch head {
	case domain.RemoveID:
		if len(rest) != 0 {
			badPath("sequence", path)
		}
		return s.applyRemove(in)
	case domain.NewID:
		return s.last("apply").Apply(in, rest)
	default:
		return s.elems[s.mustIndex(head, path)].Apply(in, rest)
	}
}

// applyMain handles the top-level menu. Selecting an existing index is a
// pure validity check; the actual descent is the engine's job.
func (s *Sequence) applyMain(in domain.Input) error {
	if in.IsText() {
		return domain.ErrUnexpectedText
	}
	switch in.Value() {
	case domain.NewID:
		s.elems = append(s.elems, s.newElement())
		return nil
	case domain.RemoveID:
		if len(s.elems) == 0 {
			return domain.ErrInvalidChoice
		}
		return nil
	default:
		if _, err := s.userIndex(in.Value()); err != nil {
			return err
		}
		return nil
	}
}

// applyRemove deletes the element picked in the removal sub-menu.
func (s *Sequence) applyRemove(in domain.Input) error {
	if in.IsText() {
		return domain.ErrUnexpectedText
	}
	i, err := s.userIndex(in.Value())
	if err != nil {
		return err
	}
	s.elems = append(s.elems[:i], s.elems[i+1:]...)
	return nil
}

func (s *Sequence) Options(path []string) domain.Options {
	if len(path) == 0 {
		return s.mainOptions()
	}

	head, rest := path[0], path[1:]
	switch head {
	case domain.RemoveID:
		if len(rest) != 0 {
			badPath("sequence", path)
		}
		choices := make([]domain.OptionChoice, len(s.elems))
		for i := range s.elems {
			choices[i] = domain.OptionChoice{
				ID:    strconv.Itoa(i),
				Label: fmt.Sprintf("Remove item %d", i),
			}
		}
		return domain.Options{Prompt: "Select the item to remove", Choices: choices}
	case domain.NewID:
		return s.last("options").Options(rest)
	default:
		return s.elems[s.mustIndex(head, path)].Options(rest)
	}
}

func (s *Sequence) mainOptions() domain.Options {
	choices := []domain.OptionChoice{{ID: domain.NewID, Label: "New element"}}
	if len(s.elems) > 0 {
		choices = append(choices, domain.OptionChoice{ID: domain.RemoveID, Label: "Remove element"})
		for i, el := range s.elems {
			choices = append(choices, domain.OptionChoice{
				ID:          strconv.Itoa(i),
				Label:       fmt.Sprintf("Edit item %d", i),
				NeedsAction: !Complete(el),
			})
		}
	}
	return domain.Options{Prompt: s.prompt, Choices: choices}
}

func (s *Sequence) Subfields(path []string) []string {
	if len(path) == 0 {
		fields := []string{domain.NewID}
		if len(s.elems) > 0 {
			fields = append(fields, domain.RemoveID)
			for i := range s.elems {
				fields = append(fields, strconv.Itoa(i))
			}
		}
		return fields
	}

	head, rest := path[0], path[1:]
	switch head {
	case domain.RemoveID:
		// The removal menu is terminal: picking an index applies directly.
		return nil
	case domain.NewID:
		return s.last("subfields").Subfields(rest)
	default:
		return s.elems[s.mustIndex(head, path)].Subfields(rest)
	}
}

func (s *Sequence) Snapshot() domain.Tree {
	children := make([]domain.TreeChild, len(s.elems))
	for i, el := range s.elems {
		children[i] = domain.Positional(el.Snapshot())
	}
	return domain.Composite("", children...)
}

// Extract yields the ordered element values. An empty sequence is complete
// and extracts to an empty list.
func (s *Sequence) Extract() (any, bool) {
	out := make([]any, len(s.elems))
	for i, el := range s.elems {
		v, ok := el.Extract()
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// userIndex parses an index coming straight from user input. Malformed or
// out-of-range values are the caller's mistake, not ours.
func (s *Sequence) userIndex(raw string) (int, error) {
	i, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || int(i) >= len(s.elems) {
		return 0, domain.ErrInvalidChoice
	}
	return int(i), nil
}

// mustIndex parses an index segment the engine built itself.
func (s *Sequence) mustIndex(raw string, path []string) int {
	i, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || int(i) >= len(s.elems) {
		badPath("sequence", path)
	}
	return int(i)
}

// last returns the most recently appended element, addressed by __new.
func (s *Sequence) last(op string) Value {
	if len(s.elems) == 0 {
		panic("espalier: sequence " + op + " through __new with no elements")
	}
	return s.elems[len(s.elems)-1]
}

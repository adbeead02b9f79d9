package build

import (
	"fmt"

	"github.com/aretw0/espalier/pkg/domain"
)

// VariantSpec describes one alternative of a Union. A nil Make marks an
// empty variant: it carries no payload and behaves as a leaf, completing
// the union the moment it is selected.
type VariantSpec struct {
	Name   string
	Label  string
	Hidden bool
	Make   Factory
}

// Variant is the extracted value of a Union: the selected variant's name
// plus its payload value, nil for empty variants.
type Variant struct {
	Name  string `json:"name"`
	Value any    `json:"value,omitempty"`
}

// Union is the node for a tagged choice between mutually exclusive
// variants. At most one variant is active; only the active variant's
// payload state is remembered. Re-selecting the active variant is a no-op,
// selecting a different one discards the old payload and default-constructs
// the new.
type Union struct {
	name     string
	prompt   string
	variants []VariantSpec
	active   int // index into variants, -1 when nothing selected
	payload  Value
}

// NewUnion assembles a union node. It panics when no variant is selectable,
// on duplicate or reserved variant names: those are structural errors in
// the producing code.
func NewUnion(name, prompt string, variants ...VariantSpec) *Union {
	if prompt == "" {
		prompt = "Select the variant"
	}
	seen := make(map[string]bool, len(variants))
	visible := 0
	for i := range variants {
		v := &variants[i]
		if v.Label == "" {
			v.Label = v.Name
		}
		if domain.IsReserved(v.Name) {
			panic(fmt.Sprintf("espalier: union %s uses reserved variant name %q", name, v.Name))
		}
		if seen[v.Name] {
			panic(fmt.Sprintf("espalier: union %s has duplicate variant %q", name, v.Name))
		}
		seen[v.Name] = true
		if !v.Hidden {
			visible++
		}
	}
	if visible == 0 {
		panic("espalier: union " + name + " has no selectable variant")
	}
	return &Union{name: name, prompt: prompt, variants: variants, active: -1}
}

// WithDefault pre-selects a variant, default-constructing its payload, and
// returns the union for chaining. It panics on an unknown name: the default
// comes from the producing code, not from the user.
func (u *Union) WithDefault(name string) *Union {
	for i := range u.variants {
		if u.variants[i].Name == name {
			u.activate(i)
			return u
		}
	}
	panic(fmt.Sprintf("espalier: union %s has no variant %q for the default", u.name, name))
}

func (u *Union) activate(i int) {
	u.active = i
	u.payload = nil
	if u.variants[i].Make != nil {
		u.payload = u.variants[i].Make()
	}
}

// activeVariant resolves a path segment against the currently selected
// variant. The engine only builds such paths right after a successful
// selection, so a mismatch is fatal.
func (u *Union) activeVariant(head string, path []string) Value {
	if u.active < 0 || u.variants[u.active].Name != head || u.payload == nil {
		badPath("union "+u.name, path)
	}
	return u.payload
}

func (u *Union) Apply(in domain.Input, path []string) error {
	if len(path) == 0 {
		if in.IsText() {
			return domain.ErrUnexpectedText
		}
		for i := range u.variants {
			v := &u.variants[i]
			if v.Name != in.Value() || v.Hidden {
				continue
			}
			if u.active != i {
				u.activate(i)
			}
			return nil
		}
		return domain.ErrInvalidChoice
	}
	return u.activeVariant(path[0], path).Apply(in, path[1:])
}

func (u *Union) Options(path []string) domain.Options {
	if len(path) == 0 {
		choices := make([]domain.OptionChoice, 0, len(u.variants))
		for i := range u.variants {
			v := &u.variants[i]
			if v.Hidden {
				continue
			}
			needsAction := u.active == i && u.payload != nil && !Complete(u.payload)
			choices = append(choices, domain.OptionChoice{
				ID:          v.Name,
				Label:       v.Label,
				NeedsAction: needsAction,
			})
		}
		return domain.Options{Prompt: u.prompt, Choices: choices}
	}
	return u.activeVariant(path[0], path).Options(path[1:])
}

func (u *Union) Subfields(path []string) []string {
	if len(path) == 0 {
		// Every visible variant with a payload is enterable, not just the
		// active one: selecting it activates it first.
		fields := make([]string, 0, len(u.variants))
		for i := range u.variants {
			v := &u.variants[i]
			if !v.Hidden && v.Make != nil {
				fields = append(fields, v.Name)
			}
		}
		return fields
	}
	return u.activeVariant(path[0], path).Subfields(path[1:])
}

func (u *Union) Snapshot() domain.Tree {
	if u.active < 0 {
		return domain.MissingLeaf()
	}
	v := &u.variants[u.active]
	if u.payload == nil {
		return domain.Leaf(v.Label)
	}
	snap := u.payload.Snapshot()
	if snap.Composite {
		snap.Label = v.Label
	}
	return snap
}

func (u *Union) Extract() (any, bool) {
	if u.active < 0 {
		return nil, false
	}
	v := &u.variants[u.active]
	if u.payload == nil {
		return Variant{Name: v.Name}, true
	}
	inner, ok := u.payload.Extract()
	if !ok {
		return nil, false
	}
	return Variant{Name: v.Name, Value: inner}, true
}

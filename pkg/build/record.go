package build

import (
	"fmt"

	"github.com/aretw0/espalier/pkg/domain"
)

// Field is one named child of a Record. Name is the stable choice
// identifier; Label is what menus display (defaults to Name). Hidden fields
// are excluded from the interactive surface entirely and must therefore be
// constructed with a complete default.
type Field struct {
	Name   string
	Label  string
	Hidden bool
	Value  Value
}

// Record is the node for a fixed set of named children. Instances are
// typically produced by pkg/bind or pkg/schema, but nothing stops a caller
// from assembling one by hand.
type Record struct {
	name   string
	prompt string
	fields []Field
}

// NewRecord assembles a record node. It panics on structural violations:
// no fields, duplicate or reserved field names, or a hidden field whose
// value is not already complete. These are programming errors in whatever
// produced the field list, not runtime conditions.
func NewRecord(name, prompt string, fields ...Field) *Record {
	if len(fields) == 0 {
		panic("espalier: record " + name + " must have at least one field")
	}
	if prompt == "" {
		prompt = "Select the field to edit"
	}
	seen := make(map[string]bool, len(fields))
	for i := range fields {
		f := &fields[i]
		if f.Label == "" {
			f.Label = f.Name
		}
		if domain.IsReserved(f.Name) {
			panic(fmt.Sprintf("espalier: record %s uses reserved field name %q", name, f.Name))
		}
		if seen[f.Name] {
			panic(fmt.Sprintf("espalier: record %s has duplicate field %q", name, f.Name))
		}
		seen[f.Name] = true
		if f.Hidden && !Complete(f.Value) {
			panic(fmt.Sprintf("espalier: hidden field %s.%s has no complete default", name, f.Name))
		}
	}
	return &Record{name: name, prompt: prompt, fields: fields}
}

// field resolves a path segment to a visible field, or aborts: the engine
// never descends into names it was not offered, and hidden fields are never
// offered.
func (r *Record) field(head string, path []string) Value {
	for i := range r.fields {
		if r.fields[i].Name == head && !r.fields[i].Hidden {
			return r.fields[i].Value
		}
	}
	badPath("record "+r.name, path)
	return nil
}

func (r *Record) Apply(in domain.Input, path []string) error {
	if len(path) == 0 {
		if in.IsText() {
			return domain.ErrUnexpectedText
		}
		// Selecting a field is only a validity check; descending happens in
		// the engine once the apply succeeds.
		for i := range r.fields {
			if r.fields[i].Name == in.Value() && !r.fields[i].Hidden {
				return nil
			}
		}
		return domain.ErrInvalidChoice
	}
	return r.field(path[0], path).Apply(in, path[1:])
}

func (r *Record) Options(path []string) domain.Options {
	if len(path) == 0 {
		choices := make([]domain.OptionChoice, 0, len(r.fields))
		for i := range r.fields {
			f := &r.fields[i]
			if f.Hidden {
				continue
			}
			choices = append(choices, domain.OptionChoice{
				ID:          f.Name,
				Label:       "Edit " + f.Label,
				NeedsAction: !Complete(f.Value),
			})
		}
		return domain.Options{Prompt: r.prompt, Choices: choices}
	}
	return r.field(path[0], path).Options(path[1:])
}

func (r *Record) Subfields(path []string) []string {
	if len(path) == 0 {
		fields := make([]string, 0, len(r.fields))
		for i := range r.fields {
			if !r.fields[i].Hidden {
				fields = append(fields, r.fields[i].Name)
			}
		}
		return fields
	}
	return r.field(path[0], path).Subfields(path[1:])
}

// Snapshot renders the visible fields; hidden ones stay off the display
// surface just like they stay off the menus.
func (r *Record) Snapshot() domain.Tree {
	children := make([]domain.TreeChild, 0, len(r.fields))
	for i := range r.fields {
		f := &r.fields[i]
		if f.Hidden {
			continue
		}
		children = append(children, domain.Named(f.Label, f.Value.Snapshot()))
	}
	return domain.Composite(r.name, children...)
}

// Extract yields a map keyed by field name. Hidden fields participate even
// though they never appear on the surface.
func (r *Record) Extract() (any, bool) {
	out := make(map[string]any, len(r.fields))
	for i := range r.fields {
		f := &r.fields[i]
		v, ok := f.Value.Extract()
		if !ok {
			return nil, false
		}
		out[f.Name] = v
	}
	return out, true
}

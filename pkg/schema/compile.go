package schema

import (
	"strconv"

	"github.com/aretw0/espalier/pkg/build"
)

// Compile validates the schema and builds a fresh node tree for it. Each
// call produces an independent tree, so one loaded schema can back any
// number of concurrent sessions.
func (s *Schema) Compile() (build.Value, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return compileNode(&s.Form), nil
}

// compileNode assumes the node already passed validation; the parse calls
// here cannot fail.
func compileNode(n *NodeSpec) build.Value {
	switch n.Type {
	case TypeString:
		return build.NewString(cellConfig(n, func(s string) string { return s }))
	case TypePath:
		return build.NewPath(cellConfig(n, func(s string) string { return s }))
	case TypeInt:
		return build.NewInt[int64](cellConfig(n, func(s string) int64 {
			v, _ := strconv.ParseInt(s, 10, 64)
			return v
		}))
	case TypeUint:
		return build.NewUint[uint64](cellConfig(n, func(s string) uint64 {
			v, _ := strconv.ParseUint(s, 10, 64)
			return v
		}))
	case TypeFloat:
		return build.NewFloat[float64](cellConfig(n, func(s string) float64 {
			v, _ := strconv.ParseFloat(s, 64)
			return v
		}))
	case TypeChar:
		return build.NewRune(cellConfig(n, func(s string) rune {
			return []rune(s)[0]
		}))
	case TypeBool:
		return build.NewBool(cellConfig(n, func(s string) bool {
			v, _ := strconv.ParseBool(s)
			return v
		}))

	case TypeRecord:
		fields := make([]build.Field, len(n.Fields))
		for i := range n.Fields {
			f := &n.Fields[i]
			fields[i] = build.Field{
				Name:   f.Name,
				Label:  f.Label,
				Hidden: f.Hidden,
				Value:  compileNode(f),
			}
		}
		return build.NewRecord(n.Name, n.Prompt, fields...)

	case TypeUnion:
		variants := make([]build.VariantSpec, len(n.Variants))
		defaultName := ""
		for i := range n.Variants {
			v := &n.Variants[i]
			variants[i] = build.VariantSpec{
				Name:   v.Name,
				Label:  v.Label,
				Hidden: v.Hidden,
			}
			if v.Payload != nil {
				payload := v.Payload
				variants[i].Make = func() build.Value { return compileNode(payload) }
			}
			if v.Default {
				defaultName = v.Name
			}
		}
		u := build.NewUnion(n.Name, n.Prompt, variants...)
		if defaultName != "" {
			u = u.WithDefault(defaultName)
		}
		return u

	case TypeSequence:
		elem := n.Element
		return build.NewSequence(func() build.Value {
			return compileNode(elem)
		}, build.Config{Prompt: n.Prompt})

	case TypeOptional:
		elem := n.Element
		return build.NewOptional(func() build.Value {
			return compileNode(elem)
		}, build.Config{Prompt: n.Prompt})
	}
	panic("schema: compileNode called for unvalidated type " + n.Type)
}

func cellConfig[T any](n *NodeSpec, parse func(string) T) build.CellConfig[T] {
	cfg := build.CellConfig[T]{Prompt: n.Prompt}
	if n.Default != nil {
		v := parse(*n.Default)
		cfg.Default = &v
	}
	return cfg
}

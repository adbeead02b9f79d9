package schema

import (
	"fmt"
	"strconv"

	"github.com/aretw0/espalier/pkg/build"
	"github.com/aretw0/espalier/pkg/domain"
)

// Validate checks the whole schema against the structural rules the node
// constructors enforce. It returns an AggregateError listing every
// violation found, or nil when the schema is sound.
func (s *Schema) Validate() error {
	errs := validateNode(&s.Form, "form")
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

func validateNode(n *NodeSpec, path string) []error {
	switch n.Type {
	case TypeString, TypePath:
		return validateLeaf(n, path, func(string) error { return nil })
	case TypeInt:
		return validateLeaf(n, path, func(s string) error {
			_, err := strconv.ParseInt(s, 10, 64)
			return err
		})
	case TypeUint:
		return validateLeaf(n, path, func(s string) error {
			_, err := strconv.ParseUint(s, 10, 64)
			return err
		})
	case TypeFloat:
		return validateLeaf(n, path, func(s string) error {
			_, err := strconv.ParseFloat(s, 64)
			return err
		})
	case TypeChar:
		return validateLeaf(n, path, func(s string) error {
			if len([]rune(s)) != 1 {
				return fmt.Errorf("expected exactly one character")
			}
			return nil
		})
	case TypeBool:
		return validateLeaf(n, path, func(s string) error {
			_, err := strconv.ParseBool(s)
			return err
		})
	case TypeRecord:
		return validateRecord(n, path)
	case TypeUnion:
		return validateUnion(n, path)
	case TypeSequence, TypeOptional:
		return validateWrapper(n, path)
	case "":
		return []error{&ValidationError{Path: path, Reason: "missing type"}}
	default:
		return []error{&ValidationError{Path: path, Reason: fmt.Sprintf("unknown type %q", n.Type)}}
	}
}

func validateLeaf(n *NodeSpec, path string, parse func(string) error) []error {
	errs := noChildren(n, path)
	if n.Default != nil {
		if err := parse(*n.Default); err != nil {
			errs = append(errs, &ValidationError{
				Path:   path,
				Reason: fmt.Sprintf("invalid default %q for %s: %v", *n.Default, n.Type, err),
			})
		}
	}
	return errs
}

func validateRecord(n *NodeSpec, path string) []error {
	var errs []error
	if n.Default != nil {
		errs = append(errs, &ValidationError{Path: path, Reason: "default is not supported on records"})
	}
	if len(n.Variants) > 0 || n.Element != nil {
		errs = append(errs, &ValidationError{Path: path, Reason: "records take fields, not variants or element"})
	}
	if len(n.Fields) == 0 {
		errs = append(errs, &ValidationError{Path: path, Reason: "record needs at least one field"})
		return errs
	}
	seen := make(map[string]bool, len(n.Fields))
	for i := range n.Fields {
		f := &n.Fields[i]
		fpath := path + ".fields." + f.Name
		if f.Name == "" {
			errs = append(errs, &ValidationError{Path: fpath, Reason: "field needs a name"})
		}
		if domain.IsReserved(f.Name) {
			errs = append(errs, &ValidationError{Path: fpath, Reason: fmt.Sprintf("field name %q is reserved", f.Name)})
		}
		if seen[f.Name] {
			errs = append(errs, &ValidationError{Path: fpath, Reason: fmt.Sprintf("duplicate field %q", f.Name)})
		}
		seen[f.Name] = true
		sub := validateNode(f, fpath)
		errs = append(errs, sub...)
		// The completeness check needs a compiled node, which needs a
		// violation-free subtree.
		if f.Hidden && len(sub) == 0 && !build.Complete(compileNode(f)) {
			errs = append(errs, &ValidationError{Path: fpath, Reason: "hidden field needs a complete default"})
		}
	}
	return errs
}

func validateUnion(n *NodeSpec, path string) []error {
	var errs []error
	if n.Default != nil {
		errs = append(errs, &ValidationError{Path: path, Reason: "unions mark the default on a variant, not on the node"})
	}
	if len(n.Fields) > 0 || n.Element != nil {
		errs = append(errs, &ValidationError{Path: path, Reason: "unions take variants, not fields or element"})
	}
	if len(n.Variants) == 0 {
		errs = append(errs, &ValidationError{Path: path, Reason: "union needs at least one variant"})
		return errs
	}
	seen := make(map[string]bool, len(n.Variants))
	visible, defaults := 0, 0
	for i := range n.Variants {
		v := &n.Variants[i]
		vpath := path + ".variants." + v.Name
		if v.Name == "" {
			errs = append(errs, &ValidationError{Path: vpath, Reason: "variant needs a name"})
		}
		if domain.IsReserved(v.Name) {
			errs = append(errs, &ValidationError{Path: vpath, Reason: fmt.Sprintf("variant name %q is reserved", v.Name)})
		}
		if seen[v.Name] {
			errs = append(errs, &ValidationError{Path: vpath, Reason: fmt.Sprintf("duplicate variant %q", v.Name)})
		}
		seen[v.Name] = true
		if !v.Hidden {
			visible++
		}
		if v.Default {
			defaults++
		}
		if v.Payload != nil {
			errs = append(errs, validateNode(v.Payload, vpath+".payload")...)
		}
	}
	if visible == 0 {
		errs = append(errs, &ValidationError{Path: path, Reason: "union needs at least one visible variant"})
	}
	if defaults > 1 {
		errs = append(errs, &ValidationError{Path: path, Reason: "union allows at most one default variant"})
	}
	return errs
}

func validateWrapper(n *NodeSpec, path string) []error {
	var errs []error
	if n.Default != nil {
		errs = append(errs, &ValidationError{Path: path, Reason: "default is not supported on " + n.Type + " nodes"})
	}
	if len(n.Fields) > 0 || len(n.Variants) > 0 {
		errs = append(errs, &ValidationError{Path: path, Reason: n.Type + " takes an element, not fields or variants"})
	}
	if n.Element == nil {
		errs = append(errs, &ValidationError{Path: path, Reason: n.Type + " needs an element"})
		return errs
	}
	return append(errs, validateNode(n.Element, path+".element")...)
}

func noChildren(n *NodeSpec, path string) []error {
	if len(n.Fields) > 0 || len(n.Variants) > 0 || n.Element != nil {
		return []error{&ValidationError{Path: path, Reason: n.Type + " cells take no fields, variants or element"}}
	}
	return nil
}

package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Node type names accepted in a schema.
const (
	TypeString   = "string"
	TypePath     = "path"
	TypeInt      = "int"
	TypeUint     = "uint"
	TypeFloat    = "float"
	TypeChar     = "char"
	TypeBool     = "bool"
	TypeRecord   = "record"
	TypeUnion    = "union"
	TypeSequence = "sequence"
	TypeOptional = "optional"
)

// Schema is one parsed form definition: a single root node spec.
type Schema struct {
	Form NodeSpec `yaml:"form"`
}

// NodeSpec describes one node of the form. Which fields apply depends on
// Type: Fields for records, Variants for unions, Element for sequences and
// optionals, Default for leaf cells.
type NodeSpec struct {
	Type     string        `yaml:"type"`
	Name     string        `yaml:"name,omitempty"`
	Label    string        `yaml:"label,omitempty"`
	Prompt   string        `yaml:"prompt,omitempty"`
	Hidden   bool          `yaml:"hidden,omitempty"`
	Default  *string       `yaml:"default,omitempty"`
	Fields   []NodeSpec    `yaml:"fields,omitempty"`
	Variants []VariantSpec `yaml:"variants,omitempty"`
	Element  *NodeSpec     `yaml:"element,omitempty"`
}

// VariantSpec describes one alternative of a union node. A nil Payload
// marks an empty variant. Default pre-selects the variant; at most one
// variant of a union may carry it.
type VariantSpec struct {
	Name    string    `yaml:"name"`
	Label   string    `yaml:"label,omitempty"`
	Hidden  bool      `yaml:"hidden,omitempty"`
	Default bool      `yaml:"default,omitempty"`
	Payload *NodeSpec `yaml:"payload,omitempty"`
}

// Parse unmarshals and validates a YAML schema document.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("schema: parse: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses a schema file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(data)
}

package build

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"

	"github.com/aretw0/espalier/pkg/domain"
)

// Signed is the constraint of the signed integer cells.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is the constraint of the unsigned integer cells.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Float is the constraint of the floating-point cells.
type Float interface {
	~float32 | ~float64
}

// CellConfig carries the optional default value and prompt override of a
// scalar cell. The zero value means "no default, stock prompt".
type CellConfig[T any] struct {
	Default *T
	Prompt  string
}

// Default is a convenience for building a CellConfig with a default value.
func Default[T any](v T) CellConfig[T] {
	return CellConfig[T]{Default: &v}
}

// Cell is the leaf node for a free-text scalar. It holds an optional value
// of type T and converts textual input into it.
type Cell[T any] struct {
	value  *T
	prompt string
	parse  func(string) (T, error)
	format func(T) string
}

func newCell[T any](cfg CellConfig[T], prompt string, parse func(string) (T, error)) *Cell[T] {
	if cfg.Prompt != "" {
		prompt = cfg.Prompt
	}
	return &Cell[T]{
		value:  cfg.Default,
		prompt: prompt,
		parse:  parse,
		format: func(v T) string { return fmt.Sprint(v) },
	}
}

// NewString returns a cell for free-form text.
func NewString(cfg CellConfig[string]) *Cell[string] {
	return newCell(cfg, "Type a string", func(s string) (string, error) {
		return s, nil
	})
}

// NewPath returns a cell for a filesystem path. The input is cleaned but
// not required to exist.
func NewPath(cfg CellConfig[string]) *Cell[string] {
	return newCell(cfg, "Type a path", func(s string) (string, error) {
		return filepath.Clean(s), nil
	})
}

// NewInt returns a cell for any signed integer type. The accepted range
// follows the bit width of T.
func NewInt[T Signed](cfg CellConfig[T]) *Cell[T] {
	bits := reflect.TypeFor[T]().Bits()
	return newCell(cfg, "Type an integer", func(s string) (T, error) {
		v, err := strconv.ParseInt(s, 10, bits)
		return T(v), err
	})
}

// NewUint returns a cell for any unsigned integer type.
func NewUint[T Unsigned](cfg CellConfig[T]) *Cell[T] {
	bits := reflect.TypeFor[T]().Bits()
	return newCell(cfg, "Type an integer", func(s string) (T, error) {
		v, err := strconv.ParseUint(s, 10, bits)
		return T(v), err
	})
}

// NewFloat returns a cell for a floating-point type.
func NewFloat[T Float](cfg CellConfig[T]) *Cell[T] {
	bits := reflect.TypeFor[T]().Bits()
	return newCell(cfg, "Type a number", func(s string) (T, error) {
		v, err := strconv.ParseFloat(s, bits)
		return T(v), err
	})
}

// NewRune returns a cell for a single character.
func NewRune(cfg CellConfig[rune]) *Cell[rune] {
	c := newCell(cfg, "Type a char", func(s string) (rune, error) {
		runes := []rune(s)
		if len(runes) != 1 {
			return 0, fmt.Errorf("expected exactly one character, got %d", len(runes))
		}
		return runes[0], nil
	})
	c.format = func(r rune) string { return string(r) }
	return c
}

// Apply parses free text into the cell, replacing any previous value.
func (c *Cell[T]) Apply(in domain.Input, path []string) error {
	if len(path) != 0 {
		badPath("scalar cell", path)
	}
	if in.IsChoice() {
		return domain.ErrUnexpectedChoice
	}
	v, err := c.parse(in.Value())
	if err != nil {
		return domain.InvalidText(err)
	}
	c.value = &v
	return nil
}

// Options reports a pure text-input menu.
func (c *Cell[T]) Options(path []string) domain.Options {
	if len(path) != 0 {
		badPath("scalar cell", path)
	}
	return domain.Options{Prompt: c.prompt, TextInput: true}
}

// Subfields is always empty: cells never have descendants.
func (c *Cell[T]) Subfields(path []string) []string {
	if len(path) != 0 {
		badPath("scalar cell", path)
	}
	return nil
}

// Snapshot renders the stored value, or a missing leaf.
func (c *Cell[T]) Snapshot() domain.Tree {
	if c.value == nil {
		return domain.MissingLeaf()
	}
	return domain.Leaf(c.format(*c.value))
}

// Extract returns the stored value if one was provided or defaulted.
func (c *Cell[T]) Extract() (any, bool) {
	if c.value == nil {
		return nil, false
	}
	return *c.value, true
}

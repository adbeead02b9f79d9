package bind

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/aretw0/espalier/pkg/build"
)

// Bind derives a builder tree for the struct type T. It returns an error
// when T or one of its fields uses an unsupported type or a malformed
// `espalier` tag, so mistakes surface before any interaction starts.
func Bind[T any]() (build.Value, error) {
	t := reflect.TypeFor[T]()
	if err := check(t, fieldTag{}, t.Name(), map[reflect.Type]bool{}); err != nil {
		return nil, err
	}
	return construct(t, fieldTag{}), nil
}

// MustBind is Bind for statically-known types, panicking on error.
func MustBind[T any]() build.Value {
	v, err := Bind[T]()
	if err != nil {
		panic(err)
	}
	return v
}

// fieldTag is the parsed form of one `espalier` struct tag.
type fieldTag struct {
	skip       bool
	rename     string
	prompt     string
	hidden     bool
	defaultVal string
	hasDefault bool
	char       bool // int32 field holds a single character
	path       bool // string field holds a filesystem path
}

func parseTag(raw string) (fieldTag, error) {
	var t fieldTag
	if raw == "-" {
		t.skip = true
		return t, nil
	}
	for _, part := range strings.Split(raw, ",") {
		if part == "" {
			continue
		}
		key, val, hasVal := strings.Cut(part, "=")
		switch key {
		case "rename":
			t.rename = val
		case "prompt":
			t.prompt = val
		case "default":
			t.defaultVal = val
			t.hasDefault = true
		case "hidden":
			t.hidden = true
		case "char":
			t.char = true
		case "path":
			t.path = true
		default:
			return t, fmt.Errorf("unknown tag option %q", key)
		}
		if (key == "hidden" || key == "char" || key == "path") && hasVal {
			return t, fmt.Errorf("tag option %q takes no value", key)
		}
	}
	return t, nil
}

// check validates a type and its tag without building anything. The seen
// set breaks cycles through self-referential structs: a type already being
// checked is sound to reuse.
func check(t reflect.Type, tag fieldTag, path string, seen map[reflect.Type]bool) error {
	switch t.Kind() {
	case reflect.Pointer:
		if tag.hasDefault {
			return &TagError{Field: path, Reason: "default is not supported on optional fields"}
		}
		return check(t.Elem(), innerTag(tag), path, seen)

	case reflect.Slice:
		if tag.hasDefault {
			return &TagError{Field: path, Reason: "default is not supported on sequence fields"}
		}
		return check(t.Elem(), innerTag(tag), path+"[]", seen)

	case reflect.Struct:
		if tag.hasDefault {
			return &TagError{Field: path, Reason: "default is not supported on struct fields"}
		}
		if seen[t] {
			return nil
		}
		seen[t] = true
		bound := 0
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			ft, err := parseTag(f.Tag.Get("espalier"))
			if err != nil {
				return &TagError{Field: path + "." + f.Name, Reason: err.Error()}
			}
			if ft.skip {
				continue
			}
			bound++
			if err := check(f.Type, ft, path+"."+f.Name, seen); err != nil {
				return err
			}
			if ft.hidden && !build.Complete(construct(f.Type, ft)) {
				return &TagError{Field: path + "." + f.Name, Reason: "hidden field needs a complete default"}
			}
		}
		if bound == 0 {
			return &TagError{Field: path, Reason: "struct has no bindable fields"}
		}
		return nil

	case reflect.Bool:
		return checkDefault(t, tag, path, func(s string) error {
			_, err := strconv.ParseBool(s)
			return err
		})

	case reflect.String:
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if tag.char {
			if t.Kind() != reflect.Int32 {
				return &TagError{Field: path, Reason: "char applies only to int32 fields"}
			}
			return checkDefault(t, tag, path, func(s string) error {
				if len([]rune(s)) != 1 {
					return fmt.Errorf("expected exactly one character")
				}
				return nil
			})
		}
		return checkDefault(t, tag, path, func(s string) error {
			_, err := strconv.ParseInt(s, 10, t.Bits())
			return err
		})

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return checkDefault(t, tag, path, func(s string) error {
			_, err := strconv.ParseUint(s, 10, t.Bits())
			return err
		})

	case reflect.Float32, reflect.Float64:
		return checkDefault(t, tag, path, func(s string) error {
			_, err := strconv.ParseFloat(s, t.Bits())
			return err
		})

	default:
		return &TagError{Field: path, Reason: "unsupported type " + t.String()}
	}
}

func checkDefault(t reflect.Type, tag fieldTag, path string, parse func(string) error) error {
	if !tag.hasDefault {
		return nil
	}
	if err := parse(tag.defaultVal); err != nil {
		return &TagError{Field: path, Reason: fmt.Sprintf("invalid default %q for %s: %v", tag.defaultVal, t, err)}
	}
	return nil
}

// innerTag strips the options that belong to the wrapper, keeping the ones
// that describe the element itself.
func innerTag(tag fieldTag) fieldTag {
	tag.rename = ""
	tag.hidden = false
	return tag
}

// construct builds the node for a type already validated by check, so the
// parse calls here cannot fail.
func construct(t reflect.Type, tag fieldTag) build.Value {
	switch t.Kind() {
	case reflect.Pointer:
		elem, inner := t.Elem(), innerTag(tag)
		return build.NewOptional(func() build.Value {
			return construct(elem, inner)
		}, build.Config{Prompt: tag.prompt})

	case reflect.Slice:
		elem, inner := t.Elem(), innerTag(tag)
		return build.NewSequence(func() build.Value {
			return construct(elem, inner)
		}, build.Config{Prompt: tag.prompt})

	case reflect.Struct:
		fields := make([]build.Field, 0, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			ft, _ := parseTag(f.Tag.Get("espalier"))
			if ft.skip {
				continue
			}
			fields = append(fields, build.Field{
				Name:   f.Name,
				Label:  ft.rename,
				Hidden: ft.hidden,
				Value:  construct(f.Type, ft),
			})
		}
		name := t.Name()
		if tag.rename != "" {
			name = tag.rename
		}
		return build.NewRecord(name, tag.prompt, fields...)

	case reflect.Bool:
		cfg := build.CellConfig[bool]{Prompt: tag.prompt}
		if tag.hasDefault {
			v, _ := strconv.ParseBool(tag.defaultVal)
			cfg.Default = &v
		}
		return build.NewBool(cfg)

	case reflect.String:
		cfg := build.CellConfig[string]{Prompt: tag.prompt}
		if tag.hasDefault {
			cfg.Default = &tag.defaultVal
		}
		if tag.path {
			return build.NewPath(cfg)
		}
		return build.NewString(cfg)

	case reflect.Int:
		return intCell[int](t, tag)
	case reflect.Int8:
		return intCell[int8](t, tag)
	case reflect.Int16:
		return intCell[int16](t, tag)
	case reflect.Int32:
		if tag.char {
			cfg := build.CellConfig[rune]{Prompt: tag.prompt}
			if tag.hasDefault {
				r := []rune(tag.defaultVal)[0]
				cfg.Default = &r
			}
			return build.NewRune(cfg)
		}
		return intCell[int32](t, tag)
	case reflect.Int64:
		return intCell[int64](t, tag)

	case reflect.Uint:
		return uintCell[uint](t, tag)
	case reflect.Uint8:
		return uintCell[uint8](t, tag)
	case reflect.Uint16:
		return uintCell[uint16](t, tag)
	case reflect.Uint32:
		return uintCell[uint32](t, tag)
	case reflect.Uint64:
		return uintCell[uint64](t, tag)
	case reflect.Uintptr:
		return uintCell[uintptr](t, tag)

	case reflect.Float32:
		return floatCell[float32](t, tag)
	case reflect.Float64:
		return floatCell[float64](t, tag)
	}
	panic("bind: construct called for unchecked type " + t.String())
}

func intCell[T build.Signed](t reflect.Type, tag fieldTag) build.Value {
	cfg := build.CellConfig[T]{Prompt: tag.prompt}
	if tag.hasDefault {
		v, _ := strconv.ParseInt(tag.defaultVal, 10, t.Bits())
		d := T(v)
		cfg.Default = &d
	}
	return build.NewInt[T](cfg)
}

func uintCell[T build.Unsigned](t reflect.Type, tag fieldTag) build.Value {
	cfg := build.CellConfig[T]{Prompt: tag.prompt}
	if tag.hasDefault {
		v, _ := strconv.ParseUint(tag.defaultVal, 10, t.Bits())
		d := T(v)
		cfg.Default = &d
	}
	return build.NewUint[T](cfg)
}

func floatCell[T build.Float](t reflect.Type, tag fieldTag) build.Value {
	cfg := build.CellConfig[T]{Prompt: tag.prompt}
	if tag.hasDefault {
		v, _ := strconv.ParseFloat(tag.defaultVal, t.Bits())
		d := T(v)
		cfg.Default = &d
	}
	return build.NewFloat[T](cfg)
}

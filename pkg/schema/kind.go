package schema

import (
	"fmt"
	"strings"
)

// Kind is the closed set of parameter types a script can declare.
type Kind int

const (
	invalidKind Kind = iota
	Integer
	Float
	String
	Boolean
	Enum
	ColorIndex
)

// Name returns the canonical type string, as accepted by ParseKind.
func (k Kind) Name() string {
	switch k {
	case Integer:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Boolean:
		return "bool"
	case Enum:
		return "enum"
	case ColorIndex:
		return "colorindex"
	default:
		return "invalid"
	}
}

func (k Kind) String() string { return k.Name() }

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool { return k >= Integer && k <= ColorIndex }

// ParseKind converts a declared type string to a Kind.
// "int", "float" and "colorindex" must match exactly; "str", "enum" and "bool" are prefixes,
// so "string" and "boolean" are accepted too.
func ParseKind(s string) (Kind, error) {
	switch {
	case s == "int":
		return Integer, nil
	case s == "float":
		return Float, nil
	case s == "colorindex":
		return ColorIndex, nil
	case strings.HasPrefix(s, "str"):
		return String, nil
	case strings.HasPrefix(s, "enum"):
		return Enum, nil
	case strings.HasPrefix(s, "bool"):
		return Boolean, nil
	default:
		return invalidKind, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKind, int(k))
	}
	return []byte(k.Name()), nil
}

// UnmarshalText decodes a kind with ParseKind rules.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

package params

import (
	"fmt"
	"math"
	"strconv"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Kind is the primitive type of a parameter value.
type Kind int

const (
	KindInvalid Kind = iota
	KindNumber
	KindBool
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Value is an immutable parameter value.
type Value struct {
	v cty.Value
}

// Number returns a numeric parameter value. NaN and the infinities yield an
// invalid Value, which Register rejects.
func Number(f float64) Value {
	if !finite(f) {
		return Value{}
	}
	return Value{v: cty.NumberFloatVal(f)}
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Bool returns a boolean parameter value.
func Bool(b bool) Value { return Value{v: cty.BoolVal(b)} }

// String returns a string parameter value.
func String(s string) Value { return Value{v: cty.StringVal(s)} }

// FromCty wraps a known, non-null primitive cty value.
func FromCty(v cty.Value) (Value, error) {
	if v.IsNull() {
		return Value{}, fmt.Errorf("parameter value cannot be null")
	}
	if !v.IsWhollyKnown() {
		return Value{}, fmt.Errorf("parameter value must be known")
	}
	switch v.Type() {
	case cty.Number:
		if v.AsBigFloat().IsInf() {
			return Value{}, fmt.Errorf("parameter value: %w", ErrNotFinite)
		}
		return Value{v: v}, nil
	case cty.Bool, cty.String:
		return Value{v: v}, nil
	default:
		return Value{}, fmt.Errorf("unsupported parameter type %s", v.Type().FriendlyName())
	}
}

// FromGo converts float, int, bool and string Go values.
func FromGo(x any) (Value, error) {
	switch t := x.(type) {
	case float64:
		return fromFloat(t)
	case float32:
		return fromFloat(float64(t))
	case int:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	default:
		return Value{}, fmt.Errorf("unsupported parameter type %T", x)
	}
}

func fromFloat(f float64) (Value, error) {
	if !finite(f) {
		return Value{}, fmt.Errorf("parameter value %v: %w", f, ErrNotFinite)
	}
	return Number(f), nil
}

// Kind reports the primitive type of v.
func (v Value) Kind() Kind {
	if v.v.IsNull() {
		return KindInvalid
	}
	switch v.v.Type() {
	case cty.Number:
		return KindNumber
	case cty.Bool:
		return KindBool
	case cty.String:
		return KindString
	default:
		return KindInvalid
	}
}

// Cty returns the underlying cty value.
func (v Value) Cty() cty.Value { return v.v }

// AsFloat returns the numeric value.
func (v Value) AsFloat() (float64, error) {
	var f float64
	if err := v.decode(KindNumber, &f); err != nil {
		return 0, err
	}
	return f, nil
}

// AsBool returns the boolean value.
func (v Value) AsBool() (bool, error) {
	var b bool
	if err := v.decode(KindBool, &b); err != nil {
		return false, err
	}
	return b, nil
}

// AsString returns the string value.
func (v Value) AsString() (string, error) {
	var s string
	if err := v.decode(KindString, &s); err != nil {
		return "", err
	}
	return s, nil
}

func (v Value) decode(want Kind, target any) error {
	if got := v.Kind(); got != want {
		return fmt.Errorf("parameter is a %s, not a %s", got, want)
	}
	return gocty.FromCtyValue(v.v, target)
}

// Interface returns the value as float64, bool or string.
func (v Value) Interface() any {
	switch v.Kind() {
	case KindNumber:
		f, _ := v.AsFloat()
		return f
	case KindBool:
		b, _ := v.AsBool()
		return b
	case KindString:
		s, _ := v.AsString()
		return s
	default:
		return nil
	}
}

// Equal reports whether both values have the same kind and content.
func (v Value) Equal(other Value) bool {
	if v.Kind() != other.Kind() || v.Kind() == KindInvalid {
		return v.Kind() == other.Kind()
	}
	return v.v.Equals(other.v).True()
}

// String formats the value the way it would be written in a script.
func (v Value) String() string {
	switch v.Kind() {
	case KindNumber:
		f, _ := v.AsFloat()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case KindBool:
		b, _ := v.AsBool()
		return strconv.FormatBool(b)
	case KindString:
		s, _ := v.AsString()
		return strconv.Quote(s)
	default:
		return "<invalid>"
	}
}

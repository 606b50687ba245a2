package results

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

var numberPattern = regexp.MustCompile(
	`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`,
)

// Value is a single numeric cell. It keeps the decimal text found in the
// source file, so it marshals back to exactly the same JSON number.
type Value struct {
	text string
}

// ParseValue validates s as a JSON number literal and wraps it.
func ParseValue(s string) (Value, error) {
	if !numberPattern.MatchString(s) {
		return Value{}, fmt.Errorf("not a number: %q", s)
	}

	return Value{text: s}, nil
}

// MustValue is like ParseValue but panics on invalid input. Intended for
// tests and constants.
func MustValue(s string) Value {
	v, err := ParseValue(s)
	if err != nil {
		panic(err)
	}

	return v
}

// Values converts a list of literals with MustValue.
func Values(literals ...string) []Value {
	out := make([]Value, len(literals))
	for i, s := range literals {
		out[i] = MustValue(s)
	}

	return out
}

// String returns the literal decimal text.
func (v Value) String() string {
	return v.text
}

// Float64 returns the value as a float64. The conversion may round for
// literals that do not fit a float64 exactly; out-of-range exponents
// yield ±Inf.
func (v Value) Float64() float64 {
	f, _ := strconv.ParseFloat(v.text, 64)

	return f
}

// IsZero reports whether v is the zero Value (no literal).
func (v Value) IsZero() bool {
	return v.text == ""
}

// MarshalJSON writes the literal unchanged.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.text == "" {
		return []byte("null"), nil
	}

	return []byte(v.text), nil
}

// UnmarshalJSON accepts a JSON number or a string holding one. The
// benchmark producer quotes every cell, so both forms are common.
func (v *Value) UnmarshalJSON(b []byte) error {
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	}

	parsed, err := ParseValue(raw)
	if err != nil {
		return err
	}

	*v = parsed

	return nil
}

package params

import (
	"fmt"
	"math"
)

// Set is a validated parameter set. It has no mutators; a Set obtained
// from [Validate] or [Defaults] can be shared freely between goroutines.
type Set struct {
	values   [numNames]float64
	warnings []Warning
}

// Warning is an advisory finding that does not block generation.
type Warning struct {
	Name    Name
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Name, w.Message)
}

// Defaults returns the set made entirely of schema defaults.
func Defaults() *Set {
	s := &Set{}
	for i, r := range rules {
		s.values[i] = r.Default
	}
	s.warnings = checkWarnings(s)
	return s
}

// Get returns the value of n.
func (s *Set) Get(n Name) float64 {
	return s.values[n]
}

// Int returns the value of n truncated to an int. Intended for
// integer-kind parameters such as [NSpan].
func (s *Set) Int(n Name) int {
	return int(s.values[n])
}

// Spans returns the number of spans.
func (s *Set) Spans() int {
	return s.Int(NSpan)
}

// Piers returns the number of intermediate piers (spans - 1).
func (s *Set) Piers() int {
	return s.Spans() - 1
}

// ScaleFactor returns SCALE1/SCALE2, the model units per metre.
func (s *Set) ScaleFactor() float64 {
	return s.values[Scale1] / s.values[Scale2]
}

// Warnings returns the advisory findings collected during validation.
func (s *Set) Warnings() []Warning {
	return append([]Warning(nil), s.warnings...)
}

// Map returns the values keyed by parameter key.
func (s *Set) Map() map[string]float64 {
	m := make(map[string]float64, numNames)
	for i, r := range rules {
		m[r.Key] = s.values[i]
	}
	return m
}

// Raw returns the set as raw input. Integer parameters are returned as
// int so encoders emit them without a fractional part. Validate(s.Raw())
// yields a set equal to s.
func (s *Set) Raw() Raw {
	raw := make(Raw, numNames)
	for i, r := range rules {
		if r.Kind == KindInteger {
			raw[r.Key] = int(s.values[i])
		} else {
			raw[r.Key] = s.values[i]
		}
	}
	return raw
}

// Equal reports whether both sets hold identical values.
func (s *Set) Equal(o *Set) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.values == o.values
}

// Diff lists the names whose values differ between s and o.
func (s *Set) Diff(o *Set) []Name {
	var out []Name
	for i := range s.values {
		if s.values[i] != o.values[i] && !(math.IsNaN(s.values[i]) && math.IsNaN(o.values[i])) {
			out = append(out, Name(i))
		}
	}
	return out
}

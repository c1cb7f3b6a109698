package params

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/bridgegad/bridgegad/pkg/errors"
)

// lengthTolerance is how far LBRIDGE may drift from NSPAN*SPAN1 before a
// warning is raised.
const lengthTolerance = 0.1

// Raw is unvalidated input keyed by parameter key. Values may be any Go
// integer or float type, a json.Number or a numeric string; nil means
// "not given" and falls back to the default.
type Raw map[string]any

// UnknownPolicy decides what happens to keys that are not in the schema.
type UnknownPolicy int

const (
	// UnknownIgnore silently drops unknown keys.
	UnknownIgnore UnknownPolicy = iota
	// UnknownReport turns each unknown key into a violation.
	UnknownReport
)

// Options tunes validation. The zero value ignores unknown keys.
type Options struct {
	Unknown UnknownPolicy
}

// Violation describes one rejected input.
type Violation struct {
	Key        string `json:"key"`
	Value      any    `json:"value"`
	Constraint string `json:"constraint"`
}

// Error implements the error interface.
func (v Violation) Error() string {
	return fmt.Sprintf("%s = %v: %s", v.Key, v.Value, v.Constraint)
}

// ValidationError lists every violation found in one input. No geometry is
// generated for an input that produced it.
type ValidationError struct {
	Violations []Violation
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	merr := &multierror.Error{ErrorFormat: formatViolations}
	for _, v := range e.Violations {
		merr = multierror.Append(merr, v)
	}
	return merr.Error()
}

// Code returns the error code for this error type.
func (e *ValidationError) Code() errors.Code {
	return errors.ErrCodeInvalidParameter
}

func formatViolations(errs []error) string {
	if len(errs) == 1 {
		return "invalid parameter: " + errs[0].Error()
	}
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = "  * " + err.Error()
	}
	return fmt.Sprintf("%d invalid parameters:\n%s", len(errs), strings.Join(lines, "\n"))
}

// Validate checks raw against the schema and returns an immutable Set.
//
// Every key is checked; all violations are collected before returning, so
// a caller sees the full list in one pass. Missing keys take their default.
// Cross-field rules run only when the fields they compare passed on their
// own.
func Validate(raw Raw, opts Options) (*Set, error) {
	var merr *multierror.Error

	s := &Set{}
	given := [numNames]bool{}
	bad := [numNames]bool{}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := raw[key]
		n, ok := ParseName(key)
		if !ok {
			if opts.Unknown == UnknownReport {
				merr = multierror.Append(merr, Violation{Key: key, Value: value, Constraint: "unknown parameter"})
			}
			continue
		}
		if value == nil {
			continue
		}
		if given[n] {
			merr = multierror.Append(merr, Violation{Key: key, Value: value, Constraint: "duplicate of " + n.String()})
			continue
		}
		given[n] = true

		v, err := checkValue(n, value)
		if err != "" {
			merr = multierror.Append(merr, Violation{Key: n.String(), Value: value, Constraint: err})
			bad[n] = true
			continue
		}
		s.values[n] = v
	}

	for i, r := range rules {
		if !given[i] {
			s.values[i] = r.Default
		}
	}

	for _, v := range crossChecks(s, bad) {
		merr = multierror.Append(merr, v)
	}

	if merr.ErrorOrNil() != nil {
		return nil, newValidationError(merr)
	}

	s.warnings = checkWarnings(s)
	return s, nil
}

// checkValue converts value and checks it against n's rule. A non-empty
// string result names the violated constraint.
func checkValue(n Name, value any) (float64, string) {
	r := rules[n]
	v, ok := toFloat(value)
	if !ok {
		return 0, fmt.Sprintf("must be a number of type %s", r.Kind)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, "must be a finite number"
	}
	if r.Kind == KindInteger && v != math.Trunc(v) {
		return 0, "must be an integer"
	}
	if !r.Contains(v) {
		return 0, fmt.Sprintf("must be between %s and %s", FormatValue(n, r.Min), FormatValue(n, r.Max))
	}
	return v, ""
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func crossChecks(s *Set, bad [numNames]bool) []Violation {
	var out []Violation
	if !bad[RTL] && !bad[Datum] && s.values[RTL] <= s.values[Datum] {
		out = append(out, Violation{
			Key:        RTL.String(),
			Value:      s.values[RTL],
			Constraint: fmt.Sprintf("must be above DATUM (%s)", FormatValue(Datum, s.values[Datum])),
		})
	}
	if bad[NSpan] || s.values[NSpan] <= 1 {
		return out
	}
	if !bad[CapT] && !bad[CapB] && s.values[CapT] <= s.values[CapB] {
		out = append(out, Violation{
			Key:        CapT.String(),
			Value:      s.values[CapT],
			Constraint: fmt.Sprintf("must be above CAPB (%s)", FormatValue(CapB, s.values[CapB])),
		})
	}
	if !bad[CapB] && !bad[FutRL] && s.values[CapB] <= s.values[FutRL] {
		out = append(out, Violation{
			Key:        CapB.String(),
			Value:      s.values[CapB],
			Constraint: fmt.Sprintf("must be above FUTRL (%s)", FormatValue(FutRL, s.values[FutRL])),
		})
	}
	return out
}

func checkWarnings(s *Set) []Warning {
	var out []Warning
	calculated := s.values[NSpan] * s.values[Span1]
	if math.Abs(calculated-s.values[LBridge]) > lengthTolerance {
		out = append(out, Warning{
			Name: LBridge,
			Message: fmt.Sprintf("total length %s m differs from NSPAN x SPAN1 = %s m",
				FormatValue(LBridge, s.values[LBridge]), strconv.FormatFloat(calculated, 'f', -1, 64)),
		})
	}
	if s.values[NSpan] > 1 && s.values[CapT] >= s.values[RTL] {
		out = append(out, Warning{
			Name:    CapT,
			Message: "pier cap top is at or above the riding surface",
		})
	}
	return out
}

// newValidationError orders violations by schema position, unknown keys
// last, so reports are stable across runs.
func newValidationError(merr *multierror.Error) *ValidationError {
	vs := make([]Violation, 0, len(merr.Errors))
	for _, err := range merr.Errors {
		if v, ok := err.(Violation); ok {
			vs = append(vs, v)
		}
	}
	rank := func(key string) int {
		if n, ok := ParseName(key); ok {
			return int(n)
		}
		return int(numNames)
	}
	sort.SliceStable(vs, func(i, j int) bool {
		ri, rj := rank(vs[i].Key), rank(vs[j].Key)
		if ri != rj {
			return ri < rj
		}
		return vs[i].Key < vs[j].Key
	})
	return &ValidationError{Violations: vs}
}

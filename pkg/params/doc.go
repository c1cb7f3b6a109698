// Package params defines the bridge parameter schema and validates raw
// engineering input against it.
//
// # Schema
//
// Every parameter is a [Name] bound to a static [Rule]: key, numeric kind,
// inclusive range, default, unit and category. The schema is compiled in and
// cannot be extended at runtime. [Schema] returns the rules in their
// canonical order, which is also the row order of exported spreadsheets.
//
// # Validation
//
// [Validate] turns a [Raw] map into an immutable [Set]. It checks type
// conformance and range for every recognized key, applies defaults for
// missing keys, then runs the cross-field rules (riding surface above the
// datum, pier cap and foundation levels in descending order). All
// violations are collected before returning:
//
//	set, err := params.Validate(raw, params.Options{})
//	var verr *params.ValidationError
//	if errors.As(err, &verr) {
//	    for _, v := range verr.Violations {
//	        fmt.Println(v.Key, v.Value, v.Constraint)
//	    }
//	}
//
// Findings that do not block generation (a total length that disagrees
// with the span arrangement, a cap above the road) are returned by
// [Set.Warnings].
//
// A Set is passed explicitly to the layout generator; there is no
// package-level state.
package params

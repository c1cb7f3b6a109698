package params

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/bridgegad/bridgegad/pkg/errors"
)

func TestValidateDefaults(t *testing.T) {
	s, err := Validate(nil, Options{})
	if err != nil {
		t.Fatalf("Validate(nil) error: %v", err)
	}
	if !s.Equal(Defaults()) {
		t.Errorf("Validate(nil) differs from Defaults(): %v", s.Diff(Defaults()))
	}
	if len(s.Warnings()) != 0 {
		t.Errorf("default set should not warn, got %v", s.Warnings())
	}
	if s.Spans() != 3 || s.Piers() != 2 {
		t.Errorf("Spans/Piers = %d/%d, want 3/2", s.Spans(), s.Piers())
	}
	if s.ScaleFactor() != 2 {
		t.Errorf("ScaleFactor = %v, want 2", s.ScaleFactor())
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	for _, r := range Schema() {
		for _, value := range []float64{r.Min - 1, r.Max + 1} {
			t.Run(r.Key, func(t *testing.T) {
				_, err := Validate(Raw{r.Key: value}, Options{})
				if err == nil {
					t.Fatalf("%s = %v should be rejected", r.Key, value)
				}
				verr, ok := err.(*ValidationError)
				if !ok {
					t.Fatalf("error type = %T, want *ValidationError", err)
				}
				if len(verr.Violations) != 1 {
					t.Fatalf("violations = %v, want exactly one", verr.Violations)
				}
				v := verr.Violations[0]
				if v.Key != r.Key {
					t.Errorf("Key = %q, want %q", v.Key, r.Key)
				}
				if v.Value != value {
					t.Errorf("Value = %v, want %v", v.Value, value)
				}
				if !strings.HasPrefix(v.Constraint, "must be between") {
					t.Errorf("Constraint = %q", v.Constraint)
				}
			})
		}
	}
}

func TestValidateAcceptsBounds(t *testing.T) {
	// Bounds are inclusive; cross-field rules need NSPAN=1 and a sane RTL.
	for _, r := range Schema() {
		for _, value := range []float64{r.Min, r.Max} {
			raw := Raw{"NSPAN": 1, r.Key: value}
			switch r.Name {
			case RTL:
				raw["DATUM"] = 80.0
			case Datum:
				raw["RTL"] = 200.0
			}
			if _, err := Validate(raw, Options{}); err != nil {
				t.Errorf("%s = %v should be accepted: %v", r.Key, value, err)
			}
		}
	}
}

func TestValidateTypeConformance(t *testing.T) {
	tests := []struct {
		name       string
		raw        Raw
		constraint string
	}{
		{"fractional integer", Raw{"NSPAN": 2.5}, "must be an integer"},
		{"non numeric string", Raw{"SPAN1": "thirty"}, "must be a number of type float"},
		{"boolean", Raw{"NSPAN": true}, "must be a number of type int"},
		{"NaN", Raw{"DECKT": math.NaN()}, "must be a finite number"},
		{"infinity", Raw{"BRIDGEW": math.Inf(1)}, "must be a finite number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.raw, Options{})
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if got := verr.Violations[0].Constraint; got != tt.constraint {
				t.Errorf("Constraint = %q, want %q", got, tt.constraint)
			}
		})
	}
}

func TestValidateAcceptedRepresentations(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  float64
	}{
		{"int", 25, 25},
		{"int64", int64(25), 25},
		{"float32", float32(25.5), 25.5},
		{"string", " 25.5 ", 25.5},
		{"json number", json.Number("25.25"), 25.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Validate(Raw{"SPAN1": tt.value}, Options{})
			if err != nil {
				t.Fatalf("Validate error: %v", err)
			}
			if got := s.Get(Span1); got != tt.want {
				t.Errorf("SPAN1 = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	raw := Raw{
		"SCALE2":  10.0,
		"NSPAN":   0,
		"BRIDGEW": 2.0,
	}
	_, err := Validate(raw, Options{})
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("error = %v, want *ValidationError", err)
	}

	var keys []string
	for _, v := range verr.Violations {
		keys = append(keys, v.Key)
	}
	// Schema order, not input order.
	if got := strings.Join(keys, ","); got != "NSPAN,BRIDGEW,SCALE2" {
		t.Errorf("violation order = %s", got)
	}
	if !strings.HasPrefix(err.Error(), "3 invalid parameters:") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, errors.ErrCodeInvalidParameter) {
		t.Error("ValidationError should carry ErrCodeInvalidParameter")
	}
}

func TestValidateUnknownKeys(t *testing.T) {
	raw := Raw{"SPAN1": 25.0, "COLOUR": "red"}

	if _, err := Validate(raw, Options{}); err != nil {
		t.Errorf("unknown keys should be ignored by default: %v", err)
	}

	_, err := Validate(raw, Options{Unknown: UnknownReport})
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if len(verr.Violations) != 1 || verr.Violations[0].Key != "COLOUR" {
		t.Errorf("violations = %v", verr.Violations)
	}
}

func TestValidateKeyNormalization(t *testing.T) {
	s, err := Validate(Raw{" span1 ": 40.0, "pier_width": 3.0}, Options{})
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if s.Get(Span1) != 40 || s.Get(PierWidth) != 3 {
		t.Errorf("normalized keys not applied: SPAN1=%v PIER_WIDTH=%v", s.Get(Span1), s.Get(PierWidth))
	}

	_, err = Validate(Raw{"SPAN1": 40.0, "span1": 41.0}, Options{})
	if err == nil {
		t.Error("duplicate keys should be rejected")
	}
}

func TestValidateCrossField(t *testing.T) {
	tests := []struct {
		name    string
		raw     Raw
		wantKey string
	}{
		{"road below datum", Raw{"RTL": 100.0, "DATUM": 100.0}, "RTL"},
		{"cap inverted", Raw{"CAPT": 101.0, "CAPB": 102.0}, "CAPT"},
		{"cap below foundation", Raw{"CAPB": 97.0, "FUTRL": 98.0, "CAPT": 99.0}, "CAPB"},
		{"single span ignores pier levels", Raw{"NSPAN": 1, "CAPT": 101.0, "CAPB": 102.0}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.raw, Options{})
			if tt.wantKey == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if len(verr.Violations) != 1 || verr.Violations[0].Key != tt.wantKey {
				t.Errorf("violations = %v, want one on %s", verr.Violations, tt.wantKey)
			}
		})
	}
}

func TestValidateWarnings(t *testing.T) {
	s, err := Validate(Raw{"LBRIDGE": 100.0, "CAPT": 106.0}, Options{})
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	ws := s.Warnings()
	if len(ws) != 2 {
		t.Fatalf("warnings = %v, want 2", ws)
	}
	if ws[0].Name != LBridge || ws[1].Name != CapT {
		t.Errorf("warning names = %v, %v", ws[0].Name, ws[1].Name)
	}
}

func TestSetRawRoundTrip(t *testing.T) {
	s, err := Validate(Raw{"NSPAN": 7, "SPAN1": 12.345, "SKEW": 17.5}, Options{})
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	raw := s.Raw()
	if _, ok := raw["NSPAN"].(int); !ok {
		t.Errorf("NSPAN raw type = %T, want int", raw["NSPAN"])
	}
	again, err := Validate(raw, Options{Unknown: UnknownReport})
	if err != nil {
		t.Fatalf("re-validate error: %v", err)
	}
	if !s.Equal(again) {
		t.Errorf("round trip differs: %v", s.Diff(again))
	}
}

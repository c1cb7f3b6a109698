package errors

import (
	"strings"
	"testing"
)

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"plain", "River Crossing at Km 12+400", false},
		{"unicode", "Brücke über den Fluss", false},

		{"too long", strings.Repeat("x", 121), true},
		{"newline", "first\nsecond", true},
		{"null byte", "foo\x00bar", true},
		{"tab", "foo\tbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel("project", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateLabel(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		exts     []string
		wantCode Code
	}{
		{"valid xlsx", "bridge.xlsx", []string{".xlsx"}, ""},
		{"upper case ext", "BRIDGE.XLSX", []string{".xlsx"}, ""},
		{"any ext allowed", "bridge.dat", nil, ""},
		{"second ext", "params.yaml", []string{".toml", ".yaml"}, ""},

		{"empty", "", nil, ErrCodeInvalidPath},
		{"with path /", "path/to/file.xlsx", nil, ErrCodeInvalidPath},
		{"with path \\", "path\\file.xlsx", nil, ErrCodeInvalidPath},
		{"hidden file", ".hidden.xlsx", nil, ErrCodeInvalidPath},
		{"control char", "bad\x01.xlsx", nil, ErrCodeInvalidPath},
		{"wrong ext", "bridge.csv", []string{".xlsx"}, ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.input, tt.exts...)
			if got := GetCode(err); got != tt.wantCode {
				t.Errorf("ValidateFilename(%q) code = %q, want %q (err=%v)", tt.input, got, tt.wantCode, err)
			}
		})
	}
}

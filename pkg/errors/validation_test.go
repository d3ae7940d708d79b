package errors

import "testing"

func TestValidateInputPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode Code
	}{
		{"valid relative", "trees.dep", ""},
		{"valid absolute", "/data/wsj_0001.mrg", ""},

		{"empty", "", ErrCodeInvalidConfig},
		{"blank", "   ", ErrCodeInvalidConfig},
		{"null byte", "foo\x00bar", ErrCodeInvalidPath},
		{"newline", "foo\nbar", ErrCodeInvalidPath},
		{"too long", string(make([]byte, 5000)), ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputPath(tt.input)
			if got := GetCode(err); got != tt.wantCode {
				t.Errorf("ValidateInputPath(%q) code = %v, want %v", tt.input, got, tt.wantCode)
			}
		})
	}
}

func TestValidateNumbers(t *testing.T) {
	if err := ValidatePositive("h_gap", 25); err != nil {
		t.Errorf("ValidatePositive(25) = %v, want nil", err)
	}
	if err := ValidatePositive("h_gap", 0); !Is(err, ErrCodeInvalidConfig) {
		t.Errorf("ValidatePositive(0) = %v, want ConfigError", err)
	}
	if err := ValidateNonNegative("x_init", 0); err != nil {
		t.Errorf("ValidateNonNegative(0) = %v, want nil", err)
	}
	if err := ValidateNonNegative("x_init", -1); !Is(err, ErrCodeInvalidConfig) {
		t.Errorf("ValidateNonNegative(-1) = %v, want ConfigError", err)
	}
}

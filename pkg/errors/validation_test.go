package errors

import (
	"strings"
	"testing"
)

func TestValidatePresentationText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"angle", "<a | a*a>", false},
		{"gap", "FreeGroup( a ); [ a^2 ]", false},

		{"empty", "", true},
		{"blank", "  \n\t", true},
		{"null byte", "<a | a\x00a>", true},
		{"too large", strings.Repeat("a", MaxPresentationBytes+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePresentationText(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePresentationText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPresentation) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidPresentation)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "out.dot", false},
		{"nested", "build/diagram.svg", false},
		{"absolute", "/tmp/diagram.dot", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"control char", "out\x01.dot", true},
		{"newline", "out\n.dot", true},
		{"directory", "build/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

package errors

import (
	"strings"
	"testing"
)

func TestValidateFontName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid family", "Roboto", false},
		{"valid file", "Inter-Regular.ttf", false},
		{"valid lowercase", "arial.ttf", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"path traversal", "..ttf", true},
		{"slash", "fonts/arial.ttf", true},
		{"backslash", "fonts\\arial.ttf", true},
		{"null byte", "arial\x00.ttf", true},
		{"newline", "arial\n.ttf", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFontName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFontName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidFont) {
				t.Errorf("ValidateFontName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidFont)
			}
		})
	}
}

func TestValidateFormatID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "story", false},
		{"size", "1200x628", false},
		{"punctuated", "fb.feed_square-1:1", false},

		{"empty", "", true},
		{"leading dash", "-story", true},
		{"slash", "a/b", true},
		{"space", "ig story", true},
		{"too long", strings.Repeat("x", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormatID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormatID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://detector.internal/locate", false},
		{"http://localhost:9000", false},
		{"", true},
		{"ftp://example.com", true},
		{"detector.internal", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

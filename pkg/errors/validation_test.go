package errors

import (
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "fireball", false},
		{"valid with dash", "fire-ball", false},
		{"valid with colon", "fire:1", false},
		{"valid unicode", "火球", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"space", "fire ball", true},
		{"newline", "fire\nball", true},
		{"null byte", "fire\x00ball", true},
		{"quote", `fire"ball`, true},
		{"angle bracket", "<script>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateNodeID(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty selects all", "", false},
		{"simple", "fire", false},
		{"with spaces", "Fire Magic", false},
		{"control char", "fire\x01", true},
		{"too long", string(make([]byte, 300)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCategory(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCategory(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidFormat,
		ErrCodeInvalidConfig,
		ErrCodeInvalidStrategy,
		ErrCodeInvalidPathStyle,
		ErrCodeInvalidCommand,
		ErrCodeEmptyInput,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeNodeNotFound,
		ErrCodeSessionNotFound,
		ErrCodeSessionExpired,
		ErrCodeTimeout,
		ErrCodeStorage,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}

package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateGridID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "orders", false},
		{"valid with dash", "orders-table", false},
		{"valid with underscore", "orders_table", false},
		{"valid with dot", "orders.v2", false},
		{"valid scoped", "user:42:orders", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"path traversal ..", "foo..bar", true},
		{"slash", "foo/bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"leading dot", ".hidden", true},
		{"space", "my grid", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGridID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGridID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidGridID) {
				t.Errorf("ValidateGridID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidGridID)
			}
		})
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"20%", 20, false},
		{"12.5%", 12.5, false},
		{" 30 % ", 30, false},
		{"100%", 100, false},

		{"", 0, true},
		{"20", 0, true},
		{"20px", 0, true},
		{"-5%", 0, true},
		{"%", 0, true},
		{"abc%", 0, true},
	}

	for _, tt := range tests {
		got, err := ParsePercent(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePercent(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePercent(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValidatePixels(t *testing.T) {
	tests := []struct {
		input   float64
		wantErr bool
	}{
		{0, false},
		{120, false},
		{80.25, false},
		{-1, true},
		{math.NaN(), true},
		{math.Inf(1), true},
	}

	for _, tt := range tests {
		err := ValidatePixels(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePixels(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateContainerWidth(t *testing.T) {
	if err := ValidateContainerWidth(1200); err != nil {
		t.Errorf("ValidateContainerWidth(1200) error = %v", err)
	}
	if err := ValidateContainerWidth(-10); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("ValidateContainerWidth(-10) error = %v, want %v", err, ErrCodeInvalidInput)
	}
}

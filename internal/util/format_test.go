package util

import "testing"

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "$0.00"},
		{250, "$250.00"},
		{-1234.5, "-$1,234.50"},
		{1234567.891, "$1,234,567.89"},
		{999.995, "$1,000.00"},
		{-0.004, "$0.00"},
	}

	for _, tt := range tests {
		if got := FormatCurrency(tt.amount); got != tt.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatSignedCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{250, "+$250.00"},
		{-120.25, "-$120.25"},
		{0, "$0.00"},
		{10500.5, "+$10,500.50"},
	}

	for _, tt := range tests {
		if got := FormatSignedCurrency(tt.amount); got != tt.want {
			t.Errorf("FormatSignedCurrency(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{62.347, "62.35%"},
		{0, "0.00%"},
		{100, "100.00%"},
		{-3.5, "-3.50%"},
	}

	for _, tt := range tests {
		if got := FormatPercent(tt.pct); got != tt.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestFormatSignedPercent(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{12.4, "+12.40%"},
		{-8.25, "-8.25%"},
		{0, "0.00%"},
	}

	for _, tt := range tests {
		if got := FormatSignedPercent(tt.pct); got != tt.want {
			t.Errorf("FormatSignedPercent(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestFormattingIsDeterministic(t *testing.T) {
	// The same input must always render the same string regardless of how
	// often or where it is formatted.
	for i := 0; i < 100; i++ {
		if got := FormatSignedCurrency(1234.567); got != "+$1,234.57" {
			t.Fatalf("iteration %d: got %q", i, got)
		}
	}
}

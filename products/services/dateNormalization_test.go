package services

import (
	"testing"
	"time"
)

func TestNormalizeExpiryDate(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"already normalized", "2025-12-31", "2025-12-31"},
		{"year first slashes", "2025/12/31", "2025-12-31"},
		{"day first", "31/12/2025", "2025-12-31"},
		{"day first hyphens", "31-12-2025", "2025-12-31"},
		{"month first forced by second group", "12/31/2025", "2025-12-31"},
		{"ambiguous defaults to day first", "05/04/2026", "2026-04-05"},
		{"periods as separators", "31.12.2025", "2025-12-31"},
		{"repeated slashes collapse", "31//12//2025", "2025-12-31"},
		{"zero padding applied", "2025-1-5", "2025-01-05"},
		{"written date short month", "3 Dec 2025", "2025-12-03"},
		{"written date full month", "3 December 2025", "2025-12-03"},
		{"written date month first", "Dec 3 2025", "2025-12-03"},
		{"written date with comma", "Dec 3, 2025", "2025-12-03"},
		{"rfc3339", "2025-12-31T00:00:00Z", "2025-12-31"},
		{"serial float", float64(45992), "2025-12-01"},
		{"serial int", 45992, "2025-12-01"},
		{"serial epoch start", float64(2), "1900-01-01"},
		{"native time", time.Date(2025, time.December, 31, 10, 30, 0, 0, time.UTC), "2025-12-31"},
		{"nil", nil, ""},
		{"empty string", "", ""},
		{"whitespace only", "   ", ""},
		{"two digit year rejected", "31/12/25", ""},
		{"rolled-over date rejected", "30/02/2025", ""},
		{"month out of range", "2025-13-01", ""},
		{"day out of range", "2025-01-32", ""},
		{"gibberish", "soonish", ""},
		{"negative serial", float64(-1), ""},
		{"unsupported type", struct{}{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeExpiryDate(tt.input); got != tt.want {
				t.Errorf("NormalizeExpiryDate(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Normalization must be a fixpoint: feeding its own output back in returns
// the same string.
func TestNormalizeExpiryDateIdempotent(t *testing.T) {
	inputs := []interface{}{"31/12/2025", "3 Dec 2025", float64(45992)}
	for _, input := range inputs {
		first := NormalizeExpiryDate(input)
		if first == "" {
			t.Fatalf("NormalizeExpiryDate(%v) unexpectedly failed", input)
		}
		if second := NormalizeExpiryDate(first); second != first {
			t.Errorf("normalization not idempotent: %q -> %q", first, second)
		}
	}
}

func TestSerialToDateRoundTrip(t *testing.T) {
	// Serial 2 anchors the epoch; each added day advances the date by one.
	base := time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	for offset := 0; offset < 5; offset++ {
		want := base.AddDate(0, 0, offset).Format("2006-01-02")
		if got := serialToDate(float64(2 + offset)); got != want {
			t.Errorf("serialToDate(%d) = %q, want %q", 2+offset, got, want)
		}
	}
}

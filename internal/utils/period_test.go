// internal/utils/period_test.go
package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
	}{
		{"P30D", 30 * 24 * time.Hour},
		{"P7D", 7 * 24 * time.Hour},
		{"P2W", 14 * 24 * time.Hour},
		{"P1DT12H", 36 * time.Hour},
		{"PT30M", 30 * time.Minute},
		{"PT90S", 90 * time.Second},
		{"P1DT2H30M", 26*time.Hour + 30*time.Minute},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParsePeriod(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParsePeriodRejectsInvalid(t *testing.T) {
	invalid := []string{
		"",
		"P",
		"30D",
		"P3M",  // months are calendar-dependent
		"P1Y",  // so are years
		"P30",  // digits without designator
		"P1DT", // dangling T
		"PD",   // designator without value
		"P1X",
	}

	for _, input := range invalid {
		t.Run(input, func(t *testing.T) {
			_, err := ParsePeriod(input)
			assert.Error(t, err)
		})
	}
}

func TestFormatPeriodDays(t *testing.T) {
	assert.Equal(t, "30 days", FormatPeriodDays(30*24*time.Hour))
	assert.Equal(t, "7 days", FormatPeriodDays(7*24*time.Hour))
	assert.Equal(t, "0 days", FormatPeriodDays(12*time.Hour))
}

// internal/utils/period.go
package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParsePeriod converts an ISO-8601 period such as "P30D" or "P1DT12H" into
// a duration. Year and month designators are rejected: they have no fixed
// length and the licensing templates only ever use day-or-smaller units.
func ParsePeriod(s string) (time.Duration, error) {
	orig := s
	if !strings.HasPrefix(s, "P") {
		return 0, fmt.Errorf("invalid ISO-8601 period %q: missing P designator", orig)
	}
	s = s[1:]
	if s == "" {
		return 0, fmt.Errorf("invalid ISO-8601 period %q: empty", orig)
	}

	datePart := s
	timePart := ""
	if idx := strings.Index(s, "T"); idx >= 0 {
		datePart, timePart = s[:idx], s[idx+1:]
		if timePart == "" {
			return 0, fmt.Errorf("invalid ISO-8601 period %q: dangling T", orig)
		}
	}

	var total time.Duration

	dateUnits := map[byte]time.Duration{
		'W': 7 * 24 * time.Hour,
		'D': 24 * time.Hour,
	}
	d, err := parsePeriodPart(datePart, dateUnits, orig)
	if err != nil {
		return 0, err
	}
	total += d

	timeUnits := map[byte]time.Duration{
		'H': time.Hour,
		'M': time.Minute,
		'S': time.Second,
	}
	d, err = parsePeriodPart(timePart, timeUnits, orig)
	if err != nil {
		return 0, err
	}
	total += d

	return total, nil
}

func parsePeriodPart(part string, units map[byte]time.Duration, orig string) (time.Duration, error) {
	var total time.Duration
	start := 0
	for i := 0; i < len(part); i++ {
		c := part[i]
		if c >= '0' && c <= '9' {
			continue
		}
		unit, ok := units[c]
		if !ok {
			return 0, fmt.Errorf("invalid ISO-8601 period %q: unsupported designator %q", orig, string(c))
		}
		if start == i {
			return 0, fmt.Errorf("invalid ISO-8601 period %q: designator %q without value", orig, string(c))
		}
		n, err := strconv.Atoi(part[start:i])
		if err != nil {
			return 0, fmt.Errorf("invalid ISO-8601 period %q: %w", orig, err)
		}
		total += time.Duration(n) * unit
		start = i + 1
	}
	if start != len(part) {
		return 0, fmt.Errorf("invalid ISO-8601 period %q: trailing digits", orig)
	}
	return total, nil
}

// FormatPeriodDays renders a duration the way renewal offers display their
// extension, e.g. "30 days".
func FormatPeriodDays(d time.Duration) string {
	days := int(d / (24 * time.Hour))
	return fmt.Sprintf("%d days", days)
}

package utils

import (
	"strconv"
	"strings"
)

// ToFloat parses a spreadsheet cell value into a float64.
// Thousands separators and surrounding whitespace are tolerated;
// anything unparseable or negative yields the zero value.
func ToFloat(val string) float64 {
	s := strings.TrimSpace(val)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// ToInt parses a spreadsheet cell value into an int.
// Fractional values are truncated; anything unparseable or negative yields zero.
func ToInt(val string) int {
	s := strings.TrimSpace(val)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	if i, err := strconv.Atoi(s); err == nil {
		if i < 0 {
			return 0
		}
		return i
	}
	// Excel often renders integer cells as "10.0"
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return int(f)
	}
	return 0
}

// ToString trims a cell value, collapsing pure-whitespace cells to empty.
func ToString(val string) string {
	return strings.TrimSpace(val)
}

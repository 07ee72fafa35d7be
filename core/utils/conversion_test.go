package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"plain number", "19.99", 19.99},
		{"integer", "42", 42},
		{"thousands separator", "1,250.50", 1250.50},
		{"whitespace", "  7.5  ", 7.5},
		{"empty", "", 0},
		{"garbage", "abc", 0},
		{"negative clamps to zero", "-3.5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToFloat(tt.input))
		})
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"plain integer", "10", 10},
		{"float cell", "10.0", 10},
		{"thousands separator", "1,000", 1000},
		{"empty", "", 0},
		{"garbage", "n/a", 0},
		{"negative clamps to zero", "-5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToInt(tt.input))
		})
	}
}

func TestToString(t *testing.T) {
	assert.Equal(t, "Widget", ToString("  Widget  "))
	assert.Equal(t, "", ToString("   "))
}

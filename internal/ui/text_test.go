package ui

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func runeWidth(s string) float64 { return float64(utf8.RuneCountInString(s) * 10) }

func TestTruncateTo(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  float64
		want string
	}{
		{"fits", "Hello", 50, "Hello"},
		{"trailing space trimmed", "Hello world", 60, "Hello…"},
		{"cut mid word", "Hello world", 80, "Hello w…"},
		{"too narrow", "Hello", 5, "…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateTo(tt.in, tt.max, runeWidth))
		})
	}
}

func TestWrapWords(t *testing.T) {
	assert.Nil(t, wrapWords(nil, 60, runeWidth))
	assert.Equal(t, []string{"a bb", "ccc", "dddd"}, wrapWords([]string{"a", "bb", "ccc", "dddd"}, 60, runeWidth))
	assert.Equal(t, []string{"overlongword", "x"}, wrapWords([]string{"overlongword", "x"}, 60, runeWidth))
}

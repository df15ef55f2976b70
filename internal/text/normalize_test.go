package text_test

import (
	"testing"

	"github.com/fitpulse/fitpulse-bot/internal/text"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "Plain text untouched",
			input:    "My knees hurt after squats.",
			expected: "My knees hurt after squats.",
		},
		{
			name:     "Runs of spaces and tabs collapse",
			input:    "My  knees\t\thurt   after squats.",
			expected: "My knees hurt after squats.",
		},
		{
			name:     "Lines trimmed and blank runs collapse",
			input:    "First line.   \n\n\n\n  Second line.",
			expected: "First line.\n\nSecond line.",
		},
		{
			name:     "Windows newlines",
			input:    "First line.\r\nSecond line.",
			expected: "First line.\nSecond line.",
		},
		{
			name:     "Leading and trailing blank lines dropped",
			input:    "\n\n  Only line.  \n\n",
			expected: "Only line.",
		},
		{
			name:     "Non-breaking spaces collapse",
			input:    "Hello  world",
			expected: "Hello world",
		},
		{
			name:     "Ideographic space preserved",
			input:    "全角　スペース",
			expected: "全角　スペース",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := text.Normalize(tc.input); got != tc.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestSingleLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Simple name",
			input:    "Anna",
			expected: "Anna",
		},
		{
			name:     "Surrounding whitespace trimmed",
			input:    "  Иван Петров  ",
			expected: "Иван Петров",
		},
		{
			name:     "Newlines flatten to spaces",
			input:    "Anna\nSmith",
			expected: "Anna Smith",
		},
		{
			name:     "Mixed whitespace collapses",
			input:    "Anna \t\n  Smith",
			expected: "Anna Smith",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := text.SingleLine(tc.input); got != tc.expected {
				t.Errorf("SingleLine(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

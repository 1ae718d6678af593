package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupe(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		canon    Canon
		expected []string
	}{
		{name: "nil stays nil", input: nil, canon: Trim, expected: nil},
		{name: "empty stays empty", input: []string{}, canon: Trim, expected: []string{}},
		{name: "blank values dropped", input: []string{" ", "", "medical"}, canon: Trim, expected: []string{"medical"}},
		{name: "trim keeps case", input: []string{" Medical", "medical "}, canon: Trim, expected: []string{"Medical", "medical"}},
		{
			name:     "trim lower folds case and keeps first order",
			input:    []string{"  FAMILY_separation ", "medical", "Family_Separation", "MEDICAL"},
			canon:    TrimLower,
			expected: []string{"family_separation", "medical"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Dedupe(tt.input, tt.canon))
		})
	}
}

func TestDedupeAndTrimLower(t *testing.T) {
	assert.Equal(t, []string{"country_conditions"}, DedupeAndTrimLower([]string{"Country_Conditions", "country_conditions "}))
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty string", input: "", expected: nil},
		{name: "whitespace only", input: "  ", expected: nil},
		{name: "commas only", input: ",, ,", expected: nil},
		{name: "single value", input: "2", expected: []string{"2"}},
		{name: "default denominations", input: "2,1,0.5,0.2,0.1,0.05", expected: []string{"2", "1", "0.5", "0.2", "0.1", "0.05"}},
		{name: "varied spacing", input: " 2 ,  1,0.5 ", expected: []string{"2", "1", "0.5"}},
		{name: "empty segments", input: "2,,1,", expected: []string{"2", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCSV(tt.input))
		})
	}
}

func TestParseCSV_PreservesInput(t *testing.T) {
	input := "Coke, Pepsi"
	_ = ParseCSV(input)
	assert.Equal(t, "Coke, Pepsi", input)
}

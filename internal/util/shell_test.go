package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShellQuote(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple string", "nginx", "'nginx'"},
		{"string with space", "my service", "'my service'"},
		{"empty string", "", "''"},
		{"single quote", "it's", "'it'\\''s'"},
		{"glob characters preserved", "nginx-*", "'nginx-*'"},
		{"dollar sign", "$HOME", "'$HOME'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShellQuote(tt.input))
		})
	}
}

func TestShellQuoteAll(t *testing.T) {
	assert.Equal(t, "'a.service' 'b.service'", ShellQuoteAll([]string{"a.service", "b.service"}))
	assert.Equal(t, "", ShellQuoteAll(nil))
}

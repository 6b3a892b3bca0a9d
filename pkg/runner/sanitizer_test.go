package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput_SizeLimit(t *testing.T) {
	limit := DefaultMaxInputSize

	_, err := SanitizeInput(strings.Repeat("a", limit))
	assert.NoError(t, err)

	_, err = SanitizeInput(strings.Repeat("a", limit+1))
	assert.ErrorIs(t, err, ErrInputTooLarge)
}

func TestSanitizeInput_Cleaning(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain answer", "Sim", "Sim"},
		{"Accents kept", "Não, nunca", "Não, nunca"},
		{"Trimmed", "  Sim \n", "Sim"},
		{"Line breaks become spaces", "Rosto\r\ne\tpescoço", "Rosto e pescoço"},
		{"Whitespace collapsed", "muito    pouco", "muito pouco"},
		{"ANSI color removed", "\x1b[31mSim\x1b[0m", "Sim"},
		{"Bare escape removed", "a\x1bcb", "ab"},
		{"Null byte", "Null\x00Byte", "NullByte"},
		{"Bell", "Ding\x07", "Ding"},
		{"Only controls", "\x00\x07", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitizeInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "10")

	_, err := SanitizeInput("12345678901")
	assert.ErrorIs(t, err, ErrInputTooLarge)

	_, err = SanitizeInput("12345")
	assert.NoError(t, err)
}

func TestSanitizeInput_InvalidUTF8(t *testing.T) {
	_, err := SanitizeInput("\xbd\xb2\x3d\xbc\x20\xe2\x8c\x98")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

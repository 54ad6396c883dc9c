package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		expected string
	}{
		{
			name:     "plain utf-8",
			content:  []byte("héllo wörld"),
			expected: "héllo wörld",
		},
		{
			name:     "utf-8 with BOM",
			content:  append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello")...),
			expected: "hello",
		},
		{
			name: "cp1252 smart quote",
			// 0x93/0x94 are curly quotes in Windows-1252.
			content:  []byte{0x93, 'h', 'i', 0x94},
			expected: "“hi”",
		},
		{
			name:     "latin-1 accented byte",
			content:  []byte{'c', 'a', 'f', 0xE9},
			expected: "café",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := decodeText(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, text)
		})
	}
}

func TestDecodeText_Empty(t *testing.T) {
	text, err := decodeText(nil)
	require.NoError(t, err)
	assert.Empty(t, text)
}

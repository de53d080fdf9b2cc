package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"small", []byte("hello world")},
		{"repeated", bytes.Repeat([]byte("abcabcabc"), 500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compressed := Compress(tt.data, DefaultLevel)
			decompressed, err := Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, tt.data, decompressed)
		})
	}
}

func TestCompressDictRoundTrip(t *testing.T) {
	dict := bytes.Repeat([]byte("dictionarybytes"), 20)
	data := []byte("the quick brown fox jumps over the lazy dog, dictionarybytes")

	compressed, err := CompressDict(data, dict, DefaultLevel)
	require.NoError(t, err)

	decompressed, err := DecompressDict(compressed, dict)
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestDecompressInvalidInput(t *testing.T) {
	_, err := Decompress([]byte{0x00, 0x01, 0x02})
	require.Error(t, err)
}

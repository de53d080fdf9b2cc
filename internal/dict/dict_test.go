package dict

import (
	"bytes"
	"testing"

	"github.com/blockrac/blockrac/internal/codec"
	"github.com/stretchr/testify/require"
)

func sampleBlocks() [][]byte {
	return [][]byte{
		bytes.Repeat([]byte("alphabeta"), 30),
		bytes.Repeat([]byte("betagamma"), 30),
		bytes.Repeat([]byte("gammaalpha"), 30),
	}
}

func TestTrainRollingKmerDeterministic(t *testing.T) {
	params := Params{MaxDict: 64, K: 8, D: 4}

	a, err := Train(AlgorithmRollingKmer, sampleBlocks(), params)
	require.NoError(t, err)
	b, err := Train(AlgorithmRollingKmer, sampleBlocks(), params)
	require.NoError(t, err)

	require.Equal(t, a, b)
	require.LessOrEqual(t, len(a), int(params.MaxDict))
}

func TestTrainSuffixArrayDeterministic(t *testing.T) {
	params := Params{MaxDict: 64, K: 8, D: 4}

	a, err := Train(AlgorithmSuffixArray, sampleBlocks(), params)
	require.NoError(t, err)
	b, err := Train(AlgorithmSuffixArray, sampleBlocks(), params)
	require.NoError(t, err)

	require.Equal(t, a, b)
	require.LessOrEqual(t, len(a), int(params.MaxDict))
}

func TestTrainRejectsBadParams(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"zero max dict", Params{MaxDict: 0, K: 4, D: 2}},
		{"zero k", Params{MaxDict: 64, K: 0, D: 2}},
		{"zero d", Params{MaxDict: 64, K: 4, D: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Train(AlgorithmRollingKmer, sampleBlocks(), tt.params)
			require.Error(t, err)
		})
	}
}

func TestTrainUnknownAlgorithm(t *testing.T) {
	_, err := Train("not-an-algorithm", sampleBlocks(), Params{MaxDict: 64, K: 4, D: 2})
	require.Error(t, err)
}

func TestSelectTopKmersCapsAtMaxDict(t *testing.T) {
	candidates := []candidate{
		{kmer: "aaaaaaaa", count: 10},
		{kmer: "bbbbbbbb", count: 9},
		{kmer: "cccccccc", count: 8},
	}
	out := selectTopKmers(candidates, 10, 12)
	require.LessOrEqual(t, len(out), 12)
}

// TestTrainUndersizedSamplesYieldsEmptyDict exercises the path where every
// sample is shorter than the trainer's kmer length: selectTopKmers (and, for
// suffix-array, trainSuffixArray's own early return) both produce a 0-byte
// dictionary. This is the shape RAC's last, short stripe can hit when
// block_size/d are small, and internal/codec's *Dict functions must still
// round-trip through a dictionary of length 0.
func TestTrainUndersizedSamplesYieldsEmptyDict(t *testing.T) {
	tinySamples := [][]byte{
		[]byte("a"),
		[]byte("bb"),
	}
	params := Params{MaxDict: 64, K: 8, D: 16} // D longer than every sample

	for _, algo := range []string{AlgorithmRollingKmer, AlgorithmSuffixArray} {
		t.Run(algo, func(t *testing.T) {
			dictBytes, err := Train(algo, tinySamples, params)
			require.NoError(t, err)
			require.Len(t, dictBytes, 0)

			payload := []byte("the actual block content compressed against an empty dictionary")
			compressed, err := codec.CompressDict(payload, dictBytes, codec.DefaultLevel)
			require.NoError(t, err)

			decompressed, err := codec.DecompressDict(compressed, dictBytes)
			require.NoError(t, err)
			require.Equal(t, payload, decompressed)
		})
	}
}

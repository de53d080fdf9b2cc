package driver

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/blockrac/blockrac/internal/codec"
	"github.com/blockrac/blockrac/internal/stripe"
	"github.com/stretchr/testify/require"
)

func writeTempInput(t *testing.T, dir string, n int) string {
	t.Helper()
	path := filepath.Join(dir, "input.bin")
	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), n/45+1)[:n]
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func racConfig() stripe.Config {
	return stripe.Config{
		Algorithm: stripe.RAC, BlockSize: 256, NumberOfBlocks: 8,
		MaxDict: 128, SegmentSize: 8, KmerSize: 4,
		DictAlgorithm: "rolling-kmer", Level: codec.DefaultLevel,
	}
}

func TestParseWorkload(t *testing.T) {
	tests := []struct {
		in      string
		want    Workload
		wantErr bool
	}{
		{"sequential-write", SequentialWrite, false},
		{"sequential-read", SequentialRead, false},
		{"random-read", RandomRead, false},
		{"bogus", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseWorkload(tt.in)
		if tt.wantErr {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func TestRunSequentialWriteThenRead(t *testing.T) {
	dir := t.TempDir()
	cfg := racConfig()
	inputPath := writeTempInput(t, dir, int(cfg.StripeSize())*3+100)
	containerPath := filepath.Join(dir, "out.blk")
	restoredPath := filepath.Join(dir, "restored.bin")

	writeResult, err := Run(cfg, SequentialWrite, inputPath, containerPath, 1)
	require.NoError(t, err)
	require.Greater(t, writeResult.RawTotal, int64(0))

	readResult, err := Run(cfg, SequentialRead, containerPath, restoredPath, 1)
	require.NoError(t, err)
	require.Equal(t, writeResult.RawTotal, readResult.DecompressedTotal)

	original, err := os.ReadFile(inputPath)
	require.NoError(t, err)
	restored, err := os.ReadFile(restoredPath)
	require.NoError(t, err)
	require.Equal(t, original, restored)
}

func TestRunRandomReadReproducible(t *testing.T) {
	dir := t.TempDir()
	cfg := racConfig()
	inputPath := writeTempInput(t, dir, int(cfg.StripeSize())*2+10)
	containerPath := filepath.Join(dir, "out.blk")

	_, err := Run(cfg, SequentialWrite, inputPath, containerPath, 1)
	require.NoError(t, err)

	r1, err := Run(cfg, RandomRead, containerPath, "", 42)
	require.NoError(t, err)
	r2, err := Run(cfg, RandomRead, containerPath, "", 42)
	require.NoError(t, err)
	require.Equal(t, r1.DecompressedTotal, r2.DecompressedTotal)

	r3, err := Run(cfg, RandomRead, containerPath, "", 99)
	require.NoError(t, err)
	require.Equal(t, r1.DecompressedTotal, r3.DecompressedTotal)
}

func TestShuffledBlockOrderIsPermutation(t *testing.T) {
	order := shuffledBlockOrder(10, 7)
	require.Len(t, order, 10)

	seen := make(map[int64]bool)
	for _, v := range order {
		seen[v] = true
	}
	require.Len(t, seen, 10)
}

func TestShuffledBlockOrderSeeded(t *testing.T) {
	a := shuffledBlockOrder(20, 123)
	b := shuffledBlockOrder(20, 123)
	require.Equal(t, a, b)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := stripe.Config{Algorithm: stripe.RAC, BlockSize: 256, NumberOfBlocks: 8}
	_, err := Run(cfg, SequentialWrite, "in", "out", 1)
	require.Error(t, err)
}

package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseShortAndLongFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"short flags", []string{"-t", "rac", "-b", "4096", "-n", "8", "-w", "sequential-write", "-i", "in", "-o", "out"}},
		{"long flags", []string{"--test", "rac", "--block-size", "4096", "--number-of-blocks", "8", "--workload", "sequential-write", "--input-file", "in", "--output-file", "out"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse(tt.args)
			require.NoError(t, err)
			require.Equal(t, "rac", cfg.Test)
			require.Equal(t, 4096, cfg.BlockSize)
			require.Equal(t, 8, cfg.NumberOfBlocks)
			require.Equal(t, "sequential-write", cfg.Workload)
			require.Equal(t, "in", cfg.InputFile)
			require.Equal(t, "out", cfg.OutputFile)
		})
	}
}

func TestParseIgnoresUnknownFlags(t *testing.T) {
	args := []string{"-t", "sbc", "--bogus-flag", "value", "-b", "1024", "-n", "1"}
	cfg, err := Parse(args)
	require.NoError(t, err)
	require.Equal(t, "sbc", cfg.Test)
	require.Equal(t, 1024, cfg.BlockSize)
}

func TestParseIgnoresUnknownBooleanFlag(t *testing.T) {
	args := []string{"--bogus", "-t", "sbc", "-b", "1024", "-n", "1"}
	cfg, err := Parse(args)
	require.NoError(t, err)
	require.Equal(t, "sbc", cfg.Test)
}

func TestParseHelp(t *testing.T) {
	cfg, err := Parse([]string{"-h"})
	require.NoError(t, err)
	require.True(t, cfg.Help)
}

func TestEnvVarDefaults(t *testing.T) {
	os.Setenv("BLOCKRAC_BLOCK_SIZE", "2048")
	defer os.Unsetenv("BLOCKRAC_BLOCK_SIZE")

	cfg, err := Parse([]string{"-t", "sbc", "-n", "1"})
	require.NoError(t, err)
	require.Equal(t, 2048, cfg.BlockSize)
}

func TestEnvVarOverriddenByFlag(t *testing.T) {
	os.Setenv("BLOCKRAC_BLOCK_SIZE", "2048")
	defer os.Unsetenv("BLOCKRAC_BLOCK_SIZE")

	cfg, err := Parse([]string{"-t", "sbc", "-n", "1", "-b", "8192"})
	require.NoError(t, err)
	require.Equal(t, 8192, cfg.BlockSize)
}

package container

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/blockrac/blockrac/internal/blockerr"
	"github.com/blockrac/blockrac/internal/stripe"
	"github.com/stretchr/testify/require"
)

func TestWriteFileHeaderZeroesReservedBytes(t *testing.T) {
	cfg := stripe.Config{Algorithm: stripe.RAC, BlockSize: 256, NumberOfBlocks: 8, MaxDict: 64, SegmentSize: 8, KmerSize: 4}
	stripes := []StripeHeader{
		{OffsetOfCompressedData: 0, RawStripeSize: 2048, CompressedStripeSize: 1500},
	}

	var buf bytes.Buffer
	require.NoError(t, writeFileHeader(&buf, cfg, stripes))

	out := buf.Bytes()
	// header_size (4 bytes) + magic (3 bytes) precede the 5 reserved bytes.
	reserved := out[sizeFieldSize+3 : sizeFieldSize+magicRegionSize]
	require.Equal(t, []byte{0, 0, 0, 0, 0}, reserved)
}

func TestWriteReadFileHeaderRoundTrip(t *testing.T) {
	cfg := stripe.Config{Algorithm: stripe.MBC, BlockSize: 1024, NumberOfBlocks: 4}
	stripes := []StripeHeader{
		{OffsetOfCompressedData: 0, RawStripeSize: 4096, CompressedStripeSize: 3000},
		{OffsetOfCompressedData: 3000, RawStripeSize: 4096, CompressedStripeSize: 4096},
	}

	var buf bytes.Buffer
	require.NoError(t, writeFileHeader(&buf, cfg, stripes))

	gotCfg, gotStripes, err := readFileHeader(&buf)
	require.NoError(t, err)
	require.Equal(t, cfg.Algorithm, gotCfg.Algorithm)
	require.Equal(t, cfg.BlockSize, gotCfg.BlockSize)
	require.Equal(t, cfg.NumberOfBlocks, gotCfg.NumberOfBlocks)
	require.Equal(t, stripes, gotStripes)
}

func TestAddOffsetCheckedRejectsOverflow(t *testing.T) {
	_, err := addOffsetChecked(math.MaxInt64-5, 10)
	require.Error(t, err)

	var ioErr *blockerr.IoError
	require.True(t, errors.As(err, &ioErr))
}

func TestAddOffsetCheckedAcceptsInRangeValues(t *testing.T) {
	got, err := addOffsetChecked(100, 50)
	require.NoError(t, err)
	require.Equal(t, int64(150), got)

	got, err = addOffsetChecked(math.MaxInt64-10, 10)
	require.NoError(t, err)
	require.Equal(t, int64(math.MaxInt64), got)
}

func TestAddOffsetCheckedRejectsNegativeDelta(t *testing.T) {
	_, err := addOffsetChecked(0, -1)
	require.Error(t, err)
}

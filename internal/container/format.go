package container

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/blockrac/blockrac/internal/blockerr"
	"github.com/blockrac/blockrac/internal/codec"
	"github.com/blockrac/blockrac/internal/stripe"
)

// On-disk layout (bit-exact):
//
//	[ header_size: i32 ]                 // excludes these 4 bytes
//	[ magic: 3 bytes 'SBC'|'MBC'|'RAC' ]
//	[ 5 bytes reserved, zeroed ]         // brings magic region to 8 bytes
//	[ CompressionParameter: 20 bytes ]   // block_size,n_blocks,max_dict,k,d as i32x5
//	[ n_stripes: i32 ]
//	[ StripeHeader x n_stripes ]         // 16 bytes each
//	[ body ]
const (
	magicRegionSize  = 8
	paramsSize       = 20
	nStripesSize     = 4
	stripeHeaderSize = 16
	sizeFieldSize    = 4
)

// StripeHeader is the file-level index record for one stripe.
type StripeHeader struct {
	OffsetOfCompressedData int64
	RawStripeSize          int32
	CompressedStripeSize   int32
}

// Verbatim reports whether the stripe was stored uncompressed.
func (h StripeHeader) Verbatim() bool {
	return h.CompressedStripeSize == h.RawStripeSize
}

func fixedHeaderSize(nStripes int) int32 {
	return int32(magicRegionSize + paramsSize + nStripesSize + nStripes*stripeHeaderSize)
}

// writeFileHeader writes the complete header (header_size field included)
// to w, starting at w's current position.
func writeFileHeader(w io.Writer, cfg stripe.Config, stripes []StripeHeader) error {
	headerSize := fixedHeaderSize(len(stripes))
	buf := make([]byte, sizeFieldSize+int(headerSize))

	binary.LittleEndian.PutUint32(buf[0:4], uint32(headerSize))
	pos := sizeFieldSize

	magic := cfg.Algorithm.Magic()
	copy(buf[pos:pos+3], magic[:3])
	// buf[pos+3:pos+8] is left at its zero value: the 5 reserved bytes.
	pos += magicRegionSize

	binary.LittleEndian.PutUint32(buf[pos:], uint32(cfg.BlockSize))
	pos += 4
	binary.LittleEndian.PutUint32(buf[pos:], uint32(cfg.NumberOfBlocks))
	pos += 4
	binary.LittleEndian.PutUint32(buf[pos:], uint32(cfg.MaxDict))
	pos += 4
	binary.LittleEndian.PutUint32(buf[pos:], uint32(cfg.SegmentSize)) // k
	pos += 4
	binary.LittleEndian.PutUint32(buf[pos:], uint32(cfg.KmerSize)) // d
	pos += 4

	binary.LittleEndian.PutUint32(buf[pos:], uint32(len(stripes)))
	pos += nStripesSize

	for _, sh := range stripes {
		binary.LittleEndian.PutUint64(buf[pos:], uint64(sh.OffsetOfCompressedData))
		pos += 8
		binary.LittleEndian.PutUint32(buf[pos:], uint32(sh.RawStripeSize))
		pos += 4
		binary.LittleEndian.PutUint32(buf[pos:], uint32(sh.CompressedStripeSize))
		pos += 4
	}

	if _, err := w.Write(buf); err != nil {
		return blockerr.Io(err, "write file header")
	}
	return nil
}

// readFileHeader reads and validates the complete header from r, starting
// at r's current position, returning the reconstructed stripe
// configuration and the stripe index.
func readFileHeader(r io.Reader) (stripe.Config, []StripeHeader, error) {
	var sizeBuf [sizeFieldSize]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return stripe.Config{}, nil, blockerr.Io(err, "read header_size")
	}
	headerSize := int32(binary.LittleEndian.Uint32(sizeBuf[:]))
	if headerSize < magicRegionSize+paramsSize+nStripesSize {
		return stripe.Config{}, nil, blockerr.Format("implausible header_size %d", headerSize)
	}

	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return stripe.Config{}, nil, blockerr.Io(err, "read header body")
	}

	magic := string(buf[0:3])
	algo, err := stripe.ParseAlgorithm(magic)
	if err != nil {
		return stripe.Config{}, nil, blockerr.FormatWrap(err, "bad magic %q", magic)
	}

	pos := magicRegionSize
	blockSize := int32(binary.LittleEndian.Uint32(buf[pos:]))
	pos += 4
	numberOfBlocks := int32(binary.LittleEndian.Uint32(buf[pos:]))
	pos += 4
	maxDict := int32(binary.LittleEndian.Uint32(buf[pos:]))
	pos += 4
	segmentSize := int32(binary.LittleEndian.Uint32(buf[pos:]))
	pos += 4
	kmerSize := int32(binary.LittleEndian.Uint32(buf[pos:]))
	pos += 4

	nStripes := int32(binary.LittleEndian.Uint32(buf[pos:]))
	pos += nStripesSize
	if nStripes < 0 {
		return stripe.Config{}, nil, blockerr.Format("negative n_stripes %d", nStripes)
	}

	expected := magicRegionSize + paramsSize + nStripesSize + int(nStripes)*stripeHeaderSize
	if int(headerSize) != expected {
		return stripe.Config{}, nil, blockerr.Format("header_size %d inconsistent with n_stripes %d", headerSize, nStripes)
	}

	stripes := make([]StripeHeader, nStripes)
	for i := range stripes {
		off := int64(binary.LittleEndian.Uint64(buf[pos:]))
		pos += 8
		raw := int32(binary.LittleEndian.Uint32(buf[pos:]))
		pos += 4
		comp := int32(binary.LittleEndian.Uint32(buf[pos:]))
		pos += 4
		stripes[i] = StripeHeader{OffsetOfCompressedData: off, RawStripeSize: raw, CompressedStripeSize: comp}
	}

	cfg := stripe.Config{
		Algorithm:      algo,
		BlockSize:      blockSize,
		NumberOfBlocks: numberOfBlocks,
		MaxDict:        maxDict,
		SegmentSize:    segmentSize,
		KmerSize:       kmerSize,
		Level:          codec.DefaultLevel,
	}
	return cfg, stripes, nil
}

// addOffsetChecked adds delta to offset, rejecting overflow rather than
// silently wrapping.
func addOffsetChecked(offset int64, delta int32) (int64, error) {
	if delta < 0 {
		return 0, blockerr.Format("negative stripe size %d", delta)
	}
	if offset > math.MaxInt64-int64(delta) {
		return 0, blockerr.Io(nil, "stripe offset overflow: %d + %d exceeds int64", offset, delta)
	}
	return offset + int64(delta), nil
}

// Package stripe implements StripeCodec: encoding and decoding of one
// stripe under the SBC, MBC, or RAC strategy, including RAC's intra-
// stripe dictionary-and-block-index layout. Dispatch over the strategy is
// a closed sum type (Algorithm) with a switch, not virtual dispatch — all
// three strategies are known at compile time.
package stripe

import (
	"github.com/blockrac/blockrac/internal/blockerr"
	"github.com/blockrac/blockrac/internal/codec"
)

// Algorithm selects one of the three compression strategies.
type Algorithm int

const (
	SBC Algorithm = iota
	MBC
	RAC
)

func (a Algorithm) String() string {
	switch a {
	case SBC:
		return "SBC"
	case MBC:
		return "MBC"
	case RAC:
		return "RAC"
	default:
		return "UNKNOWN"
	}
}

// Magic is the 3-byte on-disk identifier for each algorithm.
func (a Algorithm) Magic() string {
	switch a {
	case SBC:
		return "SBC"
	case MBC:
		return "MBC"
	case RAC:
		return "RAC"
	default:
		return "???"
	}
}

// ParseAlgorithm maps a CLI/config string or on-disk magic to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "sbc", "SBC":
		return SBC, nil
	case "mbc", "MBC":
		return MBC, nil
	case "rac", "RAC":
		return RAC, nil
	default:
		return 0, blockerr.Usage("unknown algorithm %q", s)
	}
}

// Config is the immutable per-file configuration needed to encode or
// decode stripes of one container.
type Config struct {
	Algorithm      Algorithm
	BlockSize      int32
	NumberOfBlocks int32
	MaxDict        int32
	SegmentSize    int32 // k, RAC trainer segment size
	KmerSize       int32 // d, RAC trainer kmer size
	DictAlgorithm  string
	Level          int // BlockCodec compression level
}

// StripeSize is block_size * number_of_blocks.
func (c Config) StripeSize() int64 {
	return int64(c.BlockSize) * int64(c.NumberOfBlocks)
}

// Validate enforces the parameter combinations legal for the selected
// strategy.
func (c Config) Validate() error {
	if c.BlockSize <= 0 {
		return blockerr.Usage("block_size must be > 0, got %d", c.BlockSize)
	}
	switch c.Algorithm {
	case SBC:
		if c.NumberOfBlocks != 1 {
			return blockerr.Usage("SBC requires number_of_blocks == 1, got %d", c.NumberOfBlocks)
		}
		if c.MaxDict != 0 || c.SegmentSize != 0 || c.KmerSize != 0 {
			return blockerr.Usage("SBC requires max_dict, segment_size, kmer_size all 0")
		}
	case MBC:
		if c.NumberOfBlocks <= 1 {
			return blockerr.Usage("MBC requires number_of_blocks > 1, got %d", c.NumberOfBlocks)
		}
		if c.MaxDict != 0 || c.SegmentSize != 0 || c.KmerSize != 0 {
			return blockerr.Usage("MBC requires max_dict, segment_size, kmer_size all 0")
		}
	case RAC:
		if c.NumberOfBlocks <= 1 {
			return blockerr.Usage("RAC requires number_of_blocks > 1, got %d", c.NumberOfBlocks)
		}
		if c.MaxDict <= 0 || c.SegmentSize <= 0 || c.KmerSize <= 0 {
			return blockerr.Usage("RAC requires max_dict, segment_size, kmer_size all > 0")
		}
	default:
		return blockerr.Usage("unknown algorithm %v", c.Algorithm)
	}
	return nil
}

// Codec encodes and decodes stripes for one fixed Config.
type Codec struct {
	cfg Config
}

// New constructs a Codec for cfg. cfg must already have passed Validate.
func New(cfg Config) *Codec {
	return &Codec{cfg: cfg}
}

// EncodeStripe compresses one stripe's raw bytes under the configured
// strategy. It applies the inflation-fallback rule uniformly: if the
// strategy's own encoding is not smaller than raw, the raw bytes are
// returned unchanged and verbatim is true.
func (c *Codec) EncodeStripe(raw []byte) (payload []byte, verbatim bool, err error) {
	var encoded []byte
	switch c.cfg.Algorithm {
	case SBC:
		encoded, err = encodeSBC(c.cfg, raw)
	case MBC:
		encoded, err = encodeMBC(c.cfg, raw)
	case RAC:
		encoded, err = encodeRAC(c.cfg, raw)
	default:
		return nil, false, blockerr.Usage("unknown algorithm %v", c.cfg.Algorithm)
	}
	if err != nil {
		return nil, false, err
	}

	if len(encoded) >= len(raw) {
		verbatimCopy := make([]byte, len(raw))
		copy(verbatimCopy, raw)
		return verbatimCopy, true, nil
	}
	return encoded, false, nil
}

// DecodeStripe inverts EncodeStripe, given the declared raw size and
// whether the stripe was stored verbatim.
func (c *Codec) DecodeStripe(payload []byte, rawSize int32, verbatim bool) ([]byte, error) {
	if verbatim {
		if int32(len(payload)) != rawSize {
			return nil, blockerr.Format("verbatim stripe length %d != declared raw size %d", len(payload), rawSize)
		}
		out := make([]byte, len(payload))
		copy(out, payload)
		return out, nil
	}

	var out []byte
	var err error
	switch c.cfg.Algorithm {
	case SBC:
		out, err = decodeSBC(payload, rawSize)
	case MBC:
		out, err = decodeMBC(payload, rawSize)
	case RAC:
		out, err = decodeRAC(payload, rawSize)
	default:
		return nil, blockerr.Usage("unknown algorithm %v", c.cfg.Algorithm)
	}
	if err != nil {
		return nil, err
	}
	if int32(len(out)) != rawSize {
		return nil, blockerr.Codec(nil, "decoded stripe length %d != declared raw size %d", len(out), rawSize)
	}
	return out, nil
}

// DecodeBlock decodes a single block of the stripe without decoding the
// rest, where the strategy allows it (RAC always, SBC trivially — only
// index 0 exists). MBC must still decode the full stripe internally.
func (c *Codec) DecodeBlock(payload []byte, rawSize int32, verbatim bool, blockIndex int) ([]byte, error) {
	numBlocks := blockCountForStripe(rawSize, c.cfg.BlockSize)
	if blockIndex < 0 || blockIndex >= numBlocks {
		return nil, blockerr.Range("block index %d out of range [0, %d)", blockIndex, numBlocks)
	}

	if verbatim {
		start, end := blockSpan(rawSize, c.cfg.BlockSize, blockIndex)
		if end > int32(len(payload)) {
			return nil, blockerr.Format("verbatim stripe too short for block %d", blockIndex)
		}
		out := make([]byte, end-start)
		copy(out, payload[start:end])
		return out, nil
	}

	switch c.cfg.Algorithm {
	case SBC:
		if blockIndex != 0 {
			return nil, blockerr.Range("SBC decode_block index must be 0, got %d", blockIndex)
		}
		return decodeSBC(payload, rawSize)
	case MBC:
		full, err := decodeMBC(payload, rawSize)
		if err != nil {
			return nil, err
		}
		start, end := blockSpan(rawSize, c.cfg.BlockSize, blockIndex)
		return full[start:end], nil
	case RAC:
		return decodeBlockRAC(payload, rawSize, blockIndex)
	default:
		return nil, blockerr.Usage("unknown algorithm %v", c.cfg.Algorithm)
	}
}

// RACBlockCount reads a RAC stripe's intra-header to learn how many
// blocks it declares, without decoding any block payload. Used by the
// container to compute total_blocks for the file's final stripe when it
// was not stored verbatim.
func (c *Codec) RACBlockCount(payload []byte) (int, error) {
	if c.cfg.Algorithm != RAC {
		return 0, blockerr.Usage("RACBlockCount called for non-RAC algorithm %v", c.cfg.Algorithm)
	}
	return racStripeBlockCount(payload)
}

// blockCountForStripe is ceil(rawSize / blockSize), which correctly
// yields a short last block without requiring the caller to know whether
// this is the file's final stripe.
func blockCountForStripe(rawSize int32, blockSize int32) int {
	if blockSize <= 0 {
		return 0
	}
	return int((int64(rawSize) + int64(blockSize) - 1) / int64(blockSize))
}

// blockSpan returns the [start, end) byte range of block i within a
// stripe of rawSize bytes.
func blockSpan(rawSize int32, blockSize int32, i int) (int32, int32) {
	start := int32(i) * blockSize
	end := start + blockSize
	if end > rawSize {
		end = rawSize
	}
	return start, end
}

func compressPlain(raw []byte, level int) []byte {
	return codec.Compress(raw, level)
}

func decompressPlain(src []byte) ([]byte, error) {
	out, err := codec.Decompress(src)
	if err != nil {
		return nil, blockerr.Codec(err, "plain decompress failed")
	}
	return out, nil
}


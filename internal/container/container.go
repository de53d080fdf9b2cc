// Package container implements the file-level format: header, stripe
// index, and body layout. It drives stripe.Codec over buffered I/O and
// implements whole-file encode, whole-file decode, and single-block
// random decode.
package container

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/blockrac/blockrac/internal/blockerr"
	"github.com/blockrac/blockrac/internal/stripe"
)

const oneMiB = 1 << 20

// Container owns the file handle, the I/O buffers, and (for the
// lifetime of one call) the in-memory stripe index. None of this state is
// shared across Container instances.
type Container struct {
	cfg      stripe.Config
	codec    *stripe.Codec
	f        *os.File
	bodyBase int64
	stripes  []StripeHeader
}

// Create opens path for writing and prepares a Container for
// CompressFile. cfg must satisfy Config.Validate.
func Create(path string, cfg stripe.Config) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, blockerr.Io(err, "create %s", path)
	}
	return &Container{cfg: cfg, codec: stripe.New(cfg), f: f}, nil
}

// Open reads path's header and stripe index, preparing a Container for
// DecompressFile/DecompressBlock. The full stripe index is held in memory
// for the life of the Container.
func Open(path string) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, blockerr.Io(err, "open %s", path)
	}
	cfg, stripes, err := readFileHeader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		f.Close()
		return nil, blockerr.FormatWrap(err, "header declares invalid configuration")
	}

	bodyBase, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		f.Close()
		return nil, blockerr.Io(err, "seek to body start")
	}

	return &Container{
		cfg:      cfg,
		codec:    stripe.New(cfg),
		f:        f,
		bodyBase: bodyBase,
		stripes:  stripes,
	}, nil
}

// Close releases the underlying file handle.
func (c *Container) Close() error {
	return c.f.Close()
}

// bufferCapacity is the input/output buffer size for streaming encode and
// decode: at least one stripe, rounded up to a multiple of stripe_size,
// and at least 1 MiB.
func bufferCapacity(stripeSize int64) int64 {
	if stripeSize <= 0 {
		return oneMiB
	}
	if stripeSize >= oneMiB {
		return stripeSize
	}
	multiple := (oneMiB + stripeSize - 1) / stripeSize
	return multiple * stripeSize
}

func ceilDiv(a, b int64) int64 {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// CompressFile reads exactly inputSize bytes from input, partitions them
// into stripes, and writes the complete container (placeholder header,
// body, then the finalized header) to the Container's file.
func (c *Container) CompressFile(input io.Reader, inputSize int64) error {
	if inputSize < 0 {
		return blockerr.Usage("input size must be >= 0, got %d", inputSize)
	}
	stripeSize := c.cfg.StripeSize()
	nStripes := int(ceilDiv(inputSize, stripeSize))

	placeholder := make([]StripeHeader, nStripes)
	if err := writeFileHeader(c.f, c.cfg, placeholder); err != nil {
		return err
	}
	bodyBase, err := c.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return blockerr.Io(err, "seek past placeholder header")
	}
	c.bodyBase = bodyBase

	bufCap := bufferCapacity(stripeSize)
	buf := make([]byte, bufCap)

	stripes := make([]StripeHeader, 0, nStripes)
	var bodyOffset int64
	var totalRead int64

	for totalRead < inputSize {
		want := bufCap
		if remain := inputSize - totalRead; remain < want {
			want = remain
		}
		n, err := io.ReadFull(input, buf[:want])
		if err != nil {
			return blockerr.Io(err, "read %d bytes at offset %d", want, totalRead)
		}

		chunk := buf[:n]
		offset := int64(0)
		for offset < int64(n) {
			end := offset + stripeSize
			if end > int64(n) {
				end = int64(n)
			}
			raw := chunk[offset:end]

			payload, _, err := c.codec.EncodeStripe(raw)
			if err != nil {
				return err
			}

			if _, err := c.f.Write(payload); err != nil {
				return blockerr.Io(err, "write stripe body at body offset %d", bodyOffset)
			}

			newOffset, err := addOffsetChecked(bodyOffset, int32(len(payload)))
			if err != nil {
				return err
			}

			stripes = append(stripes, StripeHeader{
				OffsetOfCompressedData: bodyOffset,
				RawStripeSize:          int32(len(raw)),
				CompressedStripeSize:   int32(len(payload)),
			})

			bodyOffset = newOffset
			offset = end
		}
		totalRead += int64(n)
	}

	if _, err := c.f.Seek(0, io.SeekStart); err != nil {
		return blockerr.Io(err, "seek to start for header finalization")
	}
	if err := writeFileHeader(c.f, c.cfg, stripes); err != nil {
		return err
	}
	c.stripes = stripes
	return nil
}

// DecompressFile decodes every stripe in file order and writes the
// reconstructed original bytes to w.
func (c *Container) DecompressFile(w io.Writer) error {
	for i, sh := range c.stripes {
		payload, err := c.readStripePayload(sh)
		if err != nil {
			return err
		}
		raw, err := c.codec.DecodeStripe(payload, sh.RawStripeSize, sh.Verbatim())
		if err != nil {
			return blockerr.Codec(err, "stripe %d", i)
		}
		if _, err := w.Write(raw); err != nil {
			return blockerr.Io(err, "write decoded stripe %d", i)
		}
	}
	return nil
}

func (c *Container) readStripePayload(sh StripeHeader) ([]byte, error) {
	payload := make([]byte, sh.CompressedStripeSize)
	if _, err := c.f.ReadAt(payload, c.bodyBase+sh.OffsetOfCompressedData); err != nil {
		return nil, blockerr.Io(err, "read stripe payload at body offset %d", sh.OffsetOfCompressedData)
	}
	return payload, nil
}

// Config returns the stripe configuration this container was created or
// opened with.
func (c *Container) Config() stripe.Config {
	return c.cfg
}

// StripeHeaders returns the in-memory stripe index. Callers must not
// mutate the returned slice.
func (c *Container) StripeHeaders() []StripeHeader {
	return c.stripes
}

// DictionaryTotalBytes sums the dict_size field across every non-verbatim
// RAC stripe, for driver statistics. It is 0 for SBC/MBC.
func (c *Container) DictionaryTotalBytes() (int64, error) {
	if c.cfg.Algorithm != stripe.RAC {
		return 0, nil
	}
	var total int64
	var buf [4]byte
	for _, sh := range c.stripes {
		if sh.Verbatim() {
			continue
		}
		if _, err := c.f.ReadAt(buf[:], c.bodyBase+sh.OffsetOfCompressedData); err != nil {
			return 0, blockerr.Io(err, "read dict_size at body offset %d", sh.OffsetOfCompressedData)
		}
		total += int64(binary.LittleEndian.Uint32(buf[:]))
	}
	return total, nil
}

// TotalBlocks returns the number of logical blocks addressable by
// DecompressBlock, derived from the stripe index rather than stored
// directly on disk.
func (c *Container) TotalBlocks() (int64, error) {
	if len(c.stripes) == 0 {
		return 0, nil
	}
	n := int64(len(c.stripes))
	blocksPerStripe := int64(c.cfg.NumberOfBlocks)
	last := c.stripes[n-1]

	if c.cfg.Algorithm == stripe.SBC {
		return n, nil
	}

	lastStripeBlocks := ceilDiv(int64(last.RawStripeSize), int64(c.cfg.BlockSize))
	if c.cfg.Algorithm == stripe.RAC && !last.Verbatim() {
		payload, err := c.readStripePayload(last)
		if err != nil {
			return 0, err
		}
		count, err := c.codec.RACBlockCount(payload)
		if err != nil {
			return 0, err
		}
		lastStripeBlocks = int64(count)
	}

	return (n-1)*blocksPerStripe + lastStripeBlocks, nil
}

// DecompressBlock decodes a single logical block into out, which must be
// at least as large as that block's raw size, and returns the number of
// bytes written.
func (c *Container) DecompressBlock(blockNumber int64, out []byte) (int, error) {
	total, err := c.TotalBlocks()
	if err != nil {
		return 0, err
	}
	if blockNumber < 0 || blockNumber >= total {
		return 0, blockerr.Range("block number %d out of range [0, %d)", blockNumber, total)
	}

	blocksPerStripe := int64(c.cfg.NumberOfBlocks)
	stripeIndex := blockNumber / blocksPerStripe
	intraIndex := int(blockNumber % blocksPerStripe)

	sh := c.stripes[stripeIndex]
	payload, err := c.readStripePayload(sh)
	if err != nil {
		return 0, err
	}

	decoded, err := c.codec.DecodeBlock(payload, sh.RawStripeSize, sh.Verbatim(), intraIndex)
	if err != nil {
		return 0, err
	}
	if len(decoded) > len(out) {
		return 0, blockerr.Usage("output buffer too small: need %d, have %d", len(decoded), len(out))
	}
	return copy(out, decoded), nil
}

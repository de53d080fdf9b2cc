package stripe

import (
	"encoding/binary"

	"github.com/blockrac/blockrac/internal/blockerr"
	"github.com/blockrac/blockrac/internal/codec"
	"github.com/blockrac/blockrac/internal/dict"
)

// blockEntrySize is the fixed on-disk size of one BlockEntry record:
// offset_of_compressed_data, raw_block_size, compressed_block_size, each
// an int32.
const blockEntrySize = 12

// blockEntry is the intra-stripe index record for one RAC block. Offset
// is relative to the start of the payload area (after the dict, n_blocks
// field, and the entry table itself).
type blockEntry struct {
	Offset   int32
	RawSize  int32
	CompSize int32
}

func (e blockEntry) put(b []byte) {
	binary.LittleEndian.PutUint32(b[0:4], uint32(e.Offset))
	binary.LittleEndian.PutUint32(b[4:8], uint32(e.RawSize))
	binary.LittleEndian.PutUint32(b[8:12], uint32(e.CompSize))
}

func getBlockEntry(b []byte) blockEntry {
	return blockEntry{
		Offset:   int32(binary.LittleEndian.Uint32(b[0:4])),
		RawSize:  int32(binary.LittleEndian.Uint32(b[4:8])),
		CompSize: int32(binary.LittleEndian.Uint32(b[8:12])),
	}
}

// splitBlocks partitions raw into blockSize-sized chunks, the last one
// possibly short.
func splitBlocks(raw []byte, blockSize int32) [][]byte {
	n := blockCountForStripe(int32(len(raw)), blockSize)
	blocks := make([][]byte, n)
	for i := 0; i < n; i++ {
		start, end := blockSpan(int32(len(raw)), blockSize, i)
		blocks[i] = raw[start:end]
	}
	return blocks
}

// encodeRAC lays out: [dict_size i32][dict_bytes][n_blocks
// i32][blockEntry x n][payloads...]. Per-block, the inflation-fallback
// rule applies independently of the outer whole-stripe check that
// Codec.EncodeStripe performs afterwards.
func encodeRAC(cfg Config, raw []byte) ([]byte, error) {
	blocks := splitBlocks(raw, cfg.BlockSize)

	dictBytes, err := dict.Train(cfg.DictAlgorithm, blocks, dict.Params{
		MaxDict: cfg.MaxDict,
		K:       cfg.SegmentSize,
		D:       cfg.KmerSize,
	})
	if err != nil {
		return nil, blockerr.Codec(err, "dictionary training failed")
	}

	entries := make([]blockEntry, len(blocks))
	payloads := make([][]byte, len(blocks))

	var runningOffset int32
	for i, block := range blocks {
		compressed, err := codec.CompressDict(block, dictBytes, cfg.Level)
		if err != nil {
			return nil, blockerr.Codec(err, "compress_with_dict failed for block %d", i)
		}

		var payload []byte
		var compSize int32
		if len(compressed) >= len(block) {
			payload = block
			compSize = int32(len(block))
		} else {
			payload = compressed
			compSize = int32(len(compressed))
		}

		entries[i] = blockEntry{
			Offset:   runningOffset,
			RawSize:  int32(len(block)),
			CompSize: compSize,
		}
		payloads[i] = payload
		runningOffset += compSize
	}

	total := 4 + len(dictBytes) + 4 + len(entries)*blockEntrySize
	for _, p := range payloads {
		total += len(p)
	}

	out := make([]byte, total)
	pos := 0
	binary.LittleEndian.PutUint32(out[pos:], uint32(len(dictBytes)))
	pos += 4
	copy(out[pos:], dictBytes)
	pos += len(dictBytes)
	binary.LittleEndian.PutUint32(out[pos:], uint32(len(entries)))
	pos += 4
	entryTableStart := pos
	pos += len(entries) * blockEntrySize
	for i, e := range entries {
		e.put(out[entryTableStart+i*blockEntrySize:])
	}
	for _, p := range payloads {
		copy(out[pos:], p)
		pos += len(p)
	}

	return out, nil
}

// racHeader is the parsed (but not yet block-decoded) form of an encoded
// RAC stripe.
type racHeader struct {
	dictBytes  []byte
	entries    []blockEntry
	payloadOff int
}

func parseRACHeader(payload []byte) (racHeader, error) {
	if len(payload) < 4 {
		return racHeader{}, blockerr.Format("RAC stripe too short for dict_size field")
	}
	dictSize := int(binary.LittleEndian.Uint32(payload[0:4]))
	pos := 4
	if dictSize < 0 || pos+dictSize > len(payload) {
		return racHeader{}, blockerr.Format("RAC dict_size %d out of bounds", dictSize)
	}
	dictBytes := payload[pos : pos+dictSize]
	pos += dictSize

	if pos+4 > len(payload) {
		return racHeader{}, blockerr.Format("RAC stripe too short for n_blocks field")
	}
	nBlocks := int(binary.LittleEndian.Uint32(payload[pos : pos+4]))
	pos += 4

	entryTableSize := nBlocks * blockEntrySize
	if nBlocks < 0 || pos+entryTableSize > len(payload) {
		return racHeader{}, blockerr.Format("RAC entry table of %d blocks exceeds stripe bounds", nBlocks)
	}
	entries := make([]blockEntry, nBlocks)
	for i := 0; i < nBlocks; i++ {
		entries[i] = getBlockEntry(payload[pos+i*blockEntrySize:])
	}
	pos += entryTableSize

	return racHeader{dictBytes: dictBytes, entries: entries, payloadOff: pos}, nil
}

func decodeRAC(payload []byte, rawSize int32) ([]byte, error) {
	hdr, err := parseRACHeader(payload)
	if err != nil {
		return nil, err
	}

	var sumRaw int64
	for _, e := range hdr.entries {
		sumRaw += int64(e.RawSize)
	}
	if sumRaw != int64(rawSize) {
		return nil, blockerr.Format("RAC intra-stripe index sums to %d, declared raw size is %d", sumRaw, rawSize)
	}

	out := make([]byte, 0, rawSize)
	for i, e := range hdr.entries {
		start := hdr.payloadOff + int(e.Offset)
		end := start + int(e.CompSize)
		if end > len(payload) || start < 0 {
			return nil, blockerr.Format("RAC block %d payload range out of bounds", i)
		}
		block := payload[start:end]

		var decoded []byte
		if e.CompSize == e.RawSize {
			decoded = block
		} else {
			decoded, err = codec.DecompressDict(block, hdr.dictBytes)
			if err != nil {
				return nil, blockerr.Codec(err, "decompress_with_dict failed for block %d", i)
			}
		}
		if int32(len(decoded)) != e.RawSize {
			return nil, blockerr.Codec(nil, "RAC block %d decoded to %d bytes, expected %d", i, len(decoded), e.RawSize)
		}
		out = append(out, decoded...)
	}
	return out, nil
}

func decodeBlockRAC(payload []byte, rawSize int32, blockIndex int) ([]byte, error) {
	hdr, err := parseRACHeader(payload)
	if err != nil {
		return nil, err
	}
	if blockIndex < 0 || blockIndex >= len(hdr.entries) {
		return nil, blockerr.Range("RAC block index %d out of range [0, %d)", blockIndex, len(hdr.entries))
	}

	e := hdr.entries[blockIndex]
	start := hdr.payloadOff + int(e.Offset)
	end := start + int(e.CompSize)
	if end > len(payload) || start < 0 {
		return nil, blockerr.Format("RAC block %d payload range out of bounds", blockIndex)
	}
	block := payload[start:end]

	if e.CompSize == e.RawSize {
		out := make([]byte, len(block))
		copy(out, block)
		return out, nil
	}

	decoded, err := codec.DecompressDict(block, hdr.dictBytes)
	if err != nil {
		return nil, blockerr.Codec(err, "decompress_with_dict failed for block %d", blockIndex)
	}
	if int32(len(decoded)) != e.RawSize {
		return nil, blockerr.Codec(nil, "RAC block %d decoded to %d bytes, expected %d", blockIndex, len(decoded), e.RawSize)
	}
	return decoded, nil
}

// racStripeBlockCount reads just enough of a RAC stripe's header to learn
// how many blocks it declares, without decoding any block payload. Used
// by Container.TotalBlocks for the last (non-verbatim) stripe.
func racStripeBlockCount(payload []byte) (int, error) {
	hdr, err := parseRACHeader(payload)
	if err != nil {
		return 0, err
	}
	return len(hdr.entries), nil
}

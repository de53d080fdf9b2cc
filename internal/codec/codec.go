// Package codec implements the BlockCodec contract: a stateless
// bytes-to-bytes compressor/decompressor with an optional shared
// dictionary, backed by github.com/klauspost/compress/zstd.
//
// Callers never see a *zstd.Encoder/*zstd.Decoder — Compress/Decompress
// and the *Dict variants are the entire surface, a black-box
// compress(src,dict?)/decompress(src,dict?) contract.
package codec

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// DefaultLevel is the zstd compression level used when the caller
// doesn't override it.
const DefaultLevel = 18

var (
	plainDecoder, _ = zstd.NewReader(nil)

	encoderPools   = make(map[int]*sync.Pool)
	encoderPoolsMu sync.RWMutex
)

func getEncoderPool(level int) *sync.Pool {
	encoderPoolsMu.RLock()
	pool, ok := encoderPools[level]
	encoderPoolsMu.RUnlock()
	if ok {
		return pool
	}

	encoderPoolsMu.Lock()
	defer encoderPoolsMu.Unlock()
	if pool, ok = encoderPools[level]; ok {
		return pool
	}

	pool = &sync.Pool{
		New: func() interface{} {
			enc, _ := zstd.NewWriter(nil,
				zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
				zstd.WithEncoderConcurrency(1),
			)
			return enc
		},
	}
	encoderPools[level] = pool
	return pool
}

// Compress returns the zstd-compressed form of src at the given level,
// with no dictionary. The returned slice is freshly allocated.
func Compress(src []byte, level int) []byte {
	pool := getEncoderPool(level)
	enc := pool.Get().(*zstd.Encoder)
	defer pool.Put(enc)

	return enc.EncodeAll(src, make([]byte, 0, len(src)))
}

// Decompress inverts Compress. No dictionary is used.
func Decompress(src []byte) ([]byte, error) {
	out, err := plainDecoder.DecodeAll(src, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return out, nil
}

// CompressDict compresses src using dict as a shared dictionary. A fresh
// encoder is built per call: RAC stripes use a different dictionary per
// stripe, so pooling by dictionary bytes would thrash more than it saves.
func CompressDict(src, dict []byte, level int) ([]byte, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderDictRaw(0, dict),
	)
	if err != nil {
		return nil, fmt.Errorf("zstd new dict encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(src, make([]byte, 0, len(src))), nil
}

// DecompressDict inverts CompressDict using the same dictionary bytes.
func DecompressDict(src, dict []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderDictRaw(0, dict))
	if err != nil {
		return nil, fmt.Errorf("zstd new dict decoder: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(src, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd dict decode: %w", err)
	}
	return out, nil
}

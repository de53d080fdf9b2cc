package stripe

// MBC: a stripe of N blocks is compressed as one LZ77 unit. The codec may
// exploit cross-block back-references within the stripe, but never state
// carried across stripes — each stripe goes through one independent
// Compress/Decompress call, so stripes remain independently decodable.

func encodeMBC(cfg Config, raw []byte) ([]byte, error) {
	return compressPlain(raw, cfg.Level), nil
}

func decodeMBC(payload []byte, rawSize int32) ([]byte, error) {
	return decompressPlain(payload)
}

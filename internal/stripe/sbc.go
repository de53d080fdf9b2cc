package stripe

// SBC: one block == one stripe. encode_stripe is a plain BlockCodec call
// with no dictionary; decode_stripe and decode_block(idx=0) are the same
// operation — the stripe-level compressed form IS the block-level form.

func encodeSBC(cfg Config, raw []byte) ([]byte, error) {
	return compressPlain(raw, cfg.Level), nil
}

func decodeSBC(payload []byte, rawSize int32) ([]byte, error) {
	return decompressPlain(payload)
}

package dict

import (
	"bytes"
	"index/suffixarray"
)

// trainSuffixArray implements the legacy "suffix-array" trainer: all
// samples are concatenated into one buffer, a suffix array is built over
// it with the standard library's index/suffixarray, and every distinct
// substring of length D is ranked by its true occurrence count (obtained
// via the suffix array's Lookup, not by hash-map counting) before the
// same greedy concatenation used by the rolling-kmer trainer.
func trainSuffixArray(samples [][]byte, params Params) ([]byte, error) {
	d := int(params.D)

	buf := bytes.Join(samples, nil)
	if len(buf) < d {
		return selectTopKmers(nil, params.Steps, params.MaxDict), nil
	}

	idx := suffixarray.New(buf)

	// Discover the distinct D-grams present; a set, not a frequency
	// count, because the authoritative count comes from idx.Lookup.
	seen := make(map[string]struct{})
	for i := 0; i+d <= len(buf); i++ {
		seen[string(buf[i:i+d])] = struct{}{}
	}

	candidates := make([]candidate, 0, len(seen))
	for kmer := range seen {
		offsets := idx.Lookup([]byte(kmer), -1)
		candidates = append(candidates, candidate{kmer: kmer, count: len(offsets)})
	}

	return selectTopKmers(candidates, params.Steps, params.MaxDict), nil
}

// Package dict implements the DictTrainer contract: given a set of sample
// buffers (the blocks of one stripe, in block order) it produces a
// dictionary blob no larger than params.MaxDict, deterministically, for
// later use by internal/codec's *Dict functions.
//
// Two strategies are supported, selected by name: "rolling-kmer" (a
// cover-style frequent-substring selector over fixed-length segments) and
// "suffix-array" (a legacy method built on the standard library's
// index/suffixarray). The trainer's algorithm is treated as opaque by its
// callers; these are the concrete implementations behind that interface.
package dict

import (
	"fmt"
	"sort"
)

// Params mirrors the RAC configuration fields that feed the trainer.
type Params struct {
	MaxDict int32
	K       int32 // segment size
	D       int32 // kmer size
	Steps   int   // candidate cap for both algorithms; default 1000
}

const (
	AlgorithmRollingKmer = "rolling-kmer"
	AlgorithmSuffixArray = "suffix-array"

	defaultSteps = 1000
)

// Train produces a dictionary for the named algorithm. samples are given
// in block order; their concatenation is never assumed contiguous in
// memory by either algorithm.
func Train(algorithm string, samples [][]byte, params Params) ([]byte, error) {
	if params.MaxDict <= 0 {
		return nil, fmt.Errorf("dict: max_dict must be > 0, got %d", params.MaxDict)
	}
	if params.K <= 0 || params.D <= 0 {
		return nil, fmt.Errorf("dict: segment_size and kmer_size must be > 0, got k=%d d=%d", params.K, params.D)
	}
	if params.Steps <= 0 {
		params.Steps = defaultSteps
	}

	switch algorithm {
	case AlgorithmRollingKmer:
		return trainRollingKmer(samples, params)
	case AlgorithmSuffixArray:
		return trainSuffixArray(samples, params)
	default:
		return nil, fmt.Errorf("dict: unknown algorithm %q", algorithm)
	}
}

// candidate is one distinct k-mer seen during training, with its total
// occurrence count across all samples.
type candidate struct {
	kmer  string
	count int
}

// selectTopKmers sorts candidates by (-count, kmer) for determinism, caps
// the pool at steps entries, then greedily concatenates distinct k-mers
// (skipping ones that are already a substring of what's been assembled)
// until maxDict bytes are reached or candidates are exhausted.
func selectTopKmers(candidates []candidate, steps int, maxDict int32) []byte {
	sortCandidatesDesc(candidates)
	if len(candidates) > steps {
		candidates = candidates[:steps]
	}

	out := make([]byte, 0, maxDict)
	for _, c := range candidates {
		if int32(len(out)) >= maxDict {
			break
		}
		if containsString(out, c.kmer) {
			continue
		}
		remaining := maxDict - int32(len(out))
		if int32(len(c.kmer)) > remaining {
			out = append(out, c.kmer[:remaining]...)
			break
		}
		out = append(out, c.kmer...)
	}
	return out
}

func containsString(haystack []byte, needle string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if string(haystack[i:i+len(needle)]) == needle {
			return true
		}
	}
	return false
}

// sortCandidatesDesc sorts by descending count, then ascending kmer bytes,
// so that identical input always yields identical output regardless of
// map iteration order upstream.
func sortCandidatesDesc(c []candidate) {
	sort.Slice(c, func(i, j int) bool {
		if c[i].count != c[j].count {
			return c[i].count > c[j].count
		}
		return c[i].kmer < c[j].kmer
	})
}

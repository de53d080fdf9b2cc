package dict

import (
	"runtime"
	"sync"
)

// trainRollingKmer implements the "rolling-kmer" cover-style trainer:
// each sample is cut into segments of length K, each segment is scanned
// with a sliding window of length D (windows overlap, advancing one byte
// at a time), and the most frequent windows across all samples are
// concatenated into the dictionary, skipping any window already contained
// in what has been assembled.
//
// Samples are scanned concurrently across a worker pool, one goroutine
// per CPU, each accumulating its own frequency map; the maps are merged
// afterwards. Merge order never affects the result because map addition
// is commutative and the final candidate list is fully sorted before
// selection, so the result is deterministic regardless of scheduling.
func trainRollingKmer(samples [][]byte, params Params) ([]byte, error) {
	k := int(params.K)
	d := int(params.D)

	numWorkers := runtime.NumCPU()
	if numWorkers > len(samples) {
		numWorkers = len(samples)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	type job struct {
		index int
		data  []byte
	}
	jobs := make(chan job, len(samples))
	partials := make([]map[string]int, numWorkers)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		partials[w] = make(map[string]int)
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			freq := partials[w]
			for j := range jobs {
				countKmers(j.data, k, d, freq)
			}
		}(w)
	}

	for i, s := range samples {
		jobs <- job{index: i, data: s}
	}
	close(jobs)
	wg.Wait()

	merged := make(map[string]int)
	for _, partial := range partials {
		for kmer, count := range partial {
			merged[kmer] += count
		}
	}

	candidates := make([]candidate, 0, len(merged))
	for kmer, count := range merged {
		candidates = append(candidates, candidate{kmer: kmer, count: count})
	}

	return selectTopKmers(candidates, params.Steps, params.MaxDict), nil
}

// countKmers slides a window of length d across each K-sized segment of
// data and tallies occurrences into freq.
func countKmers(data []byte, k, d int, freq map[string]int) {
	if len(data) < d {
		return
	}
	for segStart := 0; segStart < len(data); segStart += k {
		segEnd := segStart + k
		if segEnd > len(data) {
			segEnd = len(data)
		}
		segment := data[segStart:segEnd]
		for i := 0; i+d <= len(segment); i++ {
			freq[string(segment[i:i+d])]++
		}
	}
}

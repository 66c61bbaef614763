package quality

import (
	"slices"

	"github.com/cespare/xxhash/v2"

	"sensorprep/internal/dataset"
)

// CountDuplicates counts rows identical to an earlier row. Missing tokens
// compare equal to each other.
func CountDuplicates(rows [][]string) int {
	seen := make(map[uint64][]int, len(rows))
	normalized := make([][]string, len(rows))
	dups := 0

	for i, row := range rows {
		norm := normalizeRow(row)
		normalized[i] = norm
		h := hashRow(norm)

		dup := false
		for _, j := range seen[h] {
			if slices.Equal(normalized[j], norm) {
				dup = true
				break
			}
		}
		if dup {
			dups++
			continue
		}
		seen[h] = append(seen[h], i)
	}
	return dups
}

func normalizeRow(row []string) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if !dataset.IsNA(v) {
			out[i] = v
		}
	}
	return out
}

// hashRow hashes length-prefixed cells so field boundaries are unambiguous
func hashRow(row []string) uint64 {
	d := xxhash.New()
	var prefix [4]byte
	for _, v := range row {
		n := len(v)
		prefix[0], prefix[1], prefix[2], prefix[3] = byte(n>>24), byte(n>>16), byte(n>>8), byte(n)
		d.Write(prefix[:])
		d.WriteString(v)
	}
	return d.Sum64()
}

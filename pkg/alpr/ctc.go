package alpr

import "strings"

// DecodeGreedy turns a T×C score matrix into text using greedy CTC decoding:
// take the argmax class per timestep, collapse consecutive repeats, and drop
// blanks. A blank between two identical characters keeps both ("A blank A"
// decodes to "AA", "A A" collapses to "A").
func DecodeGreedy(scores [][]float64, alphabet *Alphabet) string {
	const none = -1

	var b strings.Builder
	prev := none
	for _, row := range scores {
		idx := argmax(row)
		if idx < 0 {
			continue
		}
		if idx == alphabet.BlankIndex() {
			prev = none
			continue
		}
		if idx == prev {
			continue
		}
		if r, ok := alphabet.CharAt(idx); ok {
			b.WriteRune(r)
		}
		prev = idx
	}
	return b.String()
}

// argmax returns the index of the largest score, the earliest on ties.
func argmax(row []float64) int {
	if len(row) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(row); i++ {
		if row[i] > row[best] {
			best = i
		}
	}
	return best
}

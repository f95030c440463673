package qphase

import (
	"fmt"
	"sort"
	"strconv"

	"golang.org/x/exp/maps"
)

/*
Counts maps a classical register bitstring to the number of shots that
produced it. Classical bit 0 is the rightmost character, so with three bits
the key "100" means only bit 2 was set.
*/
type Counts map[string]int

// Total is the number of shots recorded.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Keys returns the outcomes in ascending bitstring order.
func (c Counts) Keys() []string {
	keys := maps.Keys(c)
	sort.Strings(keys)
	return keys
}

// MostFrequent returns the outcome with the highest count. Ties go to the
// lowest bitstring so the answer is stable.
func (c Counts) MostFrequent() (string, int) {
	best, bestCount := "", 0
	for _, key := range c.Keys() {
		if c[key] > bestCount {
			best, bestCount = key, c[key]
		}
	}
	return best, bestCount
}

// Probabilities normalises the counts by the total number of shots.
func (c Counts) Probabilities() map[string]float64 {
	total := c.Total()
	probs := make(map[string]float64, len(c))
	if total == 0 {
		return probs
	}

	for key, n := range c {
		probs[key] = float64(n) / float64(total)
	}
	return probs
}

// OutcomeValue reads a bitstring key as an unsigned integer.
func OutcomeValue(key string) (uint64, error) {
	if key == "" {
		return 0, nil
	}

	v, err := strconv.ParseUint(key, 2, 64)
	if err != nil {
		return 0, fmt.Errorf("outcome %q: %w", key, err)
	}
	return v, nil
}

// EstimatePhase interprets the most frequent outcome as a binary fraction
// with one digit per classical bit.
func (c Counts) EstimatePhase() (float64, error) {
	key, n := c.MostFrequent()
	if n == 0 {
		return 0, ErrEmptyCounts
	}

	v, err := OutcomeValue(key)
	if err != nil {
		return 0, err
	}

	return float64(v) / float64(uint64(1)<<len(key)), nil
}

// bitstring renders bits as a key, highest classical bit first.
func bitstring(bits []byte) string {
	out := make([]byte, len(bits))
	for i, b := range bits {
		out[len(bits)-1-i] = '0' + b
	}
	return string(out)
}

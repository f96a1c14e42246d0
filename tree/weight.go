package tree

import "math"

// MaxWeight is the largest display weight. Weights fall in [0, MaxWeight],
// giving ten classes for the cloud's font sizes.
const MaxWeight = 9

// Weight maps a size to a display weight on a square root scale relative to
// largest, the largest aggregate size among the node's siblings. The result
// is monotonic in size and depends only on its inputs.
func Weight(size, largest uint64) int {
	if largest == 0 {
		return 0
	}
	if size >= largest {
		return MaxWeight
	}
	return int(math.Round(MaxWeight * math.Sqrt(float64(size)/float64(largest))))
}

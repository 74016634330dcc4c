/*package cuckoo implements O(N) sorting for datasets where you know the bin
each object must take in a set of bins.*/
package cuckoo

import (
	"fmt"
)

// Bin computes a stable ordering of elements by bin. bin[i] is the bin of
// element i, and there are len(head) - 1 bins. On return, perm[j] is the
// element in sorted position j, and the elements of bin k occupy sorted
// positions [head[k], head[k+1]). cursor is scratch space with at least
// len(head) - 1 elements and perm must have at least len(bin) elements.
//
// Bin panics if an element's bin is out of range. Use Check first if the bins
// come from outside the caller's control.
func Bin(bin, head, cursor, perm []int) {
	// head[k+1] first counts bin k, then becomes an offset.
	for k := range head { head[k] = 0 }
	for _, k := range bin { head[k + 1]++ }
	for k := 1; k < len(head); k++ { head[k] += head[k - 1] }

	copy(cursor, head[:len(head) - 1])
	for i, k := range bin {
		perm[cursor[k]] = i
		cursor[k]++
	}
}

// Check returns the index of the first element whose bin isn't in [0, bins)
// and -1 if every element is in range.
func Check(bin []int, bins int) int {
	for i, k := range bin {
		if k < 0 || k >= bins { return i }
	}
	return -1
}

// Counts returns the number of elements in each bin given the head array
// computed by Bin.
func Counts(head []int) []int {
	if len(head) == 0 { return nil }
	n := make([]int, len(head) - 1)
	for k := range n { n[k] = head[k + 1] - head[k] }
	return n
}

// Validate checks that perm is a permutation which orders bin by bin and
// keeps elements within a bin in their original order. It is meant for tests
// and debugging.
func Validate(bin, head, perm []int) error {
	seen := make([]bool, len(bin))
	for k := 0; k < len(head) - 1; k++ {
		prev := -1
		for j := head[k]; j < head[k + 1]; j++ {
			i := perm[j]
			if i < 0 || i >= len(bin) || seen[i] {
				return fmt.Errorf("Sorted position %d holds invalid or " +
					"repeated element %d.", j, i)
			} else if bin[i] != k {
				return fmt.Errorf("Element %d has bin %d, but is in the " +
					"range of bin %d.", i, bin[i], k)
			} else if i < prev {
				return fmt.Errorf("Elements %d and %d of bin %d are out of " +
					"order.", prev, i, k)
			}
			seen[i], prev = true, i
		}
	}
	for i := range seen {
		if !seen[i] { return fmt.Errorf("Element %d was never placed.", i) }
	}
	return nil
}

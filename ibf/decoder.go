package ibf

import (
	"github.com/yangl1996/ibf/murmur3"
)

// Difference is the result of decoding a subtracted filter.
type Difference struct {
	// Local holds elements with a positive count, i.e. those only the
	// minuend had, in the order they were peeled.
	Local [][]byte
	// Remote holds elements with a negative count, i.e. those only the
	// subtrahend had.
	Remote [][]byte
	// Complete is true when the filter peeled down to all zero. When false,
	// Local and Remote are still correct but some of the difference could not
	// be recovered and a larger filter is needed.
	Complete bool
}

// pure reports whether cell i holds exactly one element: its count is +1 or
// -1 and its key re-hashes to its checksum. The hash check rules out cells
// whose counts net to one across several elements.
func (f *Filter) pure(i int) bool {
	if f.counts[i] != 1 && f.counts[i] != -1 {
		return false
	}
	return murmur3.Sum128(f.cell(i))[0] == f.hashes[i]
}

// Decode peels the filter and returns the elements it recovered. It consumes
// the filter; Clone first if the subtracted state is needed afterwards.
func (f *Filter) Decode() Difference {
	res := Difference{}

	queue := []int{}
	for i := 0; i < f.size; i++ {
		if f.pure(i) {
			queue = append(queue, i)
		}
	}

	for len(queue) > 0 {
		// pop the last item from the queue
		i := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		// a neighbour peeled after i was queued may have changed it
		if !f.pure(i) {
			continue
		}

		// copy out the element before update zeroes the cell it lives in
		element := f.KeyXor(i)
		count := f.counts[i]
		if count > 0 {
			res.Local = append(res.Local, element)
		} else {
			res.Remote = append(res.Remote, element)
		}

		checksum, indices := f.Indices(element)
		f.update(element, checksum, indices, -count)
		for _, idx := range indices {
			if f.pure(idx) {
				queue = append(queue, idx)
			}
		}
	}

	res.Complete = f.Empty()
	return res
}

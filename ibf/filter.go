// Package ibf implements an invertible Bloom filter over fixed-size byte
// elements. Two parties build filters of the same dimensions from their
// sets, one subtracts the other, and Decode peels the symmetric difference
// out of the result.
//
// A Filter is not safe for concurrent use.
package ibf

import (
	"fmt"
	"math"

	"github.com/yangl1996/ibf/murmur3"
)

// NumIndices is the number of cells every element is mapped to.
const NumIndices = 3

// Filter is a fixed array of cells. Cell i owns data[i*keysize:(i+1)*keysize],
// hashes[i] and counts[i]. An untouched cell is all zero.
type Filter struct {
	size    int
	keysize int
	hashes  []uint32
	counts  []int32
	data    []byte
}

// New creates an empty filter of size cells holding elements of keysize
// bytes. Both dimensions are raised to 1 if smaller. New panics if the cell
// data of size*keysize bytes cannot be addressed; callers taking dimensions
// from untrusted input must bound them first.
func New(size, keysize int) *Filter {
	if size < 1 {
		size = 1
	}
	if keysize < 1 {
		keysize = 1
	}
	if size > math.MaxInt/keysize {
		panic(fmt.Sprintf("ibf: filter of %d cells x %d bytes is too large", size, keysize))
	}
	return &Filter{
		size:    size,
		keysize: keysize,
		hashes:  make([]uint32, size),
		counts:  make([]int32, size),
		data:    make([]byte, size*keysize),
	}
}

// Size returns the number of cells.
func (f *Filter) Size() int {
	return f.size
}

// KeySize returns the element length in bytes.
func (f *Filter) KeySize() int {
	return f.keysize
}

// Indices hashes element once and returns its checksum and the cells it maps
// to. The indices need not be distinct; a cell chosen twice receives the
// element twice.
func (f *Filter) Indices(element []byte) (uint32, [NumIndices]int) {
	h := murmur3.Sum128(element)
	size := uint32(f.size)
	return h[0], [NumIndices]int{int(h[1] % size), int(h[2] % size), int(h[3] % size)}
}

func (f *Filter) cell(i int) []byte {
	return f.data[i*f.keysize : (i+1)*f.keysize]
}

// update folds element into every listed cell. The caller must have checked
// the element length.
func (f *Filter) update(element []byte, checksum uint32, indices [NumIndices]int, delta int32) {
	for _, idx := range indices {
		c := f.cell(idx)
		for i := range c {
			c[i] ^= element[i]
		}
		f.hashes[idx] ^= checksum
		f.counts[idx] += delta
	}
}

func (f *Filter) apply(element []byte, delta int32) error {
	if len(element) != f.keysize {
		return &KeySizeError{Expected: f.keysize, Got: len(element)}
	}
	checksum, indices := f.Indices(element)
	f.update(element, checksum, indices, delta)
	return nil
}

// Insert adds element to the filter.
func (f *Filter) Insert(element []byte) error {
	return f.apply(element, 1)
}

// Remove takes element out of the filter. Removing an element that was never
// inserted leaves a count of -1 behind, which is how the remote side of a
// difference is represented.
func (f *Filter) Remove(element []byte) error {
	return f.apply(element, -1)
}

// Subtract removes every element of other from f in place. Afterwards f holds
// the elements only f had with positive counts and the elements only other
// had with negative counts. other is not modified.
func (f *Filter) Subtract(other *Filter) error {
	if f.size != other.size || f.keysize != other.keysize {
		return &DimensionError{
			Size:         f.size,
			KeySize:      f.keysize,
			OtherSize:    other.size,
			OtherKeySize: other.keysize,
		}
	}
	for i := range f.data {
		f.data[i] ^= other.data[i]
	}
	for i := 0; i < f.size; i++ {
		f.hashes[i] ^= other.hashes[i]
		f.counts[i] -= other.counts[i]
	}
	return nil
}

// Count returns the signed element count of cell i.
func (f *Filter) Count(i int) int32 {
	return f.counts[i]
}

// HashXor returns the XOR of the checksums folded into cell i.
func (f *Filter) HashXor(i int) uint32 {
	return f.hashes[i]
}

// KeyXor returns a copy of the XOR of the elements folded into cell i.
func (f *Filter) KeyXor(i int) []byte {
	return append([]byte(nil), f.cell(i)...)
}

// Clone returns a deep copy of f.
func (f *Filter) Clone() *Filter {
	c := &Filter{
		size:    f.size,
		keysize: f.keysize,
		hashes:  make([]uint32, f.size),
		counts:  make([]int32, f.size),
		data:    make([]byte, len(f.data)),
	}
	copy(c.hashes, f.hashes)
	copy(c.counts, f.counts)
	copy(c.data, f.data)
	return c
}

// Empty reports whether every cell is all zero.
func (f *Filter) Empty() bool {
	for i := 0; i < f.size; i++ {
		if f.hashes[i] != 0 || f.counts[i] != 0 {
			return false
		}
	}
	for _, b := range f.data {
		if b != 0 {
			return false
		}
	}
	return true
}

// Package workload generates elements and two-sided element sets for
// exercising filters.
package workload

import (
	"encoding/binary"
	"io"

	"golang.org/x/crypto/blake2b"
)

// SaltSize is the size of the key that seeds a Generator.
const SaltSize = 16

// Generator derives fixed-size pseudo-random elements from a salt and an
// index. Two generators with the same salt and key size produce the same
// elements.
type Generator struct {
	keysize int
	salt    [SaltSize]byte
	next    uint64
}

// NewGenerator creates a generator of keysize-byte elements, raising keysize
// to 1 if smaller.
func NewGenerator(keysize int, salt [SaltSize]byte) *Generator {
	if keysize < 1 {
		keysize = 1
	}
	return &Generator{keysize: keysize, salt: salt}
}

// KeySize returns the length of the generated elements.
func (g *Generator) KeySize() int {
	return g.keysize
}

// Element returns the idx-th element: the keyed BLAKE2b XOF of idx, read out
// to the key size.
func (g *Generator) Element(idx uint64) []byte {
	// NewXOF only fails on an oversized key or output length, neither of
	// which can happen here
	x, err := blake2b.NewXOF(uint32(g.keysize), g.salt[:])
	if err != nil {
		panic(err)
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], idx)
	x.Write(b[:])
	out := make([]byte, g.keysize)
	if _, err := io.ReadFull(x, out); err != nil {
		panic(err)
	}
	return out
}

// Next returns the element after the last one Next returned, starting at
// index 0.
func (g *Generator) Next() []byte {
	e := g.Element(g.next)
	g.next += 1
	return e
}

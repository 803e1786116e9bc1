// Package murmur3 implements the 128-bit MurmurHash3 variant for 32-bit
// platforms (x86_128) with a zero seed. The four 32-bit output words are
// part of the filter wire contract, so the mixing must stay bit-exact.
package murmur3

import (
	"encoding/binary"
	"math/bits"
)

const (
	c1 uint32 = 0x239b961b
	c2 uint32 = 0xab0e9789
	c3 uint32 = 0x38b34ae5
	c4 uint32 = 0xa1e38b93
)

// BlockSize is the number of bytes consumed by one round of the body loop.
const BlockSize = 16

func mixK1(k uint32) uint32 {
	k *= c1
	k = bits.RotateLeft32(k, 15)
	return k * c2
}

func mixK2(k uint32) uint32 {
	k *= c2
	k = bits.RotateLeft32(k, 16)
	return k * c3
}

func mixK3(k uint32) uint32 {
	k *= c3
	k = bits.RotateLeft32(k, 17)
	return k * c4
}

func mixK4(k uint32) uint32 {
	k *= c4
	k = bits.RotateLeft32(k, 18)
	return k * c1
}

func fmix32(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}

// Sum128 returns the four 32-bit words of the hash of data. It does not
// retain data.
func Sum128(data []byte) [4]uint32 {
	var h1, h2, h3, h4 uint32

	nblocks := len(data) / BlockSize
	for i := 0; i < nblocks; i++ {
		b := data[i*BlockSize : (i+1)*BlockSize]

		h1 ^= mixK1(binary.LittleEndian.Uint32(b[0:4]))
		h1 = bits.RotateLeft32(h1, 19)
		h1 += h2
		h1 = h1*5 + 0x561ccd1b

		h2 ^= mixK2(binary.LittleEndian.Uint32(b[4:8]))
		h2 = bits.RotateLeft32(h2, 17)
		h2 += h3
		h2 = h2*5 + 0x0bcaa747

		h3 ^= mixK3(binary.LittleEndian.Uint32(b[8:12]))
		h3 = bits.RotateLeft32(h3, 15)
		h3 += h4
		h3 = h3*5 + 0x96cd1c35

		h4 ^= mixK4(binary.LittleEndian.Uint32(b[12:16]))
		h4 = bits.RotateLeft32(h4, 13)
		h4 += h1
		h4 = h4*5 + 0x32ac3b17
	}

	// only the bytes present in the tail are absorbed, each into its own lane
	tail := data[nblocks*BlockSize:]
	var k1, k2, k3, k4 uint32
	switch len(tail) {
	case 15:
		k4 ^= uint32(tail[14]) << 16
		fallthrough
	case 14:
		k4 ^= uint32(tail[13]) << 8
		fallthrough
	case 13:
		k4 ^= uint32(tail[12])
		h4 ^= mixK4(k4)
		fallthrough
	case 12:
		k3 ^= uint32(tail[11]) << 24
		fallthrough
	case 11:
		k3 ^= uint32(tail[10]) << 16
		fallthrough
	case 10:
		k3 ^= uint32(tail[9]) << 8
		fallthrough
	case 9:
		k3 ^= uint32(tail[8])
		h3 ^= mixK3(k3)
		fallthrough
	case 8:
		k2 ^= uint32(tail[7]) << 24
		fallthrough
	case 7:
		k2 ^= uint32(tail[6]) << 16
		fallthrough
	case 6:
		k2 ^= uint32(tail[5]) << 8
		fallthrough
	case 5:
		k2 ^= uint32(tail[4])
		h2 ^= mixK2(k2)
		fallthrough
	case 4:
		k1 ^= uint32(tail[3]) << 24
		fallthrough
	case 3:
		k1 ^= uint32(tail[2]) << 16
		fallthrough
	case 2:
		k1 ^= uint32(tail[1]) << 8
		fallthrough
	case 1:
		k1 ^= uint32(tail[0])
		h1 ^= mixK1(k1)
	}

	length := uint32(len(data))
	h1 ^= length
	h2 ^= length
	h3 ^= length
	h4 ^= length

	h1 += h2 + h3 + h4
	h2 += h1
	h3 += h1
	h4 += h1

	h1 = fmix32(h1)
	h2 = fmix32(h2)
	h3 = fmix32(h3)
	h4 = fmix32(h4)

	h1 += h2 + h3 + h4
	h2 += h1
	h3 += h1
	h4 += h1

	return [4]uint32{h1, h2, h3, h4}
}

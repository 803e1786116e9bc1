package murmur3

import (
	"testing"
)

func TestSumOneBlock(t *testing.T) {
	out := Sum128([]byte("This is 16 bytes"))
	expected := [4]uint32{0xd42f6b0a, 0x9a95f367, 0xdcd64279, 0x98f8e6d5}
	if out != expected {
		t.Errorf("got %08x, expected %08x", out, expected)
	}
}

func TestSumTwoBlocks(t *testing.T) {
	out := Sum128([]byte("This is 32 bytes 'cuz we need it"))
	expected := [4]uint32{0x63ea548f, 0x4c2ed36e, 0xba490a09, 0xedbb8a10}
	if out != expected {
		t.Errorf("got %08x, expected %08x", out, expected)
	}
}

func TestSum15ByteTail(t *testing.T) {
	out := Sum128([]byte("This is 47 bytes so we can have a 15-byte tail."))
	expected := [4]uint32{0x373e6102, 0x3309e580, 0x5babab6c, 0x35d0b798}
	if out != expected {
		t.Errorf("got %08x, expected %08x", out, expected)
	}
}

func TestSumEmpty(t *testing.T) {
	if out := Sum128(nil); out != [4]uint32{} {
		t.Errorf("empty input hashed to %08x", out)
	}
}

// TestSumShortInputs covers inputs that never enter the block loop. With
// fewer than five bytes only lane 1 sees data, yet the cross-add still
// spreads it to the other lanes.
func TestSumShortInputs(t *testing.T) {
	cases := []struct {
		in       string
		expected [4]uint32
	}{
		{"a", [4]uint32{0xa794933c, 0x5556b01b, 0x5556b01b, 0x5556b01b}},
		{"abc", [4]uint32{0x75cdc6d1, 0xa2b006a5, 0xa2b006a5, 0xa2b006a5}},
		{"hello, world", [4]uint32{0x8b21605c, 0xb9b98a1e, 0x93273a83, 0xeb5957c7}},
	}
	for _, c := range cases {
		if out := Sum128([]byte(c.in)); out != c.expected {
			t.Errorf("%q: got %08x, expected %08x", c.in, out, c.expected)
		}
	}
}

// TestSumEveryTailLength hashes the prefixes of one string so that every
// tail length from 1 to 15 follows a full block.
func TestSumEveryTailLength(t *testing.T) {
	src := []byte("This is 47 bytes so we can have a 15-byte tail.")
	expected := map[int][4]uint32{
		17: {0x9b425abe, 0x1273e73b, 0x9225c41a, 0xfa790bca},
		18: {0x948da950, 0xf937fece, 0xecc4da26, 0x4cc03246},
		19: {0x7f4d109f, 0xdb56f4a2, 0xe5a6bc39, 0x39fbc971},
		20: {0x3f37f247, 0x867a6897, 0x766e5968, 0xced5dcd8},
		21: {0x7942e311, 0x6dc2b4ae, 0x0e80aa8a, 0xf76dc386},
		22: {0xf61d8831, 0xd252623e, 0xc09ddb00, 0xf6b97d7e},
		23: {0x7f36fe08, 0xbbe981a6, 0x0558946d, 0x5b9ad3dd},
		24: {0x6a6fc91d, 0xd467bb3f, 0x2bc4d7d4, 0x4907a966},
		25: {0xccd584ac, 0x20efda9c, 0xf5fa150e, 0x7b253f30},
		26: {0x2f5b7755, 0xa66ebffe, 0x9918a49b, 0x5517c342},
		27: {0xa19e608e, 0xe78b3bf5, 0x88cb4445, 0xd0f89bca},
		28: {0xba715491, 0x6b5d9740, 0xdee1ce0e, 0x9563f4ff},
		29: {0x8218b998, 0xabfde23a, 0x047da0c8, 0xa179f5d1},
		30: {0xd0db4b06, 0x943e28fa, 0x909f8038, 0x34c76881},
		31: {0x28115c12, 0xf9f8099e, 0x6569e515, 0xbce73055},
	}
	for n, e := range expected {
		if out := Sum128(src[:n]); out != e {
			t.Errorf("prefix of %d bytes: got %08x, expected %08x", n, out, e)
		}
	}
}

func TestSumDoesNotModifyInput(t *testing.T) {
	in := []byte("This is 32 bytes 'cuz we need it")
	cp := append([]byte(nil), in...)
	Sum128(in)
	if string(in) != string(cp) {
		t.Error("input modified by hashing")
	}
}

func BenchmarkSum128(b *testing.B) {
	data := make([]byte, 32)
	for i := range data {
		data[i] = byte(i % 256)
	}
	b.ReportAllocs()
	b.SetBytes(32)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Sum128(data)
	}
}

package main

import (
	"fmt"
	"testing"

	"github.com/yangl1996/ibf/murmur3"
)

func BenchmarkHash(b *testing.B) {
	lens := []int{4, 8, 16, 32, 64, 128, 256, 512, 1024, 2048, 4096}
	for _, l := range lens {
		b.Run(fmt.Sprintf("N=%d", l), func(b *testing.B) {
			data := make([]byte, l)
			b.SetBytes(int64(l))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				murmur3.Sum128(data)
			}
		})
	}
}

func TestSymbolsDistinct(t *testing.T) {
	data := testSymbols(1000)
	seen := make(map[string]struct{})
	for _, d := range data {
		if len(d) != testSymbolSize {
			t.Fatalf("symbol of %d bytes", len(d))
		}
		seen[string(d)] = struct{}{}
	}
	if len(seen) != 1000 {
		t.Error("symbols are not distinct")
	}
}

package ibf

import (
	"encoding/binary"
)

// cellTrailerSize is the wire size of a cell's checksum and count.
const cellTrailerSize = 8

// CellSize returns the number of bytes one cell occupies on the wire.
func CellSize(keysize int) int {
	return keysize + cellTrailerSize
}

// MarshalBinary implements BinaryMarshaler. Cells are written in index order,
// each as its key bytes, then its checksum as a little-endian uint32, then its
// count as a little-endian int32. The dimensions are not included and must be
// agreed on separately. The error is always nil.
func (f *Filter) MarshalBinary() ([]byte, error) {
	cs := CellSize(f.keysize)
	b := make([]byte, f.size*cs)
	for i := 0; i < f.size; i++ {
		rec := b[i*cs : (i+1)*cs]
		copy(rec[:f.keysize], f.cell(i))
		binary.LittleEndian.PutUint32(rec[f.keysize:f.keysize+4], f.hashes[i])
		binary.LittleEndian.PutUint32(rec[f.keysize+4:], uint32(f.counts[i]))
	}
	return b, nil
}

// UnmarshalBinary implements BinaryUnmarshaler. f must already have the
// dimensions the data was marshaled with; its cells are overwritten. On a
// length mismatch f is left unmodified.
func (f *Filter) UnmarshalBinary(data []byte) error {
	cs := CellSize(f.keysize)
	if len(data) != f.size*cs {
		return &CellDataSizeError{Expected: f.size * cs, Got: len(data)}
	}
	for i := 0; i < f.size; i++ {
		rec := data[i*cs : (i+1)*cs]
		copy(f.cell(i), rec[:f.keysize])
		f.hashes[i] = binary.LittleEndian.Uint32(rec[f.keysize : f.keysize+4])
		f.counts[i] = int32(binary.LittleEndian.Uint32(rec[f.keysize+4:]))
	}
	return nil
}

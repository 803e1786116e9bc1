package ibf

import (
	"fmt"
)

// KeySizeError is returned when an element does not match the key size of
// the filter it is inserted into or removed from.
type KeySizeError struct {
	Expected int
	Got      int
}

func (e *KeySizeError) Error() string {
	return fmt.Sprintf("element is %d bytes, filter key size is %d", e.Got, e.Expected)
}

// DimensionError is returned when subtracting filters whose size or key size
// differ.
type DimensionError struct {
	Size, KeySize           int
	OtherSize, OtherKeySize int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("cannot subtract filter of %d cells x %d bytes from filter of %d cells x %d bytes",
		e.OtherSize, e.OtherKeySize, e.Size, e.KeySize)
}

// CellDataSizeError is returned when unmarshaling cell data whose length does
// not match the dimensions of the receiving filter.
type CellDataSizeError struct {
	Expected int
	Got      int
}

func (e *CellDataSizeError) Error() string {
	return fmt.Sprintf("incorrect cell data size: expected %d bytes, got %d", e.Expected, e.Got)
}

package main

import (
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/yangl1996/ibf/ibf"
)

// Request carries one side's filter. Size and KeySize travel ahead of the
// cells so the receiver can rebuild the filter.
type Request struct {
	Size       int
	KeySize    int
	Cells      []byte
	Compressed bool
	Checksum   uint64 // xxhash64 of the uncompressed cells
}

// Response reports the outcome of decoding the subtracted filter.
type Response struct {
	Complete bool
	Missing  [][]byte // elements only the responder holds
	Wanted   int      // number of elements only the requester holds
	Error    string
}

// ChecksumError catches cell data that does not match the checksum sent
// with it.
type ChecksumError struct{}

func (e ChecksumError) Error() string {
	return "incorrect cell data checksum"
}

var (
	encoderPool = sync.Pool{
		New: func() any {
			enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
			return enc
		},
	}

)

// newDecoder returns a zstd decoder that refuses to produce more than
// maxBytes of output.
func newDecoder(maxBytes int) (*zstd.Decoder, error) {
	if maxBytes < 1 {
		maxBytes = 1
	}
	return zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecoderMaxMemory(uint64(maxBytes)))
}

func newRequest(f *ibf.Filter, compress bool) (Request, error) {
	cells, err := f.MarshalBinary()
	if err != nil {
		return Request{}, err
	}
	req := Request{
		Size:     f.Size(),
		KeySize:  f.KeySize(),
		Checksum: xxhash.Sum64(cells),
	}
	if compress {
		enc := encoderPool.Get().(*zstd.Encoder)
		defer encoderPool.Put(enc)
		compressed := enc.EncodeAll(cells, nil)
		// keep the raw cells when compression does not help
		if len(compressed) < len(cells) {
			req.Cells = compressed
			req.Compressed = true
			return req, nil
		}
	}
	req.Cells = cells
	return req, nil
}

// filter rebuilds the filter carried by the request. Compressed cells are
// inflated with dec, which bounds their size.
func (r *Request) filter(dec *zstd.Decoder) (*ibf.Filter, error) {
	if r.Size < 1 || r.KeySize < 1 {
		return nil, fmt.Errorf("invalid filter dimensions %d cells x %d bytes", r.Size, r.KeySize)
	}
	cells := r.Cells
	if r.Compressed {
		var err error
		cells, err = dec.DecodeAll(r.Cells, nil)
		if err != nil {
			return nil, fmt.Errorf("decompressing cells: %w", err)
		}
	}
	// divide rather than multiply so that peer-supplied dimensions cannot
	// overflow
	cs := ibf.CellSize(r.KeySize)
	if r.KeySize > len(cells) || len(cells)%cs != 0 || len(cells)/cs != r.Size {
		return nil, fmt.Errorf("%d bytes of cell data do not hold %d cells x %d bytes", len(cells), r.Size, r.KeySize)
	}
	if xxhash.Sum64(cells) != r.Checksum {
		return nil, ChecksumError{}
	}
	f := ibf.New(r.Size, r.KeySize)
	if err := f.UnmarshalBinary(cells); err != nil {
		return nil, err
	}
	return f, nil
}

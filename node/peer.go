package main

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/DataDog/sketches-go/ddsketch"
	"github.com/klauspost/compress/zstd"
	"github.com/yangl1996/ibf/ibf"
)

// ErrGaveUp is returned when the difference does not decode even with the
// largest filter the requester is willing to send.
var ErrGaveUp = errors.New("difference did not decode within the maximum filter size")

func buildFilter(set [][]byte, size, keysize int) (*ibf.Filter, error) {
	f := ibf.New(size, keysize)
	for _, e := range set {
		if err := f.Insert(e); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Outcome summarizes a finished reconciliation from the requester's side.
type Outcome struct {
	Missing [][]byte // elements the peer holds and we lack
	Wanted  int      // number of our elements the peer lacks
	Cells   int      // size of the filter that decoded
	Rounds  int
}

type requester struct {
	tx       *gob.Encoder
	rx       *gob.Decoder
	set      [][]byte
	keysize  int
	cells    int
	maxCells int
	compress bool
	rtt      *ddsketch.DDSketch
}

func newRequester(conn io.ReadWriter, set [][]byte, keysize, cells, maxCells int, compress bool) *requester {
	sketch, err := ddsketch.NewDefaultDDSketch(0.01)
	if err != nil {
		panic(err)
	}
	return &requester{
		tx:       gob.NewEncoder(conn),
		rx:       gob.NewDecoder(conn),
		set:      set,
		keysize:  keysize,
		cells:    cells,
		maxCells: maxCells,
		compress: compress,
		rtt:      sketch,
	}
}

// reconcile sends our filter and doubles its size after every partial
// decode until the peer decodes the difference or maxCells is exceeded.
func (r *requester) reconcile() (Outcome, error) {
	out := Outcome{}
	for cells := r.cells; cells <= r.maxCells; cells *= 2 {
		out.Rounds += 1
		f, err := buildFilter(r.set, cells, r.keysize)
		if err != nil {
			return out, err
		}
		req, err := newRequest(f, r.compress)
		if err != nil {
			return out, err
		}
		start := time.Now()
		if err := r.tx.Encode(req); err != nil {
			return out, fmt.Errorf("sending filter: %w", err)
		}
		resp := Response{}
		if err := r.rx.Decode(&resp); err != nil {
			return out, fmt.Errorf("receiving response: %w", err)
		}
		r.rtt.Add(float64(time.Since(start).Microseconds()))
		if resp.Error != "" {
			return out, fmt.Errorf("peer rejected filter: %s", resp.Error)
		}
		if resp.Complete {
			out.Missing = resp.Missing
			out.Wanted = resp.Wanted
			out.Cells = cells
			return out, nil
		}
		log.Printf("partial decode with %d cells (%d bytes sent), retrying\n", cells, len(req.Cells))
	}
	return out, ErrGaveUp
}

type responder struct {
	peerId   string
	tx       *gob.Encoder
	rx       *gob.Decoder
	set      [][]byte
	keysize  int
	maxCells int
	dec      *zstd.Decoder
}

func newResponder(peerId string, conn io.ReadWriter, set [][]byte, keysize, maxCells int) *responder {
	// compressed filters may not inflate past the largest one we accept
	dec, err := newDecoder(maxCells * ibf.CellSize(keysize))
	if err != nil {
		panic(err)
	}
	return &responder{
		peerId:   peerId,
		tx:       gob.NewEncoder(conn),
		rx:       gob.NewDecoder(conn),
		set:      set,
		keysize:  keysize,
		maxCells: maxCells,
		dec:      dec,
	}
}

// respond subtracts the requester's filter from ours and decodes the result.
// Problems with the request are reported to the requester in the response.
func (r *responder) respond(req *Request) Response {
	if req.Size < 1 || req.Size > r.maxCells {
		return Response{Error: fmt.Sprintf("filter of %d cells is outside the accepted range of 1 to %d", req.Size, r.maxCells)}
	}
	if req.KeySize != r.keysize {
		return Response{Error: fmt.Sprintf("filter key size is %d bytes, expected %d", req.KeySize, r.keysize)}
	}
	remote, err := req.filter(r.dec)
	if err != nil {
		return Response{Error: err.Error()}
	}
	local, err := buildFilter(r.set, req.Size, r.keysize)
	if err != nil {
		return Response{Error: err.Error()}
	}
	if err := local.Subtract(remote); err != nil {
		return Response{Error: err.Error()}
	}
	d := local.Decode()
	if !d.Complete {
		return Response{}
	}
	return Response{Complete: true, Missing: d.Local, Wanted: len(d.Remote)}
}

// serve answers requests until the connection is closed.
func (r *responder) serve() error {
	defer r.dec.Close()
	for {
		req := Request{}
		if err := r.rx.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				return nil
			}
			return err
		}
		resp := r.respond(&req)
		if resp.Error != "" {
			log.Printf("peer %s sent a bad filter: %s\n", r.peerId, resp.Error)
		} else {
			log.Printf("peer %s filter of %d cells complete %v\n", r.peerId, req.Size, resp.Complete)
		}
		if err := r.tx.Encode(resp); err != nil {
			return err
		}
	}
}

package main

import (
	"errors"
	"math/rand"
	"strconv"
	"strings"

	"github.com/yangl1996/soliton"
)

type diffPicker interface {
	generate() int
}

// sweep steps through min..max, one value per call, wrapping around.
type sweep struct {
	min, max int
	next     int
}

func newSweep(min, max int) *sweep {
	return &sweep{min, max, min}
}

func (s *sweep) generate() int {
	d := s.next
	s.next += 1
	if s.next > s.max {
		s.next = s.min
	}
	return d
}

type solitonPicker struct {
	dist *soliton.Soliton
}

func (s *solitonPicker) generate() int {
	return int(s.dist.Uint64())
}

// NewDiffPicker parses a difference size distribution. The empty string
// selects the sweep from min to max.
func NewDiffPicker(s string, rng *rand.Rand, min, max int) (diffPicker, error) {
	ds := strings.ReplaceAll(s, " ", "")
	switch {
	case ds == "":
		if min < 0 || max < min {
			return nil, errors.New("difference sweep range is empty")
		}
		return newSweep(min, max), nil
	case strings.HasPrefix(ds, "rs("):
		params := strings.Split(strings.TrimPrefix(strings.TrimSuffix(ds, ")"), "rs("), ",")
		if len(params) != 3 {
			return nil, errors.New("incorrect number of parameters for robust soliton")
		}
		k, err := strconv.Atoi(params[0])
		if err != nil {
			return nil, err
		}
		c, err := strconv.ParseFloat(params[1], 64)
		if err != nil {
			return nil, err
		}
		delta, err := strconv.ParseFloat(params[2], 64)
		if err != nil {
			return nil, err
		}
		if k <= 0 || c <= 0 || delta <= 0 || delta >= 1 {
			return nil, errors.New("parameter out of range for robust soliton")
		}
		return &solitonPicker{soliton.NewRobustSoliton(rng, uint64(k), c, delta)}, nil
	default:
		return nil, errors.New("undefined difference distribution")
	}
}

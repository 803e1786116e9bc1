package workload

import (
	"encoding/binary"
	"errors"
	"math/rand"

	"github.com/dchest/siphash"
)

// maxRejections bounds how many candidates in a row may be rejected before
// NewScenario gives up.
const maxRejections = 100000

// ErrExhausted is returned when the generator cannot produce enough distinct
// acceptable elements, e.g. because the key size is too small for the
// requested set sizes.
var ErrExhausted = errors.New("generator exhausted before the scenario was filled")

// Scenario is a pair of element sets: Common is held by both sides, LocalOnly
// and RemoteOnly by one side each. No element appears twice.
type Scenario struct {
	Common     [][]byte
	LocalOnly  [][]byte
	RemoteOnly [][]byte
}

// NewScenario draws common shared elements and diff differing elements from
// gen, assigning each differing element to the local or the remote side with
// equal probability using rng. If accept is not nil, candidates for which it
// returns false are skipped.
func NewScenario(rng *rand.Rand, gen *Generator, common, diff int, accept func([]byte) bool) (Scenario, error) {
	k0 := binary.LittleEndian.Uint64(gen.salt[0:8])
	k1 := binary.LittleEndian.Uint64(gen.salt[8:16])
	seen := make(map[uint64]struct{})
	draw := func() ([]byte, error) {
		for tries := 0; tries < maxRejections; tries++ {
			e := gen.Next()
			if accept != nil && !accept(e) {
				continue
			}
			fp := siphash.Hash(k0, k1, e)
			if _, there := seen[fp]; there {
				continue
			}
			seen[fp] = struct{}{}
			return e, nil
		}
		return nil, ErrExhausted
	}

	s := Scenario{}
	for i := 0; i < common; i++ {
		e, err := draw()
		if err != nil {
			return s, err
		}
		s.Common = append(s.Common, e)
	}
	for i := 0; i < diff; i++ {
		e, err := draw()
		if err != nil {
			return s, err
		}
		if rng.Float64() < 0.5 {
			s.LocalOnly = append(s.LocalOnly, e)
		} else {
			s.RemoteOnly = append(s.RemoteOnly, e)
		}
	}
	return s, nil
}

// Local returns every element the local side holds.
func (s Scenario) Local() [][]byte {
	return append(append([][]byte{}, s.Common...), s.LocalOnly...)
}

// Remote returns every element the remote side holds.
func (s Scenario) Remote() [][]byte {
	return append(append([][]byte{}, s.Common...), s.RemoteOnly...)
}

// Set indexes elements by content for membership checks.
type Set map[string]struct{}

// NewSet builds a Set from elements.
func NewSet(elements [][]byte) Set {
	s := make(Set, len(elements))
	for _, e := range elements {
		s[string(e)] = struct{}{}
	}
	return s
}

// Contains reports whether e is in s.
func (s Set) Contains(e []byte) bool {
	_, there := s[string(e)]
	return there
}

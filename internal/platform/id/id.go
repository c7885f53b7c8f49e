package id

import (
	"math"
	"sync/atomic"
)

// Generator hands out workout identifiers.
type Generator interface {
	Next() int64
	Reserve(taken int64)
	Reset()
}

// Sequence counts up from 0. The zero value is ready to use.
type Sequence struct {
	next atomic.Int64
}

func NewSequence() *Sequence {
	return &Sequence{}
}

func (s *Sequence) Next() int64 {
	return s.next.Add(1) - 1
}

// Reserve guarantees every later Next is greater than taken. Negative ids
// are ignored and the cursor never moves past math.MaxInt64.
func (s *Sequence) Reserve(taken int64) {
	if taken < 0 {
		return
	}
	if taken == math.MaxInt64 {
		taken--
	}
	for {
		cur := s.next.Load()
		if cur > taken {
			return
		}
		if s.next.CompareAndSwap(cur, taken+1) {
			return
		}
	}
}

func (s *Sequence) Reset() {
	s.next.Store(0)
}

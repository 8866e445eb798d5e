package dataframe

import (
	"github.com/paveg/nestframe/internal/common"
)

const (
	hashIndexLoadFactor     = 0.75
	hashIndexGrowthFactor   = 2
	hashIndexCapacityFactor = 1.3
	hashIndexMinCapacity    = 8
)

// tupleIndex maps key tuples to row lists, remembering first-seen order.
// Buckets are addressed by xxhash; tuples inside a bucket are compared with
// common.EqualValues so NaN keys group together.
type tupleIndex struct {
	buckets  [][]int // entry ids per bucket
	entries  []tupleEntry
	capacity int
}

type tupleEntry struct {
	hash  uint64
	tuple []any
	rows  []int
}

func newTupleIndex(estimatedSize int) *tupleIndex {
	capacity := nextPowerOfTwo(max(hashIndexMinCapacity, int(float64(estimatedSize)*hashIndexCapacityFactor)))
	return &tupleIndex{
		buckets:  make([][]int, capacity),
		capacity: capacity,
	}
}

// add records row under tuple and returns the entry id and whether the
// tuple was new.
func (ti *tupleIndex) add(tuple []any, row int) (int, bool) {
	h := common.HashTuple(tuple)
	if id, ok := ti.find(h, tuple); ok {
		ti.entries[id].rows = append(ti.entries[id].rows, row)
		return id, false
	}
	id := len(ti.entries)
	ti.entries = append(ti.entries, tupleEntry{hash: h, tuple: tuple, rows: []int{row}})
	b := ti.bucket(h)
	ti.buckets[b] = append(ti.buckets[b], id)
	if float64(len(ti.entries)) > float64(ti.capacity)*hashIndexLoadFactor {
		ti.resize()
	}
	return id, true
}

// get returns the rows recorded for tuple.
func (ti *tupleIndex) get(tuple []any) ([]int, bool) {
	id, ok := ti.find(common.HashTuple(tuple), tuple)
	if !ok {
		return nil, false
	}
	return ti.entries[id].rows, true
}

// lookup returns the entry id for tuple.
func (ti *tupleIndex) lookup(tuple []any) (int, bool) {
	return ti.find(common.HashTuple(tuple), tuple)
}

func (ti *tupleIndex) len() int { return len(ti.entries) }

func (ti *tupleIndex) find(h uint64, tuple []any) (int, bool) {
	for _, id := range ti.buckets[ti.bucket(h)] {
		e := ti.entries[id]
		if e.hash == h && tuplesEqual(e.tuple, tuple) {
			return id, true
		}
	}
	return 0, false
}

func (ti *tupleIndex) bucket(h uint64) int {
	//nolint:gosec // capacity is a positive power of two
	return int(h & uint64(ti.capacity-1))
}

// resize doubles the capacity and rehashes all entries.
func (ti *tupleIndex) resize() {
	ti.capacity *= hashIndexGrowthFactor
	ti.buckets = make([][]int, ti.capacity)
	for id, e := range ti.entries {
		b := ti.bucket(e.hash)
		ti.buckets[b] = append(ti.buckets[b], id)
	}
}

func tuplesEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !common.EqualValues(a[i], b[i]) {
			return false
		}
	}
	return true
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

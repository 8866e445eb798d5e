package dataframe

import (
	"slices"

	"github.com/paveg/nestframe/internal/common"
	"github.com/paveg/nestframe/internal/config"
)

// SortColumnDescriptor orders rows by one selection. A selected group
// orders by its leaves in pre-order. Null placement does not depend on the
// direction.
type SortColumnDescriptor struct {
	Column     Selector
	Descending bool
	NullsLast  bool
}

// Asc sorts ascending with the configured null placement.
func Asc(sel Selector) SortColumnDescriptor {
	return SortColumnDescriptor{Column: sel, NullsLast: config.GetGlobalConfig().DefaultNullsLast}
}

// Desc sorts descending with the configured null placement.
func Desc(sel Selector) SortColumnDescriptor {
	return SortColumnDescriptor{Column: sel, Descending: true, NullsLast: config.GetGlobalConfig().DefaultNullsLast}
}

type sortKey struct {
	column     Column
	descending bool
	nullsLast  bool
}

// SortBy orders rows lexicographically by the descriptors. The sort is
// stable.
func (df *DataFrame) SortBy(descriptors ...SortColumnDescriptor) (*DataFrame, error) {
	order, err := df.sortOrder(descriptors)
	if err != nil {
		return nil, err
	}
	return df.Slice(order), nil
}

func (df *DataFrame) sortOrder(descriptors []SortColumnDescriptor) ([]int, error) {
	var keys []sortKey
	for _, d := range descriptors {
		cols, err := df.Resolve(d.Column)
		if err != nil {
			return nil, err
		}
		for _, c := range ListDFS(cols, false) {
			keys = append(keys, sortKey{column: c.Column, descending: d.Descending, nullsLast: d.NullsLast})
		}
	}

	order := rangeIndices(0, df.nrow)
	slices.SortStableFunc(order, func(i, j int) int {
		for _, k := range keys {
			if c := k.compare(i, j); c != 0 {
				return c
			}
		}
		return 0
	})
	return order, nil
}

// SortByNames sorts ascending by top-level columns.
func (df *DataFrame) SortByNames(names ...string) (*DataFrame, error) {
	descriptors := make([]SortColumnDescriptor, len(names))
	for i, n := range names {
		descriptors[i] = Asc(Col(n))
	}
	return df.SortBy(descriptors...)
}

func (k sortKey) compare(i, j int) int {
	a, b := k.column.Get(i), k.column.Get(j)
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		if k.nullsLast {
			return 1
		}
		return -1
	case b == nil:
		if k.nullsLast {
			return -1
		}
		return 1
	}

	var c int
	if fa, ok := a.(*DataFrame); ok {
		c = common.CompareOrdered(fa.Len(), b.(*DataFrame).Len())
	} else {
		c = common.CompareValues(a, b)
	}
	if k.descending {
		return -c
	}
	return c
}

package dataframe

import (
	"context"
	"log/slog"

	"github.com/paveg/nestframe/internal/common"
	"github.com/paveg/nestframe/internal/config"
	dferrors "github.com/paveg/nestframe/internal/errors"
	"github.com/paveg/nestframe/internal/logging"
	"github.com/paveg/nestframe/internal/monitoring"
	"github.com/paveg/nestframe/internal/parallel"
	"github.com/paveg/nestframe/internal/types"
)

// Aggregator reduces one group frame to one value. A zero Type is inferred
// from the produced values.
type Aggregator struct {
	Name   string
	Reduce func(group *DataFrame) (any, error)
	Type   types.Type
}

// CountOf counts rows.
func CountOf(name string) Aggregator {
	return Aggregator{
		Name:   name,
		Reduce: func(g *DataFrame) (any, error) { return g.Len(), nil },
		Type:   types.TypeOf[int](),
	}
}

// SumOf sums the non-null values of one numeric column. Integer values
// sum to int64, everything else to float64.
func SumOf(sel Selector, name string) Aggregator {
	return columnAggregator("sum", sel, name, func(c Column) (any, error) {
		ints, floats, allInts, err := numericValues("sum", c)
		if err != nil {
			return nil, err
		}
		// without values the column type decides between 0 and 0.0
		if allInts && (len(ints) > 0 || c.Type().Class().IsSubclassOf(types.IntegerClass)) {
			return common.Sum(ints), nil
		}
		return common.Sum(floats), nil
	})
}

// MeanOf averages the non-null values of one numeric column. A column
// without values gives null.
func MeanOf(sel Selector, name string) Aggregator {
	return columnAggregator("mean", sel, name, func(c Column) (any, error) {
		_, floats, _, err := numericValues("mean", c)
		if err != nil || len(floats) == 0 {
			return nil, err
		}
		return common.Sum(floats) / float64(len(floats)), nil
	})
}

// MinOf returns the smallest non-null value.
func MinOf(sel Selector, name string) Aggregator {
	return columnAggregator("min", sel, name, func(c Column) (any, error) {
		return extremum(c, -1), nil
	})
}

// MaxOf returns the largest non-null value.
func MaxOf(sel Selector, name string) Aggregator {
	return columnAggregator("max", sel, name, func(c Column) (any, error) {
		return extremum(c, 1), nil
	})
}

// FirstOf returns the value in the first row, or null for an empty group.
func FirstOf(sel Selector, name string) Aggregator {
	return columnAggregator("first", sel, name, func(c Column) (any, error) {
		if c.Len() == 0 {
			return nil, nil
		}
		return c.Get(0), nil
	})
}

// LastOf returns the value in the last row, or null for an empty group.
func LastOf(sel Selector, name string) Aggregator {
	return columnAggregator("last", sel, name, func(c Column) (any, error) {
		if c.Len() == 0 {
			return nil, nil
		}
		return c.Get(c.Len() - 1), nil
	})
}

// ValuesOf collects every value of the group into a list cell.
func ValuesOf(sel Selector, name string) Aggregator {
	return columnAggregator("values", sel, name, func(c Column) (any, error) {
		return c.Values(), nil
	})
}

func columnAggregator(op string, sel Selector, name string, fn func(Column) (any, error)) Aggregator {
	return Aggregator{
		Name: name,
		Reduce: func(g *DataFrame) (any, error) {
			c, err := resolveSingle(op, ResolutionContext{Frame: g}, sel)
			if err != nil {
				return nil, err
			}
			return fn(c.Column)
		},
	}
}

func numericValues(op string, c Column) (ints []int64, floats []float64, allInts bool, err error) {
	allInts = true
	for i := range c.Len() {
		v := c.Get(i)
		if v == nil {
			continue
		}
		if !common.IsNumericValue(v) {
			return nil, nil, false, dferrors.NewTypeMismatchError(op, c.Name(),
				"expected numeric values, got "+types.TypeOfValue(v).String())
		}
		f, _ := common.ToFloat64(v)
		floats = append(floats, f)
		if allInts = allInts && common.IsIntegerValue(v); allInts {
			n, _ := common.ToInt64(v)
			ints = append(ints, n)
		}
	}
	return ints, floats, allInts, nil
}

func extremum(c Column, sign int) any {
	var best any
	for i := range c.Len() {
		v := c.Get(i)
		if v == nil {
			continue
		}
		if best == nil || common.CompareValues(v, best)*sign > 0 {
			best = v
		}
	}
	return best
}

// Aggregate returns the keys followed by one column per aggregator.
func (g *GroupedDataFrame) Aggregate(aggs ...Aggregator) (*DataFrame, error) {
	logging.L().Debug("aggregate started", slog.Int("groups", g.Len()), slog.Int("aggregators", len(aggs)))
	defer monitoring.Track("aggregate", g.Len())()

	pool := parallel.FromConfig(config.GetGlobalConfig())
	columns := make([]Column, 0, len(aggs))
	for _, agg := range aggs {
		values, err := parallel.Map(context.Background(), pool, g.groups.frames,
			func(_ int, f *DataFrame) (any, error) { return agg.Reduce(f) })
		if err != nil {
			return nil, err
		}
		columns = append(columns, BuildColumn(agg.Name, values, agg.Type))
	}
	return g.keys.Add(columns...)
}

// Count adds the group sizes.
func (g *GroupedDataFrame) Count(name string) (*DataFrame, error) {
	return g.Aggregate(CountOf(name))
}

// Sum adds the per-group sum of one column.
func (g *GroupedDataFrame) Sum(sel Selector, name string) (*DataFrame, error) {
	return g.Aggregate(SumOf(sel, name))
}

// Mean adds the per-group mean of one column.
func (g *GroupedDataFrame) Mean(sel Selector, name string) (*DataFrame, error) {
	return g.Aggregate(MeanOf(sel, name))
}

// Min adds the per-group minimum of one column.
func (g *GroupedDataFrame) Min(sel Selector, name string) (*DataFrame, error) {
	return g.Aggregate(MinOf(sel, name))
}

// Max adds the per-group maximum of one column.
func (g *GroupedDataFrame) Max(sel Selector, name string) (*DataFrame, error) {
	return g.Aggregate(MaxOf(sel, name))
}

// First adds the first value of one column per group.
func (g *GroupedDataFrame) First(sel Selector, name string) (*DataFrame, error) {
	return g.Aggregate(FirstOf(sel, name))
}

// Last adds the last value of one column per group.
func (g *GroupedDataFrame) Last(sel Selector, name string) (*DataFrame, error) {
	return g.Aggregate(LastOf(sel, name))
}

// Values adds the list of values of one column per group.
func (g *GroupedDataFrame) Values(sel Selector, name string) (*DataFrame, error) {
	return g.Aggregate(ValuesOf(sel, name))
}

package dataframe

import (
	"reflect"

	dferrors "github.com/paveg/nestframe/internal/errors"
	"github.com/paveg/nestframe/internal/types"
)

// GatherOptions configures Gather. Zero values give a "key" and a "value"
// column with names and values unchanged.
type GatherOptions struct {
	KeyName        string
	ValueName      string
	NameTransform  func(name string) any
	ValueTransform func(value any) (any, error)
	// Where drops values before emission.
	Where func(value any) bool
	// DropNulls drops null values before emission.
	DropNulls bool
	// ExplodeLists emits one row per element of list values, undoing the
	// list cells a default pivot produces for repeated index tuples.
	ExplodeLists bool
}

// Gather turns the selected columns into key/value rows. Every source row
// is emitted once per gathered value, followed by the key and value columns;
// all other columns pass through with their structure kept.
func (df *DataFrame) Gather(sel Selector, opts GatherOptions) (*DataFrame, error) {
	cols, err := df.Resolve(sel)
	if err != nil {
		return nil, err
	}
	cols = topMost(cols)
	if opts.KeyName == "" {
		opts.KeyName = "key"
	}
	if opts.ValueName == "" {
		opts.ValueName = "value"
	}

	keyNames := make([]any, len(cols))
	for i, c := range cols {
		if opts.NameTransform != nil {
			keyNames[i] = opts.NameTransform(c.Name())
		} else {
			keyNames[i] = c.Name()
		}
	}

	var sources []int
	var keys, values []any
	emit := func(row int, key, value any) error {
		if opts.DropNulls && value == nil {
			return nil
		}
		if opts.Where != nil && !opts.Where(value) {
			return nil
		}
		if opts.ValueTransform != nil {
			var err error
			if value, err = opts.ValueTransform(value); err != nil {
				return dferrors.NewInternalError("gather", err)
			}
		}
		sources = append(sources, row)
		keys = append(keys, key)
		values = append(values, value)
		return nil
	}

	for i := range df.nrow {
		for j, c := range cols {
			v := c.Column.Get(i)
			if opts.ExplodeLists {
				if list, ok := listElements(v); ok {
					for _, e := range list {
						if err := emit(i, keyNames[j], e); err != nil {
							return nil, err
						}
					}
					continue
				}
			}
			if err := emit(i, keyNames[j], v); err != nil {
				return nil, err
			}
		}
	}

	pass := withoutColumns(df, cols).Slice(sources)
	return pass.Add(
		BuildColumn(opts.KeyName, keys, types.Type{}),
		BuildColumn(opts.ValueName, values, types.Type{}),
	)
}

// listElements unpacks slice values other than []byte.
func listElements(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if list, ok := v.([]any); ok {
		return list, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

package dataframe

import (
	"log/slog"
	"slices"

	"github.com/paveg/nestframe/internal/colpath"
	"github.com/paveg/nestframe/internal/common"
	"github.com/paveg/nestframe/internal/config"
	dferrors "github.com/paveg/nestframe/internal/errors"
	"github.com/paveg/nestframe/internal/logging"
	"github.com/paveg/nestframe/internal/monitoring"
	"github.com/paveg/nestframe/internal/types"
)

// JoinType represents the type of join operation
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	FullOuterJoin
	// ExcludeJoin keeps the left rows without a match and drops the right columns.
	ExcludeJoin
)

// AllowLeftNulls reports whether unmatched right rows are kept with null
// left columns.
func (t JoinType) AllowLeftNulls() bool { return t == RightJoin || t == FullOuterJoin }

// AllowRightNulls reports whether unmatched left rows are kept with null
// right columns.
func (t JoinType) AllowRightNulls() bool {
	return t == LeftJoin || t == FullOuterJoin || t == ExcludeJoin
}

func (t JoinType) String() string {
	switch t {
	case InnerJoin:
		return "inner"
	case LeftJoin:
		return "left"
	case RightJoin:
		return "right"
	case FullOuterJoin:
		return "outer"
	case ExcludeJoin:
		return "exclude"
	default:
		return "unknown"
	}
}

// ColumnMatch pairs a left key selector with a right key selector. Both
// must resolve to the same number of columns.
type ColumnMatch struct {
	Left  Selector
	Right Selector
}

// JoinOptions specifies parameters for join operations
type JoinOptions struct {
	Type      JoinType
	LeftKey   string   // Single join key for left DataFrame
	RightKey  string   // Single join key for right DataFrame
	LeftKeys  []string // Multiple join keys for left DataFrame
	RightKeys []string // Multiple join keys for right DataFrame
	// On takes precedence over the name based keys.
	On []ColumnMatch
}

type keyPair struct {
	left, right ColumnWithPath
}

// Join matches rows of df and right on equal key tuples. Without keys the
// columns sharing a top-level name are used; without any common column the
// result is the cross product. Key columns appear once, on the left side;
// the remaining right columns follow, renamed when their name is taken.
func (df *DataFrame) Join(right *DataFrame, options *JoinOptions) (*DataFrame, error) {
	if options == nil {
		options = &JoinOptions{}
	}
	pairs, err := joinKeyPairs(df, right, options)
	if err != nil {
		return nil, err
	}

	logging.L().Debug("join started",
		slog.String("type", options.Type.String()),
		slog.Int("left", df.nrow), slog.Int("right", right.nrow), slog.Int("keys", len(pairs)))

	defer monitoring.Track("join", df.nrow+right.nrow)()

	leftIndices, rightIndices := matchRows(df, right, pairs, options.Type)
	out, err := buildJoinResult(df, right, pairs, leftIndices, rightIndices, options.Type)
	if err != nil {
		return nil, err
	}

	logging.L().Debug("join completed", slog.Int("rows", out.nrow), slog.Int("columns", out.Width()))
	return out, nil
}

// InnerJoin is Join with InnerJoin on the given key names.
func (df *DataFrame) InnerJoin(right *DataFrame, keys ...string) (*DataFrame, error) {
	return df.Join(right, &JoinOptions{Type: InnerJoin, LeftKeys: keys, RightKeys: keys})
}

// LeftJoin is Join with LeftJoin on the given key names.
func (df *DataFrame) LeftJoin(right *DataFrame, keys ...string) (*DataFrame, error) {
	return df.Join(right, &JoinOptions{Type: LeftJoin, LeftKeys: keys, RightKeys: keys})
}

// RightJoin is Join with RightJoin on the given key names.
func (df *DataFrame) RightJoin(right *DataFrame, keys ...string) (*DataFrame, error) {
	return df.Join(right, &JoinOptions{Type: RightJoin, LeftKeys: keys, RightKeys: keys})
}

// FullJoin is Join with FullOuterJoin on the given key names.
func (df *DataFrame) FullJoin(right *DataFrame, keys ...string) (*DataFrame, error) {
	return df.Join(right, &JoinOptions{Type: FullOuterJoin, LeftKeys: keys, RightKeys: keys})
}

// ExcludeJoin keeps the rows of df without a match in right.
func (df *DataFrame) ExcludeJoin(right *DataFrame, keys ...string) (*DataFrame, error) {
	return df.Join(right, &JoinOptions{Type: ExcludeJoin, LeftKeys: keys, RightKeys: keys})
}

// normalizeJoinKeys extracts the key names to use for joining. A missing
// right side reuses the left names.
func normalizeJoinKeys(options *JoinOptions) (left, right []string) {
	left, right = options.LeftKeys, options.RightKeys
	if len(left) == 0 && options.LeftKey != "" {
		left = []string{options.LeftKey}
	}
	if len(right) == 0 && options.RightKey != "" {
		right = []string{options.RightKey}
	}
	if len(right) == 0 {
		right = left
	}
	if len(left) == 0 {
		left = right
	}
	return left, right
}

// joinKeyPairs resolves the key pairs and expands column groups into leaf
// pairs matched by relative path. Count mismatches fail before any row is
// read.
func joinKeyPairs(left, right *DataFrame, options *JoinOptions) ([]keyPair, error) {
	var matches []ColumnMatch
	switch leftKeys, rightKeys := normalizeJoinKeys(options); {
	case len(options.On) > 0:
		matches = options.On
	case len(leftKeys) > 0:
		if len(leftKeys) != len(rightKeys) {
			return nil, dferrors.NewArityError("join", len(rightKeys), len(leftKeys))
		}
		for i := range leftKeys {
			matches = append(matches, ColumnMatch{
				Left:  ColPath(colpath.Parse(leftKeys[i])),
				Right: ColPath(colpath.Parse(rightKeys[i])),
			})
		}
	default:
		for _, name := range left.ColumnNames() {
			if right.HasColumn(name) {
				matches = append(matches, ColumnMatch{Left: Col(name), Right: Col(name)})
			}
		}
	}

	var pairs []keyPair
	for _, m := range matches {
		lcols, err := left.Resolve(m.Left)
		if err != nil {
			return nil, err
		}
		rcols, err := right.Resolve(m.Right)
		if err != nil {
			return nil, err
		}
		if len(lcols) != len(rcols) {
			return nil, dferrors.NewArityError("join", len(rcols), len(lcols))
		}
		for i := range lcols {
			leaves, err := leafPairs(lcols[i], rcols[i])
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, leaves...)
		}
	}
	return pairs, nil
}

func leafPairs(l, r ColumnWithPath) ([]keyPair, error) {
	switch {
	case !l.IsGroup() && !r.IsGroup():
		return []keyPair{{left: l, right: r}}, nil
	case l.IsGroup() != r.IsGroup():
		return nil, dferrors.NewTypeMismatchError("join", l.Path.String(),
			"cannot match a column group with "+r.Path.String())
	}

	var pairs []keyPair
	for _, leaf := range ListDFS([]ColumnWithPath{l}, false) {
		rel := leaf.Path.Drop(len(l.Path))
		path := r.Path.Concat(rel)
		c, ok := r.Host.ColumnByPath(path)
		if !ok {
			return nil, dferrors.NewColumnNotFoundError("join", path.String())
		}
		pairs = append(pairs, keyPair{left: leaf, right: ColumnWithPath{Column: c, Path: path, Host: r.Host}})
	}
	return pairs, nil
}

// matchRows returns aligned row indices; -1 marks a null-filled side.
func matchRows(left, right *DataFrame, pairs []keyPair, joinType JoinType) (leftIndices, rightIndices []int) {
	index := newTupleIndex(right.nrow)
	for j := range right.nrow {
		index.add(keyTuple(pairs, j, false), j)
	}

	matched := make([]bool, right.nrow)
	for i := range left.nrow {
		rows, ok := index.get(keyTuple(pairs, i, true))
		switch {
		case joinType == ExcludeJoin:
			if !ok {
				leftIndices = append(leftIndices, i)
			}
		case ok:
			for _, j := range rows {
				leftIndices = append(leftIndices, i)
				rightIndices = append(rightIndices, j)
				matched[j] = true
			}
		case joinType.AllowRightNulls():
			leftIndices = append(leftIndices, i)
			rightIndices = append(rightIndices, -1)
		}
	}

	if joinType.AllowLeftNulls() {
		for j, ok := range matched {
			if !ok {
				leftIndices = append(leftIndices, -1)
				rightIndices = append(rightIndices, j)
			}
		}
	}
	return leftIndices, rightIndices
}

func keyTuple(pairs []keyPair, row int, left bool) []any {
	tuple := make([]any, len(pairs))
	for k, p := range pairs {
		if left {
			tuple[k] = p.left.Column.Get(row)
		} else {
			tuple[k] = p.right.Column.Get(row)
		}
	}
	return tuple
}

func buildJoinResult(left, right *DataFrame, pairs []keyPair, leftIndices, rightIndices []int, joinType JoinType) (*DataFrame, error) {
	out := sliceWithNulls(left, leftIndices)
	if joinType == ExcludeJoin {
		return out, nil
	}

	// Unmatched right rows carry their own key values on the left side.
	if slices.Contains(leftIndices, -1) {
		for _, p := range pairs {
			filled := fillKeyColumn(p, leftIndices, rightIndices)
			var err error
			out, err = replaceAt("join", out, p.left.Path, func(Column) ([]Column, error) {
				return []Column{filled}, nil
			})
			if err != nil {
				return nil, err
			}
		}
	}

	rightKeys := make([]ColumnWithPath, len(pairs))
	for i, p := range pairs {
		rightKeys[i] = p.right
	}
	rest := withoutColumns(right, rightKeys)
	rightOut := sliceWithNulls(rest, rightIndices)

	names := common.NewNameGenerator(config.GetGlobalConfig().UniqueNameStart, out.ColumnNames()...)
	columns := slices.Clone(out.columns)
	for _, c := range rightOut.columns {
		if name := names.Add(c.Name()); name != c.Name() {
			c = c.Rename(name)
		}
		columns = append(columns, c)
	}
	return NewWithRows(len(leftIndices), columns...)
}

func fillKeyColumn(p keyPair, leftIndices, rightIndices []int) Column {
	values := make([]any, len(leftIndices))
	for k, i := range leftIndices {
		if i >= 0 {
			values[k] = p.left.Column.Get(i)
		} else {
			values[k] = p.right.Column.Get(rightIndices[k])
		}
	}
	typ := types.CommonType([]types.Type{p.left.Column.Type(), p.right.Column.Type()})
	return NewValueColumn(p.left.Name(), values, typ)
}

// sliceWithNulls is Slice where index -1 produces a null row: nulls for
// values, empty schema frames for frame columns.
func sliceWithNulls(df *DataFrame, indices []int) *DataFrame {
	columns := make([]Column, len(df.columns))
	for i, c := range df.columns {
		columns[i] = sliceColumnWithNulls(c, indices)
	}
	return newFrame(len(indices), columns)
}

func sliceColumnWithNulls(c Column, indices []int) Column {
	if !slices.Contains(indices, -1) {
		return c.Slice(indices)
	}
	switch c := c.(type) {
	case *GroupColumn:
		return NewGroupColumn(c.Name(), sliceWithNulls(c.Frame(), indices))
	case *FrameColumn:
		frames := make([]*DataFrame, len(indices))
		for k, at := range indices {
			if at >= 0 {
				frames[k] = c.frames[at]
			}
		}
		return NewFrameColumnWithSchema(c.Name(), frames, c.Schema())
	}
	values := make([]any, len(indices))
	for k, at := range indices {
		if at >= 0 {
			values[k] = c.Get(at)
		}
	}
	return NewValueColumn(c.Name(), values, c.Type().WithNullability(true))
}

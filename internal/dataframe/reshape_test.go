//nolint:testpackage // requires internal access to unexported types and functions
package dataframe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/nestframe/internal/colpath"
	dferrors "github.com/paveg/nestframe/internal/errors"
	"github.com/paveg/nestframe/internal/types"
)

func TestMerge(t *testing.T) {
	df := people(t)

	t.Run("default combiner", func(t *testing.T) {
		out, err := df.Merge(Cols("age", "city"), "info", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "info"}, out.ColumnNames())
		assert.Equal(t, "15, London", values(t, out, "info")[0])
	})

	t.Run("nulls are skipped", func(t *testing.T) {
		withNull := mustOf(t, "a", "b")("x", nil, nil, "y")
		out, err := withNull.Merge(Cols("a", "b"), "ab", nil)
		require.NoError(t, err)
		assert.Equal(t, []any{"x", "y"}, values(t, out, "ab"))
	})

	t.Run("inside a group", func(t *testing.T) {
		sel := ColPath(colpath.Of("name", "first")).And(ColPath(colpath.Of("name", "last")))
		out, err := df.Merge(sel, "full", func(parts []any) (any, error) {
			return parts[0].(string) + " " + parts[1].(string), nil
		})
		require.NoError(t, err)
		assert.Equal(t, []any{"Alice Cooper", "Bob Dylan", "Charlie Daniels", "Charlie Chaplin"}, values(t, out, "name.full"))
		g := mustColumn(t, out, "name").(*GroupColumn)
		assert.Equal(t, []string{"full"}, g.Frame().ColumnNames())
	})

	t.Run("nothing selected", func(t *testing.T) {
		_, err := df.Merge(All().Take(0), "x", nil)
		assert.ErrorIs(t, err, dferrors.ErrArity)
	})
}

func TestSplit(t *testing.T) {
	df := MustNew(NewValueColumn("s", []any{"a, b, c", "d", nil}, types.Type{}), ValueColumnOf("n", 1, 2, 3))

	tests := []struct {
		name      string
		opts      SplitOptions
		wantNames []string
		want      map[string][]any
		wantErr   error
	}{
		{
			name:      "drop excess",
			opts:      SplitOptions{Names: []string{"x", "y"}},
			wantNames: []string{"x", "y", "n"},
			want:      map[string][]any{"x": {"a", "d", nil}, "y": {"b", nil, nil}},
		},
		{
			name:      "keep excess",
			opts:      SplitOptions{Names: []string{"x", "y"}, Excess: KeepExcess},
			wantNames: []string{"x", "y", "y1", "n"},
			want:      map[string][]any{"y1": {"c", nil, nil}},
		},
		{
			name:    "fail on excess",
			opts:    SplitOptions{Names: []string{"x", "y"}, Excess: FailOnExcess},
			wantErr: dferrors.ErrArity,
		},
		{
			name:    "no names",
			opts:    SplitOptions{},
			wantErr: dferrors.ErrArity,
		},
		{
			name: "custom splitter",
			opts: SplitOptions{
				Names:    []string{"head"},
				Splitter: func(v any) ([]any, error) { return []any{strings.ToUpper(v.(string)[:1])}, nil },
			},
			wantNames: []string{"head", "n"},
			want:      map[string][]any{"head": {"A", "D", nil}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := df.Split(Col("s"), tt.opts)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNames, out.ColumnNames())
			for name, want := range tt.want {
				assert.Equal(t, want, values(t, out, name), name)
			}
		})
	}
}

func TestMergeSplitInverse(t *testing.T) {
	df := people(t)

	merged, err := df.Merge(Cols("age", "city"), "info", nil)
	require.NoError(t, err)
	split, err := merged.Split(Col("info"), SplitOptions{Names: []string{"age", "city"}})
	require.NoError(t, err)
	back, err := split.Convert(Col("age"), types.TypeOf[int]())
	require.NoError(t, err)

	assert.True(t, df.Equal(back), "expected\n%s\ngot\n%s", df, back)
}

func TestExplode(t *testing.T) {
	t.Run("lists", func(t *testing.T) {
		df := MustNew(
			ValueColumnOf("id", 1, 2, 3),
			NewValueColumn("tags", []any{[]string{"a", "b"}, []string{}, []string{"c"}}, types.Type{}),
		)
		out, err := df.Explode(Col("tags"))
		require.NoError(t, err)
		assert.Equal(t, []any{1, 1, 2, 3}, values(t, out, "id"))
		assert.Equal(t, []any{"a", "b", nil, "c"}, values(t, out, "tags"))
		assert.Equal(t, "string?", mustColumn(t, out, "tags").Type().String())
	})

	t.Run("aligned columns", func(t *testing.T) {
		df := MustNew(
			NewValueColumn("a", []any{[]int{1, 2}}, types.Type{}),
			NewValueColumn("b", []any{[]string{"x"}}, types.Type{}),
		)
		out, err := df.Explode(Cols("a", "b"))
		require.NoError(t, err)
		assert.Equal(t, []any{1, 2}, values(t, out, "a"))
		assert.Equal(t, []any{"x", nil}, values(t, out, "b"))
	})

	t.Run("frames become groups", func(t *testing.T) {
		df := MustNew(
			ValueColumnOf("id", 1, 2, 3),
			NewFrameColumn("f", []*DataFrame{mustOf(t, "v")(1, 2), mustOf(t, "v")(3), nil}),
		)
		out, err := df.Explode(Col("f"))
		require.NoError(t, err)
		assert.Equal(t, []any{1, 1, 2, 3}, values(t, out, "id"))
		assert.Equal(t, GroupKind, mustColumn(t, out, "f").Kind())
		assert.Equal(t, []any{1, 2, 3, nil}, values(t, out, "f.v"))
	})

	t.Run("SplitRows", func(t *testing.T) {
		df := mustOf(t, "id", "s")(1, "a, b", 2, nil)
		out, err := df.SplitRows(Col("s"), nil)
		require.NoError(t, err)
		assert.Equal(t, []any{1, 1, 2}, values(t, out, "id"))
		assert.Equal(t, []any{"a", "b", nil}, values(t, out, "s"))
	})
}

func TestMergeRows(t *testing.T) {
	df := mustOf(t, "id", "tag")(1, "a", 2, "b", 1, "c")

	out, err := df.MergeRows(Col("tag"))
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, values(t, out, "id"))
	assert.Equal(t, []any{[]any{"a", "c"}, []any{"b"}}, values(t, out, "tag"))
	assert.Equal(t, "List<string>", mustColumn(t, out, "tag").Type().String())

	back, err := out.Explode(Col("tag"))
	require.NoError(t, err)
	assert.Equal(t, []any{1, 1, 2}, values(t, back, "id"))
	assert.Equal(t, []any{"a", "c", "b"}, values(t, back, "tag"))

	implode, err := df.Implode(Col("tag"))
	require.NoError(t, err)
	assert.True(t, out.Equal(implode))

	t.Run("frame columns stack", func(t *testing.T) {
		nested := MustNew(
			ValueColumnOf("id", 1, 1),
			NewFrameColumn("f", []*DataFrame{mustOf(t, "v")(1), mustOf(t, "v")(2, 3)}),
		)
		out, err := nested.MergeRows(Col("f"))
		require.NoError(t, err)
		assert.Equal(t, 1, out.Len())
		f := mustColumn(t, out, "f").(*FrameColumn)
		assert.Equal(t, []any{1, 2, 3}, values(t, f.At(0), "v"))
	})

	t.Run("groups become frames", func(t *testing.T) {
		out, err := people(t).MergeRows(Col("name"))
		require.NoError(t, err)
		assert.Equal(t, FrameKind, mustColumn(t, out, "name").Kind())
		assert.Equal(t, 4, out.Len())
	})
}

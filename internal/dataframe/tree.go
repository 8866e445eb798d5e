package dataframe

import (
	"github.com/paveg/nestframe/internal/colpath"
)

// ColumnTree is a tree of resolved columns keyed by path segment. Interior
// nodes created only to reach a deeper column carry no data.
type ColumnTree = colpath.Node[*ColumnWithPath]

// CollectTree arranges resolved columns into a tree by their paths. Group
// candidates are expanded into their full subtrees.
func CollectTree(columns []ColumnWithPath) *ColumnTree {
	root := colpath.NewRoot[*ColumnWithPath]()
	for _, c := range ListDFS(columns, true) {
		root.GetOrPutPath(c.Path).SetData(&c)
	}
	return root
}

// FrameTree builds the full column tree of df.
func FrameTree(df *DataFrame) *ColumnTree {
	return CollectTree(topLevel(df))
}

// ListDFS flattens columns in pre-order, descending into groups. Groups
// themselves are listed only when includeGroups is set.
func ListDFS(columns []ColumnWithPath, includeGroups bool) []ColumnWithPath {
	var out []ColumnWithPath
	var walk func(ColumnWithPath)
	walk = func(c ColumnWithPath) {
		if !c.IsGroup() {
			out = append(out, c)
			return
		}
		if includeGroups {
			out = append(out, c)
		}
		for _, child := range c.Children() {
			walk(child)
		}
	}
	for _, c := range columns {
		walk(c)
	}
	return out
}

// AllColumnsExcept returns the top-level columns of df with the excluded
// columns removed at any depth. Groups that lose children are rebuilt with
// the survivors and dropped once empty; untouched columns are returned as is.
func AllColumnsExcept(df *DataFrame, excluded []ColumnWithPath) []ColumnWithPath {
	drop, touched := exclusionSets(excluded)
	return columnsExcept(df, df, nil, drop, touched)
}

func columnsExcept(root, df *DataFrame, prefix colpath.Path, drop, touched map[string]bool) []ColumnWithPath {
	out := make([]ColumnWithPath, 0, len(df.columns))
	for _, c := range df.columns {
		col := ColumnWithPath{Column: c, Path: prefix.Append(c.Name()), Host: root}
		if kept, ok := pruneColumn(root, col, drop, touched); ok {
			out = append(out, kept)
		}
	}
	return out
}

// pruneColumn removes dropped paths from one column. It reports false when
// nothing of the column survives, including when an ancestor was dropped.
func pruneColumn(root *DataFrame, c ColumnWithPath, drop, touched map[string]bool) (ColumnWithPath, bool) {
	key := c.Path.Key()
	if drop[key] {
		return ColumnWithPath{}, false
	}
	for p := c.Path.Parent(); len(p) > 0; p = p.Parent() {
		if drop[p.Key()] {
			return ColumnWithPath{}, false
		}
	}
	g, ok := c.Group()
	if !touched[key] || !ok {
		return c, true
	}
	survivors := columnsExcept(root, g.Frame(), c.Path, drop, touched)
	if len(survivors) == 0 {
		return ColumnWithPath{}, false
	}
	rebuilt := NewGroupColumn(g.Name(), newFrame(g.Len(), unwrap(survivors)))
	return ColumnWithPath{Column: rebuilt, Path: c.Path, Host: root}, true
}

// exclusionSets indexes excluded paths and their strict ancestors.
func exclusionSets(excluded []ColumnWithPath) (drop, touched map[string]bool) {
	drop = make(map[string]bool, len(excluded))
	touched = make(map[string]bool)
	for _, c := range excluded {
		drop[c.Path.Key()] = true
		for p := c.Path.Parent(); len(p) > 0; p = p.Parent() {
			touched[p.Key()] = true
		}
	}
	return drop, touched
}

// withoutColumns returns df minus the excluded columns.
func withoutColumns(df *DataFrame, excluded []ColumnWithPath) *DataFrame {
	return newFrame(df.nrow, unwrap(AllColumnsExcept(df, excluded)))
}

func unwrap(columns []ColumnWithPath) []Column {
	out := make([]Column, len(columns))
	for i, c := range columns {
		out[i] = c.Column
	}
	return out
}

// topMost drops every column whose ancestor is also in the list, keeping
// the original order.
func topMost(columns []ColumnWithPath) []ColumnWithPath {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c.Path.Key()] = true
	}
	out := make([]ColumnWithPath, 0, len(columns))
	for _, c := range columns {
		covered := false
		for p := c.Path.Parent(); len(p) > 0 && !covered; p = p.Parent() {
			covered = present[p.Key()]
		}
		if !covered {
			out = append(out, c)
		}
	}
	return out
}

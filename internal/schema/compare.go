package schema

import "github.com/paveg/nestframe/internal/dataframe"

// Relation is the outcome of comparing two schemes.
type Relation int

const (
	// Equal schemes have the same columns with equal types.
	Equal Relation = iota
	// MoreGeneral means every frame matching the other scheme also matches
	// this one: fewer columns, wider types.
	MoreGeneral
	// MoreSpecific is the reverse of MoreGeneral.
	MoreSpecific
	// Unrelated schemes are neither.
	Unrelated
)

func (r Relation) String() string {
	switch r {
	case Equal:
		return "equal"
	case MoreGeneral:
		return "more general"
	case MoreSpecific:
		return "more specific"
	default:
		return "unrelated"
	}
}

// combine folds the relation of one part into the relation of the whole.
func (r Relation) combine(part Relation) Relation {
	switch {
	case r == part || part == Equal:
		return r
	case r == Equal:
		return part
	default:
		return Unrelated
	}
}

// Compare reports how a relates to b. Columns are matched by name at every
// level; column order does not matter.
func Compare(a, b Scheme) Relation {
	return compareFields(a.Fields, b.Fields)
}

func compareFields(a, b []Field) Relation {
	rel := Equal
	for _, fa := range a {
		fb, ok := lookup(b, fa.ColumnName)
		if !ok {
			rel = rel.combine(MoreSpecific)
			continue
		}
		rel = rel.combine(compareField(fa, fb))
		if rel == Unrelated {
			return rel
		}
	}
	for _, fb := range b {
		if _, ok := lookup(a, fb.ColumnName); !ok {
			rel = rel.combine(MoreGeneral)
		}
	}
	return rel
}

func compareField(a, b Field) Relation {
	if a.Kind != b.Kind {
		return Unrelated
	}
	if a.Kind != dataframe.ValueKind {
		return compareFields(a.Nested, b.Nested)
	}
	switch {
	case a.Type.Equal(b.Type):
		return Equal
	case b.Type.IsSubtypeOf(a.Type):
		return MoreGeneral
	case a.Type.IsSubtypeOf(b.Type):
		return MoreSpecific
	default:
		return Unrelated
	}
}

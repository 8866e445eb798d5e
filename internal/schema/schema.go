// Package schema extracts a plain description of a frame's column tree and
// compares two descriptions. A scheme is what generated accessors or typed
// record bindings would be derived from.
package schema

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/paveg/nestframe/internal/dataframe"
	"github.com/paveg/nestframe/internal/types"
)

// Field describes one column. Group and frame columns carry the fields of
// their nested frame.
type Field struct {
	// FieldName is ColumnName turned into an exported Go identifier.
	FieldName  string
	ColumnName string
	Type       types.Type
	Kind       dataframe.Kind
	Nested     []Field
}

// Scheme is the ordered field list of a frame.
type Scheme struct {
	Fields []Field
}

// Extract describes df.
func Extract(df *dataframe.DataFrame) Scheme {
	return Scheme{Fields: extractFields(df)}
}

func extractFields(df *dataframe.DataFrame) []Field {
	fields := make([]Field, 0, df.Width())
	for _, c := range df.Columns() {
		f := Field{
			FieldName:  FieldName(c.Name()),
			ColumnName: c.Name(),
			Type:       c.Type(),
			Kind:       c.Kind(),
		}
		switch nested := c.(type) {
		case *dataframe.GroupColumn:
			f.Nested = extractFields(nested.Frame())
		case *dataframe.FrameColumn:
			f.Nested = extractFields(nested.Schema())
		}
		fields = append(fields, f)
	}
	return fields
}

// Field returns the top-level field for a column name.
func (s Scheme) Field(column string) (Field, bool) {
	return lookup(s.Fields, column)
}

func lookup(fields []Field, column string) (Field, bool) {
	for _, f := range fields {
		if f.ColumnName == column {
			return f, true
		}
	}
	return Field{}, false
}

func (s Scheme) String() string {
	var sb strings.Builder
	writeFields(&sb, s.Fields, 0)
	return sb.String()
}

func writeFields(sb *strings.Builder, fields []Field, depth int) {
	for _, f := range fields {
		fmt.Fprintf(sb, "%s%s: ", strings.Repeat("    ", depth), f.ColumnName)
		switch f.Kind {
		case dataframe.ValueKind:
			sb.WriteString(f.Type.String())
		default:
			sb.WriteString(f.Kind.String())
		}
		sb.WriteByte('\n')
		writeFields(sb, f.Nested, depth+1)
	}
}

// FieldName turns a column name into an exported identifier: words are
// title-cased and joined, other characters dropped. A name without letters
// or digits becomes "Column"; a leading digit gets an "N" prefix.
func FieldName(column string) string {
	words := strings.FieldsFunc(column, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return "Column"
	}
	title := cases.Title(language.Und, cases.NoLower)
	var sb strings.Builder
	for _, w := range words {
		sb.WriteString(title.String(w))
	}
	name := sb.String()
	if unicode.IsDigit([]rune(name)[0]) {
		name = "N" + name
	}
	return name
}

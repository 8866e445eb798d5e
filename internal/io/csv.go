package io

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/paveg/nestframe/internal/colpath"
	"github.com/paveg/nestframe/internal/common"
	"github.com/paveg/nestframe/internal/config"
	"github.com/paveg/nestframe/internal/dataframe"
	"github.com/paveg/nestframe/internal/types"
)

const (
	trueStr  = "true"
	falseStr = "false"
)

// cellKind is the type inferred for one CSV column.
type cellKind int

const (
	stringCell cellKind = iota
	boolCell
	intCell
	floatCell
)

func (k cellKind) declared() types.Type {
	switch k {
	case boolCell:
		return types.TypeOf[bool]()
	case intCell:
		return types.TypeOf[int64]()
	case floatCell:
		return types.TypeOf[float64]()
	default:
		return types.TypeOf[string]()
	}
}

// Read reads CSV data and returns a DataFrame
func (r *CSVReader) Read() (*dataframe.DataFrame, error) {
	csvReader := csv.NewReader(r.reader)
	csvReader.Comma = delimiter(r.options)
	csvReader.Comment = r.options.Comment
	csvReader.TrimLeadingSpace = r.options.SkipInitialSpace
	// short rows are padded with nulls, long rows truncated
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return dataframe.Empty(0), nil
	}

	var headers []string
	dataRows := records
	if r.options.Header {
		headers, dataRows = records[0], records[1:]
	} else {
		headers = make([]string, len(records[0]))
		for i := range headers {
			headers[i] = fmt.Sprintf("column_%d", i)
		}
	}

	columns := make([]dataframe.Column, len(headers))
	for i, header := range headers {
		cells := make([]string, len(dataRows))
		for j, row := range dataRows {
			if i < len(row) {
				cells[j] = row[i]
			} else {
				cells[j] = r.options.NullValue
			}
		}
		columns[i] = r.buildColumn(header, cells)
	}

	if r.options.NestHeaders {
		return nestColumns(len(dataRows), columns)
	}
	df, err := dataframe.NewWithRows(len(dataRows), columns...)
	if err != nil {
		return nil, fmt.Errorf("building frame: %w", err)
	}
	return df, nil
}

func delimiter(options CSVOptions) rune {
	if options.Delimiter == 0 {
		return ','
	}
	return options.Delimiter
}

// buildColumn parses the cells of one column. The null marker becomes null
// and does not take part in inference.
func (r *CSVReader) buildColumn(name string, cells []string) dataframe.Column {
	kind := stringCell
	if r.options.TypeInference {
		kind = inferCellKind(cells, r.options.NullValue)
	}
	values := make([]any, len(cells))
	for i, cell := range cells {
		if cell == r.options.NullValue {
			continue
		}
		values[i] = parseCell(cell, kind)
	}
	return dataframe.NewValueColumn(name, values, kind.declared())
}

// inferCellKind determines the most specific kind every non-null cell fits.
func inferCellKind(cells []string, null string) cellKind {
	canBeBool, canBeInt, canBeFloat := true, true, true
	seen := false
	for _, cell := range cells {
		if cell == null {
			continue
		}
		seen = true
		if canBeBool {
			lower := strings.ToLower(cell)
			canBeBool = lower == trueStr || lower == falseStr
		}
		if canBeInt {
			_, err := strconv.ParseInt(cell, 10, 64)
			canBeInt = err == nil
		}
		if canBeFloat {
			_, err := strconv.ParseFloat(cell, 64)
			canBeFloat = err == nil
		}
	}

	switch {
	case !seen:
		return stringCell
	case canBeBool:
		return boolCell
	case canBeInt:
		return intCell
	case canBeFloat:
		return floatCell
	default:
		return stringCell
	}
}

func parseCell(cell string, kind cellKind) any {
	switch kind {
	case boolCell:
		return strings.EqualFold(cell, trueStr)
	case intCell:
		v, _ := strconv.ParseInt(cell, 10, 64)
		return v
	case floatCell:
		v, _ := strconv.ParseFloat(cell, 64)
		return v
	default:
		return cell
	}
}

// nestColumns rebuilds column groups from path headers.
func nestColumns(nrow int, columns []dataframe.Column) (*dataframe.DataFrame, error) {
	sep := config.GetGlobalConfig().PathSeparator
	df := dataframe.Empty(nrow)
	for _, c := range columns {
		path := colpath.Of(c.Name())
		if sep != "" {
			path = colpath.Of(strings.Split(c.Name(), sep)...)
		}
		var err error
		if df, err = df.Insert(path.Parent(), c.Rename(path.Name())); err != nil {
			return nil, fmt.Errorf("nesting column %s: %w", c.Name(), err)
		}
	}
	return df, nil
}

// Write writes the DataFrame to CSV format. Column groups are flattened
// into path headers; list and frame cells are written as JSON.
func (w *CSVWriter) Write(df *dataframe.DataFrame) error {
	leaves, err := df.Resolve(dataframe.All().Dfs(false))
	if err != nil {
		return err
	}

	csvWriter := csv.NewWriter(w.writer)
	csvWriter.Comma = delimiter(w.options)

	if w.options.Header {
		sep := config.GetGlobalConfig().PathSeparator
		headers := make([]string, len(leaves))
		for i, c := range leaves {
			headers[i] = c.Path.Join(sep)
		}
		if err := csvWriter.Write(headers); err != nil {
			return fmt.Errorf("writing headers: %w", err)
		}
	}

	row := make([]string, len(leaves))
	for i := range df.Len() {
		for j, c := range leaves {
			if row[j], err = w.formatCell(c.Column.Get(i)); err != nil {
				return fmt.Errorf("formatting %s at row %d: %w", c.Path, i, err)
			}
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func (w *CSVWriter) formatCell(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return w.options.NullValue, nil
	case *dataframe.DataFrame:
		return marshalCell(v)
	default:
		if _, ok := listValues(v); ok {
			return marshalCell(v)
		}
		return common.ToString(v), nil
	}
}

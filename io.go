package nestframe

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	nfio "github.com/paveg/nestframe/internal/io"
)

// Format options.
type (
	CSVOptions     = nfio.CSVOptions
	JSONOptions    = nfio.JSONOptions
	JSONFormat     = nfio.JSONFormat
	ParquetOptions = nfio.ParquetOptions
)

// JSON layouts.
const (
	JSONArray = nfio.JSONArray
	JSONLines = nfio.JSONLines
)

// DefaultCSVOptions reads a comma separated file with a header row and
// per-column type inference.
func DefaultCSVOptions() CSVOptions { return nfio.DefaultCSVOptions() }

// DefaultJSONOptions reads and writes a single JSON array.
func DefaultJSONOptions() JSONOptions { return nfio.DefaultJSONOptions() }

// DefaultParquetOptions writes snappy compressed Parquet.
func DefaultParquetOptions() ParquetOptions { return nfio.DefaultParquetOptions() }

// ReadCSV reads a frame from CSV.
func ReadCSV(r io.Reader, options CSVOptions) (*DataFrame, error) {
	return nfio.NewCSVReader(r, options).Read()
}

// WriteCSV writes df as CSV. Groups are flattened into path headers.
func WriteCSV(w io.Writer, df *DataFrame, options CSVOptions) error {
	return nfio.NewCSVWriter(w, options).Write(df)
}

// ReadJSON reads a frame from a JSON array or JSON Lines.
func ReadJSON(r io.Reader, options JSONOptions) (*DataFrame, error) {
	return nfio.NewJSONReader(r, options).Read()
}

// WriteJSON writes df as JSON. Groups become objects and frame cells arrays.
func WriteJSON(w io.Writer, df *DataFrame, options JSONOptions) error {
	return nfio.NewJSONWriter(w, options).Write(df)
}

// ReadParquet reads a frame from Parquet. A nil allocator uses the default.
func ReadParquet(ctx context.Context, r io.Reader, options ParquetOptions, mem memory.Allocator) (*DataFrame, error) {
	return nfio.NewParquetReader(r, options, mem).ReadContext(ctx)
}

// WriteParquet writes df as Parquet. A nil allocator uses the default.
func WriteParquet(w io.Writer, df *DataFrame, options ParquetOptions, mem memory.Allocator) error {
	return nfio.NewParquetWriter(w, options, mem).Write(df)
}

// ToArrow converts df into an Arrow record. The caller releases it.
func ToArrow(df *DataFrame, mem memory.Allocator) (arrow.Record, error) {
	return nfio.ToArrowRecord(df, mem)
}

// FromArrow converts an Arrow record into a frame.
func FromArrow(rec arrow.Record) (*DataFrame, error) { return nfio.FromArrowRecord(rec) }

// ReadFile reads a frame from path, picking the format from the extension:
// .csv, .json, .jsonl/.ndjson or .parquet.
func ReadFile(ctx context.Context, path string) (*DataFrame, error) {
	format, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case formatCSV:
		return ReadCSV(f, DefaultCSVOptions())
	case formatJSON:
		return ReadJSON(f, DefaultJSONOptions())
	case formatJSONLines:
		return ReadJSON(f, JSONOptions{Format: JSONLines})
	default:
		return ReadParquet(ctx, f, DefaultParquetOptions(), nil)
	}
}

// WriteFile writes df to path in the format named by the extension.
func WriteFile(path string, df *DataFrame) (err error) {
	format, err := formatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	switch format {
	case formatCSV:
		return WriteCSV(f, df, DefaultCSVOptions())
	case formatJSON:
		return WriteJSON(f, df, DefaultJSONOptions())
	case formatJSONLines:
		return WriteJSON(f, df, JSONOptions{Format: JSONLines})
	default:
		return WriteParquet(f, df, DefaultParquetOptions(), nil)
	}
}

type fileFormat int

const (
	formatCSV fileFormat = iota
	formatJSON
	formatJSONLines
	formatParquet
)

func formatOf(path string) (fileFormat, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return formatCSV, nil
	case ".json":
		return formatJSON, nil
	case ".jsonl", ".ndjson":
		return formatJSONLines, nil
	case ".parquet":
		return formatParquet, nil
	default:
		return 0, fmt.Errorf("unsupported file format: %q", ext)
	}
}

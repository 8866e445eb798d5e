package io

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/paveg/nestframe/internal/dataframe"
)

// Read reads Parquet data and returns a DataFrame.
func (r *ParquetReader) Read() (*dataframe.DataFrame, error) {
	return r.ReadContext(context.Background())
}

// ReadContext is Read with a context for the table read.
func (r *ParquetReader) ReadContext(ctx context.Context) (*dataframe.DataFrame, error) {
	// Parquet needs random access, so the whole input is buffered
	data, err := io.ReadAll(r.reader)
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}

	pqReader, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating parquet file reader: %w", err)
	}
	defer pqReader.Close()

	props := pqarrow.ArrowReadProperties{BatchSize: int64(r.batchSize())}
	arrowReader, err := pqarrow.NewFileReader(pqReader, props, r.allocator())
	if err != nil {
		return nil, fmt.Errorf("creating arrow file reader: %w", err)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}
	defer table.Release()

	return tableToFrame(table, r.allocator(), r.batchSize())
}

func (r *ParquetReader) allocator() memory.Allocator {
	if r.mem == nil {
		return memory.DefaultAllocator
	}
	return r.mem
}

func (r *ParquetReader) batchSize() int {
	if r.options.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return r.options.BatchSize
}

// tableToFrame converts each record batch and concatenates the results.
func tableToFrame(table arrow.Table, mem memory.Allocator, batchSize int) (*dataframe.DataFrame, error) {
	tr := array.NewTableReader(table, int64(batchSize))
	defer tr.Release()

	var frames []*dataframe.DataFrame
	for tr.Next() {
		df, err := FromArrowRecord(tr.Record())
		if err != nil {
			return nil, fmt.Errorf("converting record batch: %w", err)
		}
		frames = append(frames, df)
	}
	if err := tr.Err(); err != nil {
		return nil, fmt.Errorf("reading record batches: %w", err)
	}
	if len(frames) > 0 {
		return dataframe.Concat(frames...)
	}

	// no rows: keep the columns from the schema
	schema := table.Schema()
	columns := make([]arrow.Array, schema.NumFields())
	for i, f := range schema.Fields() {
		columns[i] = array.MakeArrayOfNull(mem, f.Type, 0)
	}
	defer release(columns)
	rec := array.NewRecord(schema, columns, 0)
	defer rec.Release()
	return FromArrowRecord(rec)
}

// Write writes the DataFrame to Parquet format.
func (w *ParquetWriter) Write(df *dataframe.DataFrame) error {
	mem := w.mem
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	rec, err := ToArrowRecord(df, mem)
	if err != nil {
		return fmt.Errorf("converting DataFrame to Arrow record: %w", err)
	}
	defer rec.Release()

	table := array.NewTableFromRecords(rec.Schema(), []arrow.Record{rec})
	defer table.Release()

	batchSize := w.options.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	props := parquet.NewWriterProperties(
		parquet.WithCompression(compressionCodec(w.options.Compression)),
		parquet.WithBatchSize(int64(batchSize)),
		parquet.WithAllocator(mem),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(mem))

	writer, err := pqarrow.NewFileWriter(table.Schema(), w.writer, props, arrowProps)
	if err != nil {
		return fmt.Errorf("creating file writer: %w", err)
	}
	if err := writer.WriteTable(table, int64(max(df.Len(), 1))); err != nil {
		_ = writer.Close()
		return fmt.Errorf("writing table: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing file writer: %w", err)
	}
	return nil
}

func compressionCodec(name string) compress.Compression {
	switch name {
	case "gzip":
		return compress.Codecs.Gzip
	case "lz4":
		return compress.Codecs.Lz4Raw
	case "zstd":
		return compress.Codecs.Zstd
	case "uncompressed":
		return compress.Codecs.Uncompressed
	default:
		return compress.Codecs.Snappy
	}
}

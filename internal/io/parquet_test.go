package io_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/nestframe/internal/dataframe"
	"github.com/paveg/nestframe/internal/io"
)

func writeParquet(t *testing.T, df *dataframe.DataFrame, options io.ParquetOptions) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, io.NewParquetWriter(&buf, options, memory.NewGoAllocator()).Write(df))
	return buf.Bytes()
}

func TestParquetRoundTrip(t *testing.T) {
	t.Run("flat frame", func(t *testing.T) {
		source := frame(t, "id", "name", "score", "active")(
			int64(1), "Alice", 1.5, true,
			int64(2), nil, 2.5, false,
			int64(3), "Carol", nil, true,
		)

		data := writeParquet(t, source, io.DefaultParquetOptions())
		assert.NotEmpty(t, data)

		back, err := io.NewParquetReader(bytes.NewReader(data), io.DefaultParquetOptions(), nil).Read()
		require.NoError(t, err)
		assert.True(t, source.Equal(back), "expected\n%s\ngot\n%s", source, back)
	})

	t.Run("nested frame", func(t *testing.T) {
		source := customers(t)
		data := writeParquet(t, source, io.DefaultParquetOptions())

		back, err := io.NewParquetReader(bytes.NewReader(data), io.DefaultParquetOptions(), nil).
			ReadContext(context.Background())
		require.NoError(t, err)
		assert.True(t, source.Equal(back), "expected\n%s\ngot\n%s", source, back)
	})

	t.Run("small batches", func(t *testing.T) {
		source := customers(t)
		options := io.ParquetOptions{Compression: "snappy", BatchSize: 1}
		data := writeParquet(t, source, options)

		back, err := io.NewParquetReader(bytes.NewReader(data), options, nil).Read()
		require.NoError(t, err)
		assert.True(t, source.Equal(back), "expected\n%s\ngot\n%s", source, back)
	})

	t.Run("no rows", func(t *testing.T) {
		source := customers(t).Head(0)
		data := writeParquet(t, source, io.DefaultParquetOptions())

		back, err := io.NewParquetReader(bytes.NewReader(data), io.DefaultParquetOptions(), nil).Read()
		require.NoError(t, err)
		assert.Equal(t, 0, back.Len())
		assert.Equal(t, source.ColumnNames(), back.ColumnNames())
	})
}

func TestParquetCompression(t *testing.T) {
	source := customers(t)
	for _, codec := range []string{"snappy", "gzip", "zstd", "lz4", "uncompressed", "unknown"} {
		t.Run(codec, func(t *testing.T) {
			options := io.DefaultParquetOptions()
			options.Compression = codec
			data := writeParquet(t, source, options)

			back, err := io.NewParquetReader(bytes.NewReader(data), options, nil).Read()
			require.NoError(t, err)
			assert.True(t, source.Equal(back))
		})
	}
}

func TestParquetReaderErrors(t *testing.T) {
	_, err := io.NewParquetReader(bytes.NewReader([]byte("not parquet")), io.DefaultParquetOptions(), nil).Read()
	assert.Error(t, err)
}

package nestframe

import (
	"errors"
	"fmt"
	"io"

	"github.com/paveg/nestframe/internal/logging"
)

// DefaultChunkSize is the default number of rows per chunk.
const DefaultChunkSize = 1000

// ChunkReader yields a frame in row chunks. ReadChunk returns io.EOF after
// the last chunk.
type ChunkReader interface {
	ReadChunk() (*DataFrame, error)
}

// ChunkWriter receives processed chunks.
type ChunkWriter interface {
	WriteChunk(*DataFrame) error
}

// ChunkOperation transforms one chunk. Operations must be row-local: the
// result of a chunk may not depend on rows of other chunks.
type ChunkOperation func(*DataFrame) (*DataFrame, error)

// ProcessChunks reads every chunk, applies the operations in order and
// hands the result to writer.
func ProcessChunks(reader ChunkReader, writer ChunkWriter, operations ...ChunkOperation) error {
	for n := 0; ; n++ {
		chunk, err := reader.ReadChunk()
		if errors.Is(err, io.EOF) {
			logging.L().Debug("chunk processing finished", "chunks", n)
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading chunk %d: %w", n, err)
		}
		for i, op := range operations {
			if chunk, err = op(chunk); err != nil {
				return fmt.Errorf("chunk %d operation %d: %w", n, i, err)
			}
		}
		if err := writer.WriteChunk(chunk); err != nil {
			return fmt.Errorf("writing chunk %d: %w", n, err)
		}
	}
}

// FrameChunks reads a frame in chunks of at most size rows. Chunks share
// the frame's data.
type FrameChunks struct {
	df     *DataFrame
	size   int
	offset int
}

// NewFrameChunks creates a chunk reader over df. A non-positive size uses
// DefaultChunkSize.
func NewFrameChunks(df *DataFrame, size int) *FrameChunks {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &FrameChunks{df: df, size: size}
}

// ReadChunk returns the next slice of rows.
func (c *FrameChunks) ReadChunk() (*DataFrame, error) {
	if c.offset >= c.df.Len() {
		return nil, io.EOF
	}
	end := min(c.offset+c.size, c.df.Len())
	chunk := c.df.SliceRange(c.offset, end)
	c.offset = end
	return chunk, nil
}

// Collector gathers written chunks into one frame.
type Collector struct {
	chunks []*DataFrame
}

// WriteChunk keeps the chunk.
func (c *Collector) WriteChunk(chunk *DataFrame) error {
	c.chunks = append(c.chunks, chunk)
	return nil
}

// Frame concatenates the collected chunks. Column types are unified across
// chunks.
func (c *Collector) Frame() (*DataFrame, error) {
	if len(c.chunks) == 0 {
		return Empty(0), nil
	}
	return Concat(c.chunks...)
}

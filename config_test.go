package nestframe_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/nestframe"
	"github.com/paveg/nestframe/internal/testutil"
)

func restoreConfig(t *testing.T) {
	t.Helper()
	original := nestframe.CurrentConfig()
	t.Cleanup(func() {
		_, err := nestframe.ConfigureWithOutput(original, os.Stderr)
		require.NoError(t, err)
	})
}

func TestConfigure(t *testing.T) {
	t.Run("rejects invalid settings", func(t *testing.T) {
		cfg := nestframe.DefaultConfig()
		cfg.PathSeparator = ""
		_, err := nestframe.Configure(cfg)
		assert.Error(t, err)
	})

	t.Run("verbose logging reaches the output", func(t *testing.T) {
		restoreConfig(t)
		var buf bytes.Buffer
		cfg := nestframe.DefaultConfig()
		cfg.VerboseLogging = true
		closeLogger, err := nestframe.ConfigureWithOutput(cfg, &buf)
		require.NoError(t, err)
		defer closeLogger()

		left := testutil.MustOf(t, "id", "x")(1, "a")
		right := testutil.MustOf(t, "id", "y")(1, "b")
		_, err = left.InnerJoin(right, "id")
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "join started")
		assert.Contains(t, buf.String(), "join completed")
	})

	t.Run("path separator drives flattened names", func(t *testing.T) {
		restoreConfig(t)
		cfg := nestframe.DefaultConfig()
		cfg.PathSeparator = "/"
		_, err := nestframe.ConfigureWithOutput(cfg, &bytes.Buffer{})
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, nestframe.WriteCSV(&buf, testutil.CreateTestDataFrame(t, testutil.WithRowCount(1)), nestframe.DefaultCSVOptions()))
		assert.Contains(t, buf.String(), "name/first,name/last,")
	})
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nestframe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("merge_separator: \" | \"\nmax_display_rows: 5\n"), 0o600))

	cfg, err := nestframe.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, " | ", cfg.MergeSeparator)
	assert.Equal(t, 5, cfg.MaxDisplayRows)
	assert.Equal(t, ".", cfg.PathSeparator)

	t.Setenv("NESTFRAME_SPLIT_SEPARATOR", ";")
	assert.Equal(t, ";", nestframe.ConfigFromEnv().SplitSeparator)
}

package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paveg/nestframe/internal/testutil"
)

func TestCreateTestDataFrame(t *testing.T) {
	t.Run("default configuration", func(t *testing.T) {
		df := testutil.CreateTestDataFrame(t)

		assert.Equal(t, 4, df.Len())
		assert.Equal(t, []string{"name", "age", "department", "salary"}, df.ColumnNames())
		testutil.AssertDataFrameHasColumns(t, df, "name.first", "name.last", "salary")
	})

	t.Run("with active column", func(t *testing.T) {
		df := testutil.CreateTestDataFrame(t, testutil.WithActiveColumn())
		assert.Equal(t, 5, df.Width())
		assert.True(t, df.HasColumn("active"))
	})

	t.Run("with custom row count", func(t *testing.T) {
		df := testutil.CreateTestDataFrame(t, testutil.WithRowCount(10))
		assert.Equal(t, 10, df.Len())
	})

	t.Run("with nulls", func(t *testing.T) {
		df := testutil.CreateTestDataFrame(t, testutil.WithNulls(), testutil.WithRowCount(6))
		salary, ok := df.Column("salary")
		assert.True(t, ok)
		assert.Equal(t, "int64?", salary.Type().String())
		assert.Nil(t, salary.Get(2))
		assert.Nil(t, salary.Get(5))
		assert.NotNil(t, salary.Get(3))
	})

	t.Run("with flat names", func(t *testing.T) {
		df := testutil.CreateTestDataFrame(t, testutil.WithFlatNames())
		assert.Equal(t, []string{"first", "last", "age", "department", "salary"}, df.ColumnNames())
	})
}

func TestAssertions(t *testing.T) {
	df := testutil.CreateSimpleTestDataFrame(t)
	testutil.AssertDataFrameNotEmpty(t, df)
	testutil.AssertDataFrameHasColumns(t, df, "name", "age")
	testutil.AssertDataFrameEqual(t, df, testutil.CreateSimpleTestDataFrame(t))
	testutil.AssertDataFrameEqual(t, testutil.CreateTestDataFrame(t), testutil.CreateTestDataFrame(t))
}

func BenchmarkCreateTestDataFrame(b *testing.B) {
	for range b.N {
		testutil.CreateTestDataFrame(b, testutil.WithRowCount(1000))
	}
}

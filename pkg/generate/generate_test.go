package generate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colcast/colcast/pkg/schema"
)

func TestEventProfileSchema(t *testing.T) {
	sch := EventProfile()

	// The profile must stay decodable by the conversion engine.
	_, err := schema.FromArrow(sch)
	require.NoError(t, err)

	assert.Greater(t, sch.NumFields(), 180)

	idx := sch.FieldIndices("largeint_metric")
	require.Len(t, idx, 1)
	assert.Equal(t, arrow.PrimitiveTypes.Int64, sch.Field(idx[0]).Type)

	require.Len(t, sch.FieldIndices("amount_map"), 1)
	require.Len(t, sch.FieldIndices("device_info"), 1)
	require.Len(t, sch.FieldIndices("ext_json1"), 1)
}

func TestWideProfileSchema(t *testing.T) {
	sch := WideProfile(1000)
	assert.Equal(t, 1000, sch.NumFields())

	_, err := schema.FromArrow(sch)
	require.NoError(t, err)
}

func TestProfileSchemaNames(t *testing.T) {
	_, err := ProfileSchema("event", 0)
	require.NoError(t, err)

	wide, err := ProfileSchema("wide", 200)
	require.NoError(t, err)
	assert.Equal(t, 200, wide.NumFields())

	_, err = ProfileSchema("bogus", 0)
	assert.Error(t, err)
}

func TestGeneratorDeterminism(t *testing.T) {
	sch := EventProfile()

	g1 := NewGenerator(sch, 7, nil)
	defer g1.Release()
	g2 := NewGenerator(sch, 7, nil)
	defer g2.Release()

	r1, err := g1.NextBatch(50)
	require.NoError(t, err)
	defer r1.Release()
	r2, err := g2.NextBatch(50)
	require.NoError(t, err)
	defer r2.Release()

	require.Equal(t, r1.NumRows(), r2.NumRows())
	for i := 0; i < int(r1.NumCols()); i++ {
		assert.True(t, array.Equal(r1.Column(i), r2.Column(i)),
			"column %s differs between identically seeded generators", sch.Field(i).Name)
	}
}

func TestGeneratorSeedsDiverge(t *testing.T) {
	sch := WideProfile(50)

	g1 := NewGenerator(sch, 1, nil)
	defer g1.Release()
	g2 := NewGenerator(sch, 2, nil)
	defer g2.Release()

	r1, err := g1.NextBatch(100)
	require.NoError(t, err)
	defer r1.Release()
	r2, err := g2.NextBatch(100)
	require.NoError(t, err)
	defer r2.Release()

	differs := false
	for i := 0; i < int(r1.NumCols()); i++ {
		if !array.Equal(r1.Column(i), r2.Column(i)) {
			differs = true
			break
		}
	}
	assert.True(t, differs)
}

func TestGeneratorLargeintBeyondSafeRange(t *testing.T) {
	sch := EventProfile()
	g := NewGenerator(sch, 3, nil)
	defer g.Release()

	record, err := g.NextBatch(200)
	require.NoError(t, err)
	defer record.Release()

	idx := sch.FieldIndices("largeint_metric")[0]
	col := record.Column(idx).(*array.Int64)

	const maxSafe = int64(1)<<53 - 1
	sawValue := false
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		sawValue = true
		assert.Greater(t, col.Value(i), maxSafe)
	}
	assert.True(t, sawValue)
}

func TestGenerateFileCancellationRemovesOutput(t *testing.T) {
	dir := t.TempDir()
	sch := WideProfile(10)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	opts := Options{
		TotalRows:   50,
		RowsPerFile: 50,
		BatchSize:   10,
		Seed:        5,
		OutputDir:   dir,
	}
	err := generateFile(ctx, sch, 0, 1, opts)
	require.ErrorIs(t, err, context.Canceled)

	// Not a truncated file, not a zero-byte file: no file at all.
	_, statErr := os.Stat(filepath.Join(dir, "part_00000.parquet"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunWritesDeterministicFiles(t *testing.T) {
	dir := t.TempDir()

	opts := Options{
		Profile:     "wide",
		Columns:     30,
		TotalRows:   250,
		RowsPerFile: 100,
		BatchSize:   40,
		Workers:     2,
		Seed:        11,
		OutputDir:   dir,
	}
	require.NoError(t, Run(t.Context(), opts))

	for _, name := range []string{"part_00000.parquet", "part_00001.parquet", "part_00002.parquet"} {
		_, err := filepath.Glob(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

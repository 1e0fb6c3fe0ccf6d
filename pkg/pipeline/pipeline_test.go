package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colcast/colcast/metrics"
	"github.com/colcast/colcast/pkg/core"
	"github.com/colcast/colcast/pkg/writers"
)

func sampleRecord(t *testing.T, invalidBinary bool) arrow.Record {
	t.Helper()

	arrowSchema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "payload", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "tags", Type: arrow.ListOf(arrow.BinaryTypes.String), Nullable: true},
	}, nil)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), arrowSchema)
	defer b.Release()

	ids := b.Field(0).(*array.Int64Builder)
	names := b.Field(1).(*array.StringBuilder)
	payloads := b.Field(2).(*array.BinaryBuilder)
	tags := b.Field(3).(*array.ListBuilder)
	tagVal := tags.ValueBuilder().(*array.StringBuilder)

	ids.Append(1)
	names.Append("alice")
	payloads.Append([]byte("ok"))
	tags.Append(true)
	tagVal.Append("a")

	ids.Append(2)
	names.AppendNull()
	if invalidBinary {
		payloads.Append([]byte{0xff, 0xfe})
	} else {
		payloads.AppendNull()
	}
	tags.AppendNull()

	record := b.NewRecord()
	t.Cleanup(record.Release)
	return record
}

func writeParquet(t *testing.T, path string, record arrow.Record) {
	t.Helper()

	w, err := writers.NewParquetWriter(core.WriterConfig{Type: "parquet", Path: path}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Write(t.Context(), record))
	require.NoError(t, w.Close())
}

func TestConvertFileToCSV(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "events.parquet")
	writeParquet(t, src, sampleRecord(t, false))

	result, err := ConvertFile(t.Context(), src, "", core.ConvertOptions{
		Format:        "csv",
		IncludeHeader: true,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "events.csv"), result.Output)
	assert.Equal(t, int64(2), result.Rows)

	data, err := os.ReadFile(result.Output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,payload,tags", lines[0])
	assert.Equal(t, `1,alice,ok,["a"]`, lines[1])
	assert.Equal(t, "2,,,", lines[2])
}

func TestConvertFileToJSONL(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "events.parquet")
	writeParquet(t, src, sampleRecord(t, false))

	result, err := ConvertFile(t.Context(), src, "", core.ConvertOptions{Format: "jsonl"})
	require.NoError(t, err)

	data, err := os.ReadFile(result.Output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `{"id":1,"name":"alice","payload":"ok","tags":["a"]}`, lines[0])
	assert.Equal(t, `{"id":2,"name":null,"payload":null,"tags":null}`, lines[1])
}

func TestConvertFileColumnarRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "events.parquet")
	writeParquet(t, src, sampleRecord(t, false))

	// Parquet to Arrow IPC, then the Arrow file back through the engine.
	result, err := ConvertFile(t.Context(), src, "", core.ConvertOptions{Format: "arrow"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "events.arrow"), result.Output)
	assert.Equal(t, int64(2), result.Rows)

	outDir := filepath.Join(dir, "out")
	second, err := ConvertFile(t.Context(), result.Output, outDir, core.ConvertOptions{
		Format:        "csv",
		IncludeHeader: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Rows)

	data, err := os.ReadFile(second.Output)
	require.NoError(t, err)
	// The binary column was re-tagged to string by the first conversion.
	assert.Contains(t, string(data), "alice,ok")
}

func TestConvertFileSkipsExistingOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "events.parquet")
	writeParquet(t, src, sampleRecord(t, false))

	first, err := ConvertFile(t.Context(), src, "", core.ConvertOptions{Format: "csv"})
	require.NoError(t, err)
	info, err := os.Stat(first.Output)
	require.NoError(t, err)

	_, err = ConvertFile(t.Context(), src, "", core.ConvertOptions{Format: "csv"})
	assert.ErrorIs(t, err, ErrOutputExists)

	// Untouched, not rewritten.
	after, err := os.Stat(first.Output)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), after.ModTime())

	_, err = ConvertFile(t.Context(), src, "", core.ConvertOptions{Format: "csv", Overwrite: true})
	assert.NoError(t, err)
}

func TestConvertFileAbortDeletesPartialOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "events.parquet")
	writeParquet(t, src, sampleRecord(t, true))

	_, err := ConvertFile(t.Context(), src, "", core.ConvertOptions{Format: "csv"})
	require.Error(t, err)

	// No truncated artifact may remain.
	_, statErr := os.Stat(filepath.Join(dir, "events.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvertFileDeterministicReRun(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "events.parquet")
	writeParquet(t, src, sampleRecord(t, false))

	first, err := ConvertFile(t.Context(), src, "", core.ConvertOptions{Format: "csv", IncludeHeader: true})
	require.NoError(t, err)
	data1, err := os.ReadFile(first.Output)
	require.NoError(t, err)

	second, err := ConvertFile(t.Context(), src, "", core.ConvertOptions{Format: "csv", IncludeHeader: true, Overwrite: true})
	require.NoError(t, err)
	data2, err := os.ReadFile(second.Output)
	require.NoError(t, err)

	assert.Equal(t, data1, data2)
}

func TestConvertFileUnrecognizedSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(src, []byte("not columnar"), 0o644))

	_, err := ConvertFile(t.Context(), src, "", core.ConvertOptions{Format: "csv"})
	assert.Error(t, err)
}

func TestRunDirectoryJobIsolation(t *testing.T) {
	dir := t.TempDir()
	writeParquet(t, filepath.Join(dir, "good1.parquet"), sampleRecord(t, false))
	writeParquet(t, filepath.Join(dir, "good2.parquet"), sampleRecord(t, false))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.parquet"), []byte("garbage"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))

	outDir := filepath.Join(dir, "out")
	report, err := Run(t.Context(), dir, core.ConvertOptions{
		Format:      "csv",
		Destination: outDir,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Tally.Succeeded)
	assert.Equal(t, 0, report.Tally.Skipped)
	assert.Equal(t, 1, report.Tally.Failed)
	assert.Equal(t, 3, report.Tally.Total())

	// The failed file carries its cause; the good ones landed in outDir.
	var failed *metrics.FileOutcome
	for i := range report.Files {
		if report.Files[i].Status == metrics.StatusFailed {
			failed = &report.Files[i]
		}
	}
	require.NotNil(t, failed)
	assert.Contains(t, failed.Source, "broken.parquet")
	assert.NotEmpty(t, failed.Error)

	_, err = os.Stat(filepath.Join(outDir, "good1.csv"))
	assert.NoError(t, err)
}

func TestRunDirectorySkipTally(t *testing.T) {
	dir := t.TempDir()
	writeParquet(t, filepath.Join(dir, "a.parquet"), sampleRecord(t, false))

	outDir := filepath.Join(dir, "out")
	opts := core.ConvertOptions{Format: "jsonl", Destination: outDir}

	report, err := Run(t.Context(), dir, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Tally.Succeeded)

	report, err = Run(t.Context(), dir, opts)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Tally.Succeeded)
	assert.Equal(t, 1, report.Tally.Skipped)
	assert.Equal(t, 0, report.Tally.Failed)
}

func TestRunRecursiveMirrorsLayout(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	writeParquet(t, filepath.Join(sub, "deep.parquet"), sampleRecord(t, false))

	outDir := filepath.Join(t.TempDir(), "out")
	report, err := Run(t.Context(), dir, core.ConvertOptions{
		Format:      "csv",
		Destination: outDir,
		Recursive:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Tally.Succeeded)

	_, err = os.Stat(filepath.Join(outDir, "nested", "deep.csv"))
	assert.NoError(t, err)
}

func TestSourceType(t *testing.T) {
	typ, err := SourceType("/x/a.parquet")
	require.NoError(t, err)
	assert.Equal(t, "parquet", typ)

	typ, err = SourceType("/x/a.ARROW")
	require.NoError(t, err)
	assert.Equal(t, "arrow", typ)

	_, err = SourceType("/x/a.csv")
	assert.Error(t, err)
}

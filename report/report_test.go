package report

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colcast/colcast/metrics"
)

func sampleRun() metrics.RunReport {
	run := metrics.RunReport{
		Metadata: metrics.RunMetadata{
			Command:     "convert",
			Format:      "csv",
			Source:      "data",
			Destination: "out",
			StartTime:   time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		},
	}
	run.Add(metrics.FileOutcome{
		Source: "data/a.parquet",
		Output: "out/a.csv",
		Status: metrics.StatusSucceeded,
		Rows:   42,
		SizeMB: 0.5,
	})
	run.Add(metrics.FileOutcome{
		Source: "data/b.parquet",
		Status: metrics.StatusFailed,
		Error:  "boom",
	})
	return run
}

func TestJSONReportRoundTrip(t *testing.T) {
	gen := &JSONReportGenerator{}
	run := sampleRun()

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, gen.SaveReportToFile(run, path))

	loaded, err := gen.ReportFromFilePath(path)
	require.NoError(t, err)
	assert.Equal(t, run.Metadata.Source, loaded.Metadata.Source)
	assert.Equal(t, 1, loaded.Tally.Failed)
	require.Len(t, loaded.Files, 2)
	assert.Equal(t, metrics.StatusFailed, loaded.Files[1].Status)
}

func TestJSONAlertNotification(t *testing.T) {
	gen := &JSONReportGenerator{}
	data, err := gen.GenerateAlertNotification(sampleRun())
	require.NoError(t, err)

	var alert map[string]any
	require.NoError(t, json.Unmarshal(data, &alert))
	assert.Equal(t, "Conversion Failed", alert["alert"])
	assert.Equal(t, float64(1), alert["failed"])
}

func TestHTMLReport(t *testing.T) {
	gen := &HTMLReportGenerator{}
	data, err := gen.GenerateRunReport(sampleRun())
	require.NoError(t, err)

	html := string(data)
	assert.True(t, strings.Contains(html, "data/a.parquet"))
	assert.True(t, strings.Contains(html, `class="status-failed"`))
	assert.True(t, strings.Contains(html, "boom"))
}

package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// -----------------------------
// Domain Types & Metadata
// -----------------------------

// FileStatus is the terminal outcome of one file conversion.
type FileStatus string

const (
	StatusSucceeded FileStatus = "succeeded"
	StatusSkipped   FileStatus = "skipped"
	StatusFailed    FileStatus = "failed"
)

// RunMetadata captures high-level context for a conversion run.
type RunMetadata struct {
	Command     string        `json:"command"`
	Format      string        `json:"format"`
	Source      string        `json:"source"`
	Destination string        `json:"destination"`
	Version     string        `json:"version"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time"`
	Duration    time.Duration `json:"duration"`
}

// FileOutcome holds the result of a single file conversion.
type FileOutcome struct {
	Source   string        `json:"source"`
	Output   string        `json:"output,omitempty"`
	Status   FileStatus    `json:"status"`
	Rows     int64         `json:"rows"`
	SizeMB   float64       `json:"size_mb"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Tally counts file outcomes by status.
type Tally struct {
	Succeeded int `json:"succeeded"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Total returns the number of files the run touched.
func (t Tally) Total() int {
	return t.Succeeded + t.Skipped + t.Failed
}

// Record counts one outcome.
func (t *Tally) Record(status FileStatus) {
	switch status {
	case StatusSucceeded:
		t.Succeeded++
	case StatusSkipped:
		t.Skipped++
	case StatusFailed:
		t.Failed++
	}
}

// String renders the tally the way the CLI prints it.
func (t Tally) String() string {
	return fmt.Sprintf("%d succeeded, %d skipped, %d failed", t.Succeeded, t.Skipped, t.Failed)
}

// RunReport aggregates the results of a conversion run.
type RunReport struct {
	Metadata RunMetadata   `json:"metadata"`
	Tally    Tally         `json:"tally"`
	Files    []FileOutcome `json:"files"`
}

// Add appends a file outcome and updates the tally.
func (r *RunReport) Add(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)
	r.Tally.Record(outcome.Status)
}

// -----------------------------
// Metrics Storage
// -----------------------------

// MetricsStore abstracts conversion result storage.
type MetricsStore interface {
	Save(run RunReport) error
	SaveWithContext(ctx context.Context, run RunReport) error
}

// JSONMetricsStore stores results as JSON.
type JSONMetricsStore struct {
	FilePath string
}

func (j *JSONMetricsStore) Save(run RunReport) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return err
	}
	if j.FilePath != "" {
		return os.WriteFile(j.FilePath, data, 0644)
	}
	fmt.Println(string(data))
	return nil
}

func (j *JSONMetricsStore) SaveWithContext(ctx context.Context, run RunReport) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return j.Save(run)
	}
}

package report

import (
	"bytes"
	"encoding/json"
	"html/template"
	"os"
	"time"

	"github.com/colcast/colcast/metrics"
)

// -----------------------------
// Report Generator Interfaces
// -----------------------------

// ReportGenerator defines the methods for generating reports.
type ReportGenerator interface {
	GenerateRunReport(run metrics.RunReport) ([]byte, error)
	SaveReportToFile(run metrics.RunReport, filePath string) error
}

// -----------------------------
// JSON Report Generator
// -----------------------------

// JSONReportGenerator generates JSON reports.
type JSONReportGenerator struct{}

// GenerateRunReport serializes the RunReport to JSON.
func (j *JSONReportGenerator) GenerateRunReport(run metrics.RunReport) ([]byte, error) {
	return json.MarshalIndent(run, "", "  ")
}

// GenerateAlertNotification generates an alert message in JSON format for
// runs with failures.
func (j *JSONReportGenerator) GenerateAlertNotification(run metrics.RunReport) ([]byte, error) {
	alert := map[string]interface{}{
		"alert":     "Conversion Failed",
		"source":    run.Metadata.Source,
		"format":    run.Metadata.Format,
		"failed":    run.Tally.Failed,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	return json.MarshalIndent(alert, "", "  ")
}

// SaveReportToFile saves the JSON report to a file.
func (j *JSONReportGenerator) SaveReportToFile(run metrics.RunReport, filePath string) error {
	data, err := j.GenerateRunReport(run)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

// ReportFromFilePath loads a report from a file.
func (j *JSONReportGenerator) ReportFromFilePath(path string) (metrics.RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return metrics.RunReport{}, err
	}

	var report metrics.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return metrics.RunReport{}, err
	}
	return report, nil
}

// -----------------------------
// HTML Report Generator
// -----------------------------

// HTMLReportGenerator generates HTML reports.
type HTMLReportGenerator struct{}

// HTML template for the report.
const htmlTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Conversion Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        table { width: 100%; border-collapse: collapse; margin-top: 20px; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #f4f4f4; }
        .status-succeeded { color: green; }
        .status-skipped { color: darkorange; }
        .status-failed { color: red; }
    </style>
</head>
<body>
    <h1>Conversion Report</h1>
    <p><strong>Source:</strong> {{.Metadata.Source}}</p>
    <p><strong>Destination:</strong> {{.Metadata.Destination}}</p>
    <p><strong>Format:</strong> {{.Metadata.Format}}</p>
    <p><strong>Started:</strong> {{.Metadata.StartTime}}</p>
    <p><strong>Result:</strong> {{.Tally}}</p>

    <h2>Files</h2>
    <table>
        <tr>
            <th>Source</th>
            <th>Output</th>
            <th>Status</th>
            <th>Rows</th>
            <th>Size (MB)</th>
            <th>Error</th>
        </tr>
        {{range .Files}}
        <tr>
            <td>{{.Source}}</td>
            <td>{{.Output}}</td>
            <td class="status-{{.Status}}">{{.Status}}</td>
            <td>{{.Rows}}</td>
            <td>{{printf "%.2f" .SizeMB}}</td>
            <td>{{.Error}}</td>
        </tr>
        {{end}}
    </table>
</body>
</html>
`

// GenerateRunReport renders the RunReport as an HTML page.
func (h *HTMLReportGenerator) GenerateRunReport(run metrics.RunReport) ([]byte, error) {
	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, run); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveReportToFile saves the HTML report to a file.
func (h *HTMLReportGenerator) SaveReportToFile(run metrics.RunReport, filePath string) error {
	data, err := h.GenerateRunReport(run)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/go-scripts/pdfcats/internal/types"
)

// FileWriter writes run reports as JSON files, one directory per run
type FileWriter struct {
	outputDir string
	runID     string
}

// New creates a new FileWriter with a fresh run id. Reports go to
// outputDir/<run id>/.
func New(outputDir string) (*FileWriter, error) {
	runID := uuid.NewString()
	dir := filepath.Join(outputDir, runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &FileWriter{outputDir: dir, runID: runID}, nil
}

// RunID identifies this run in every report
func (w *FileWriter) RunID() string {
	return w.runID
}

// Dir is where the reports of this run are written
func (w *FileWriter) Dir() string {
	return w.outputDir
}

// WriteYearReport writes the report of one year
func (w *FileWriter) WriteYearReport(report *types.YearReport) error {
	report.RunID = w.runID
	return w.writeJSON(fmt.Sprintf("%d.json", report.Year), report)
}

// WriteSummary writes the totals of the run
func (w *FileWriter) WriteSummary(summary *types.RunSummary) error {
	summary.RunID = w.runID
	return w.writeJSON("summary.json", summary)
}

func (w *FileWriter) writeJSON(name string, v any) error {
	path := filepath.Join(w.outputDir, name)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	return nil
}

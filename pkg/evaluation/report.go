/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report.go
Description: Evaluation output files. Prediction files list "actual predicted" class names
under a KEEL header; reports are timestamped JSON documents grouped by report kind.
*/

package evaluation

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kleascm/frbdt/pkg/dataset"
)

// WritePredictions writes one "actual predicted" line per instance after the KEEL
// header of schema
func WritePredictions(w io.Writer, schema *dataset.Schema, result *Result) error {
	if err := dataset.WriteKEELHeader(w, schema); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	bw := bufio.NewWriter(w)
	class := schema.Class
	for _, p := range result.Predictions {
		fmt.Fprintf(bw, "%s %s\n", class.ValueName(float64(p.Actual)), class.ValueName(float64(p.Predicted)))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write predictions: %w", err)
	}
	return nil
}

// SavePredictions writes a prediction file to path
func SavePredictions(path string, schema *dataset.Schema, result *Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create prediction file: %w", err)
	}
	defer file.Close()

	if err := WritePredictions(file, schema, result); err != nil {
		return err
	}
	return file.Close()
}

// WriteReport writes a result as JSON under dir/kind with a timestamped file name
// such as 2024-06-11_01-30-00_evaluation_1a2b3c4d.json, and returns its path
func WriteReport(dir, kind, modelID string, result interface{}) (string, error) {
	reportDir := filepath.Join(dir, kind)
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	short := modelID
	if len(short) > 8 {
		short = short[:8]
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filePath := filepath.Join(reportDir, fmt.Sprintf("%s_%s_%s.json", timestamp, kind, short))

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	return filePath, nil
}

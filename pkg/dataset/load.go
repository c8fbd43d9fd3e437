/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: load.go
Description: File-level entry point for dataset loading. Picks the reader from the file
extension: .csv goes through the CSV reader, .dat/.keel through the KEEL reader.
*/

package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a dataset file. A non-nil opts.Schema makes the file encode
// against an existing (training) schema.
func Load(path string, opts CSVOptions) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".tsv":
		if ext == ".tsv" && opts.Comma == 0 {
			opts.Comma = '\t'
		}
		if opts.Relation == "" {
			opts.Relation = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		return ReadCSV(file, opts)
	case ".dat", ".keel":
		return ReadKEEL(file, opts.Schema)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", ext)
	}
}

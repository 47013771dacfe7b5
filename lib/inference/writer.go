// Copyright 2025 The ARElight Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package inference

import (
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ResultWriter receives decoded results in the exact order rows were
// read. A prior target file is overwritten for a full run.
type ResultWriter interface {
	// SetTarget binds the writer to its output path, replacing any
	// existing file.
	SetTarget(path string) error

	// Write appends one result. Called once per row in read order.
	Write(res PredictionResult) error

	// Close flushes and releases the target.
	Close() error
}

// Ensure TSVResultWriter implements the ResultWriter interface
var _ ResultWriter = (*TSVResultWriter)(nil)

// TSVResultWriter writes results as a gzip-compressed TSV file:
// id, label, comma-joined score vector.
type TSVResultWriter struct {
	f  *os.File
	gz *gzip.Writer
	w  *csv.Writer
}

// NewTSVResultWriter returns an unbound writer; SetTarget must be
// called before Write.
func NewTSVResultWriter() *TSVResultWriter { return &TSVResultWriter{} }

func (t *TSVResultWriter) SetTarget(path string) error {
	if t.f != nil {
		return errors.New("result target already set")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating result target %s: %w", path, err)
	}
	t.f = f
	t.gz = gzip.NewWriter(f)
	t.w = csv.NewWriter(t.gz)
	t.w.Comma = '\t'
	if err := t.w.Write([]string{"id", "label", "scores"}); err != nil {
		return fmt.Errorf("writing result header: %w", err)
	}
	return nil
}

func (t *TSVResultWriter) Write(res PredictionResult) error {
	if t.w == nil {
		return errors.New("result target not set")
	}
	scores := make([]string, len(res.Scores))
	for i, s := range res.Scores {
		scores[i] = strconv.FormatFloat(float64(s), 'g', -1, 32)
	}
	record := []string{res.RowID, string(res.Label), strings.Join(scores, ",")}
	if err := t.w.Write(record); err != nil {
		return fmt.Errorf("writing result %s: %w", res.RowID, err)
	}
	return nil
}

func (t *TSVResultWriter) Close() error {
	if t.w == nil {
		return nil
	}
	t.w.Flush()
	if err := t.w.Error(); err != nil {
		return fmt.Errorf("flushing results: %w", err)
	}
	if err := t.gz.Close(); err != nil {
		return fmt.Errorf("closing gzip stream: %w", err)
	}
	err := t.f.Close()
	t.f, t.gz, t.w = nil, nil, nil
	return err
}
